package repository

import (
	"context"
	"time"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/records"
)

type Appointments struct {
	*Repository[domain.Appointment]
}

func NewAppointments(store records.Store, session auth.Session, opts ...Option) *Appointments {
	return &Appointments{newRepository(store, CollectionAppointments, session, domain.AppointmentFromDocument, byScheduledDate, opts)}
}

func (r *Appointments) Create(ctx context.Context, req domain.CreateAppointmentRequest) (string, error) {
	if err := domain.Validate(req); err != nil {
		return "", err
	}
	data := req.Fields()
	data["createdBy"] = r.session.UID
	if req.AssignedTo == "" {
		data["assignedTo"] = r.session.UID
	}
	return r.create(ctx, data)
}

func (r *Appointments) Update(ctx context.Context, id string, req domain.UpdateAppointmentRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	return r.update(ctx, id, req.Fields())
}

// ByDateRange lists appointments scheduled within [from, to].
func (r *Appointments) ByDateRange(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	return r.fetch(ctx, dateRange("scheduledDate", from, to)...)
}

func (r *Appointments) ByCustomer(ctx context.Context, customerID string) ([]domain.Appointment, error) {
	return r.fetch(ctx, records.Where("customerId", records.OpEqual, customerID))
}

func (r *Appointments) ByAssignee(ctx context.Context, uid string) ([]domain.Appointment, error) {
	return r.fetch(ctx, records.Where("assignedTo", records.OpEqual, uid))
}

// Due lists pending appointments of every location scheduled within
// [from, to]. It ignores the session scope and serves background jobs only.
func Due(ctx context.Context, store records.Store, from, to time.Time) ([]domain.Appointment, error) {
	q := records.Query{Filters: dateRange("scheduledDate", from, to), OrderBy: byScheduledDate}
	docs, err := store.FetchOnce(ctx, CollectionAppointments, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Appointment, 0, len(docs))
	for _, d := range docs {
		if a := domain.AppointmentFromDocument(d); a.Pending() {
			out = append(out, a)
		}
	}
	return out, nil
}

// CustomerContact reads a customer by id regardless of location. Like Due
// it serves background jobs only. A missing customer yields nil.
func CustomerContact(ctx context.Context, store records.Store, id string) (*domain.Customer, error) {
	doc, err := store.GetByID(ctx, CollectionCustomers, id)
	if err != nil || doc == nil {
		return nil, err
	}
	c := domain.CustomerFromDocument(*doc)
	return &c, nil
}
