package repository

import (
	"context"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/records"
)

type Employees struct {
	*Repository[domain.SchedulingEmployee]
}

func NewEmployees(store records.Store, session auth.Session, opts ...Option) *Employees {
	return &Employees{newRepository(store, CollectionEmployees, session, domain.EmployeeFromDocument, byCreatedDesc, opts)}
}

func (r *Employees) Create(ctx context.Context, req domain.CreateEmployeeRequest) (string, error) {
	if err := domain.Validate(req); err != nil {
		return "", err
	}
	return r.create(ctx, req.Fields())
}

func (r *Employees) Update(ctx context.Context, id string, req domain.UpdateEmployeeRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	return r.update(ctx, id, req.Fields())
}

// Active lists the employees that can still be scheduled.
func (r *Employees) Active(ctx context.Context) ([]domain.SchedulingEmployee, error) {
	return r.fetch(ctx, records.Where("isActive", records.OpEqual, true))
}

// lookup returns the roster entry for id at the session's location, or nil.
func (r *Employees) lookup(ctx context.Context, id string) (*domain.SchedulingEmployee, error) {
	doc, err := r.store.GetByID(ctx, r.collection, id)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Get(fieldLocationID) != r.session.LocationID {
		return nil, nil
	}
	e := r.decode(*doc)
	return &e, nil
}
