// Package repository maps CRM entities onto a records.Store. Every repository
// is bound to the session it was created for; location-scoped repositories
// only read and write documents of the session's location.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/logging"
	"github.com/storedesk/storedesk-backend/internal/records"
)

const (
	CollectionCustomers    = "customers"
	CollectionLeads        = "leads"
	CollectionInteractions = "interactions"
	CollectionAppointments = "appointments"
	CollectionEmployees    = "schedulingEmployees"
	CollectionSchedule     = "schedule"
	CollectionPerformance  = "storePerformance"
	CollectionUsers        = "users"

	fieldLocationID = "locationId"
	fieldCreatedAt  = "createdAt"
	fieldUpdatedAt  = "updatedAt"
)

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock overrides the time source used for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Repository is the behaviour shared by every entity repository.
type Repository[T any] struct {
	store      records.Store
	collection string
	session    auth.Session
	decode     func(records.Document) T
	order      []records.Order
	now        func() time.Time
}

func newRepository[T any](store records.Store, collection string, session auth.Session, decode func(records.Document) T, order []records.Order, opts []Option) *Repository[T] {
	o := buildOptions(opts)
	return &Repository[T]{
		store:      store,
		collection: collection,
		session:    session,
		decode:     decode,
		order:      order,
		now:        o.now,
	}
}

func (r *Repository[T]) Collection() string { return r.collection }

func (r *Repository[T]) Session() auth.Session { return r.session }

// query builds the location-scoped query. ok is false when the session has
// no location, in which case reads yield an empty list.
func (r *Repository[T]) query(session auth.Session, extra ...records.Filter) (records.Query, bool) {
	if !session.HasLocation() {
		return records.Query{}, false
	}
	q := records.Query{
		Filters: []records.Filter{records.Where(fieldLocationID, records.OpEqual, session.LocationID)},
		OrderBy: r.order,
	}
	return q.With(extra...), true
}

func (r *Repository[T]) scopeError(op string) error {
	return fmt.Errorf("cannot %s %s: %w", op, r.collection, domain.ErrNoLocation)
}

// List fetches every document at the session's location once, in canonical
// order.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	return r.fetch(ctx)
}

func (r *Repository[T]) fetch(ctx context.Context, extra ...records.Filter) ([]T, error) {
	q, ok := r.query(r.session, extra...)
	if !ok {
		return []T{}, nil
	}
	docs, err := r.store.FetchOnce(ctx, r.collection, q)
	if err != nil {
		logging.New(ctx).Error("list_"+r.collection, err)
		return nil, err
	}
	return r.decodeAll(docs), nil
}

func (r *Repository[T]) decodeAll(docs []records.Document) []T {
	out := make([]T, len(docs))
	for i, d := range docs {
		out[i] = r.decode(d)
	}
	return out
}

// Get returns one document of the session's location. Documents of other
// locations are reported as not found.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := r.owned(ctx, "get", id)
	if err != nil {
		return zero, err
	}
	return r.decode(*doc), nil
}

func (r *Repository[T]) owned(ctx context.Context, op, id string) (*records.Document, error) {
	if !r.session.HasLocation() {
		return nil, r.scopeError(op)
	}
	doc, err := r.store.GetByID(ctx, r.collection, id)
	if err != nil {
		logging.New(ctx).Error(op+"_"+r.collection, err)
		return nil, err
	}
	if doc == nil || doc.Get(fieldLocationID) != r.session.LocationID {
		return nil, fmt.Errorf("%s %s: %w", r.collection, id, domain.ErrNotFound)
	}
	return doc, nil
}

// create stamps the location and timestamps onto data and writes it.
func (r *Repository[T]) create(ctx context.Context, data map[string]interface{}) (string, error) {
	if !r.session.HasLocation() {
		return "", r.scopeError("create")
	}

	now := r.now()
	data[fieldLocationID] = r.session.LocationID
	data[fieldCreatedAt] = now
	data[fieldUpdatedAt] = now

	id, err := r.store.Create(ctx, r.collection, data)
	if err != nil {
		logging.New(ctx).Error("create_"+r.collection, err)
		return "", err
	}
	logging.New(ctx).Infof("create_"+r.collection, "id=%s location=%s", id, r.session.LocationID)
	return id, nil
}

// update writes only the fields present in partial and always re-stamps
// updatedAt. Concurrent updates to one document are last-write-wins.
func (r *Repository[T]) update(ctx context.Context, id string, partial map[string]interface{}) error {
	if _, err := r.owned(ctx, "update", id); err != nil {
		return err
	}
	return r.write(ctx, id, partial)
}

func (r *Repository[T]) write(ctx context.Context, id string, partial map[string]interface{}) error {
	partial[fieldUpdatedAt] = r.now()
	delete(partial, fieldLocationID)
	delete(partial, fieldCreatedAt)

	if err := r.store.Update(ctx, r.collection, id, partial); err != nil {
		logging.New(ctx).Error("update_"+r.collection, err)
		return err
	}
	return nil
}

// Delete removes the document permanently.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	if _, err := r.owned(ctx, "delete", id); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, r.collection, id); err != nil {
		logging.New(ctx).Error("delete_"+r.collection, err)
		return err
	}
	return nil
}

// Watch opens the live view of the session's location.
func (r *Repository[T]) Watch(ctx context.Context) *Live[T] {
	return newLive(ctx, r, r.session)
}

func dateRange(field string, from, to time.Time) []records.Filter {
	return []records.Filter{
		records.Where(field, records.OpGreaterEqual, from),
		records.Where(field, records.OpLessEqual, to),
	}
}

var (
	byCreatedDesc   = []records.Order{{Field: fieldCreatedAt, Desc: true}}
	byScheduledDate = []records.Order{{Field: "scheduledDate"}}
	byShiftDate     = []records.Order{{Field: "date"}}
)
