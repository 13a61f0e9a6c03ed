package repository

import (
	"context"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/records"
)

type Customers struct {
	*Repository[domain.Customer]
}

func NewCustomers(store records.Store, session auth.Session, opts ...Option) *Customers {
	return &Customers{newRepository(store, CollectionCustomers, session, domain.CustomerFromDocument, byCreatedDesc, opts)}
}

// Create validates the form and writes a new customer with zeroed loyalty
// points and purchases.
func (r *Customers) Create(ctx context.Context, req domain.CreateCustomerRequest) (string, error) {
	if err := domain.Validate(req); err != nil {
		return "", err
	}
	return r.create(ctx, req.Fields())
}

func (r *Customers) Update(ctx context.Context, id string, req domain.UpdateCustomerRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	return r.update(ctx, id, req.Fields())
}
