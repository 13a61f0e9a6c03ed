package repository

import (
	"context"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/records"
)

// pipeline holds what leads and interactions share: the same document shape
// kept in two collections.
type pipeline[T any] struct {
	*Repository[T]
}

func (r pipeline[T]) createPipeline(ctx context.Context, data map[string]interface{}) (string, error) {
	data["createdBy"] = r.session.UID
	if assignee, _ := data["assignedTo"].(string); assignee == "" {
		data["assignedTo"] = r.session.UID
	}
	return r.create(ctx, data)
}

func (r pipeline[T]) ByCustomer(ctx context.Context, customerID string) ([]T, error) {
	return r.fetch(ctx, records.Where("customerId", records.OpEqual, customerID))
}

func (r pipeline[T]) ByAssignee(ctx context.Context, uid string) ([]T, error) {
	return r.fetch(ctx, records.Where("assignedTo", records.OpEqual, uid))
}

type Leads struct {
	pipeline[domain.Lead]
}

func NewLeads(store records.Store, session auth.Session, opts ...Option) *Leads {
	return &Leads{pipeline[domain.Lead]{newRepository(store, CollectionLeads, session, domain.LeadFromDocument, byCreatedDesc, opts)}}
}

// Create records the caller as creator and, unless the form names someone
// else, as assignee.
func (r *Leads) Create(ctx context.Context, req domain.CreateLeadRequest) (string, error) {
	if err := domain.Validate(req); err != nil {
		return "", err
	}
	return r.createPipeline(ctx, req.Fields())
}

func (r *Leads) Update(ctx context.Context, id string, req domain.UpdateLeadRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	return r.update(ctx, id, req.Fields())
}

type Interactions struct {
	pipeline[domain.Interaction]
}

func NewInteractions(store records.Store, session auth.Session, opts ...Option) *Interactions {
	return &Interactions{pipeline[domain.Interaction]{newRepository(store, CollectionInteractions, session, domain.InteractionFromDocument, byCreatedDesc, opts)}}
}

func (r *Interactions) Create(ctx context.Context, req domain.CreateInteractionRequest) (string, error) {
	if err := domain.Validate(req); err != nil {
		return "", err
	}
	return r.createPipeline(ctx, req.Fields())
}

func (r *Interactions) Update(ctx context.Context, id string, req domain.UpdateInteractionRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	return r.update(ctx, id, req.Fields())
}
