package repository

import (
	"context"
	"time"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/crm/performance"
	"github.com/storedesk/storedesk-backend/internal/records"
)

// Performance stores daily metrics. Nothing prevents two records for the
// same date; totals count both.
type Performance struct {
	*Repository[domain.StorePerformance]
}

func NewPerformance(store records.Store, session auth.Session, opts ...Option) *Performance {
	return &Performance{newRepository(store, CollectionPerformance, session, domain.PerformanceFromDocument, byCreatedDesc, opts)}
}

func (r *Performance) Create(ctx context.Context, req domain.CreatePerformanceRequest) (string, error) {
	if err := domain.Validate(req); err != nil {
		return "", err
	}
	return r.create(ctx, req.Fields())
}

func (r *Performance) Update(ctx context.Context, id string, req domain.UpdatePerformanceRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	return r.update(ctx, id, req.Fields())
}

func (r *Performance) ByDateRange(ctx context.Context, from, to time.Time) ([]domain.StorePerformance, error) {
	return r.fetch(ctx, dateRange("date", from, to)...)
}

// Totals sums the metrics recorded within [from, to].
func (r *Performance) Totals(ctx context.Context, from, to time.Time) (performance.Totals, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return performance.Totals{}, err
	}
	return performance.CalculateTotals(entries, from, to), nil
}
