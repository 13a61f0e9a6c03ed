package dashboard

import (
	"context"
	"time"

	"github.com/storedesk/storedesk-backend/internal/crm/repository"
)

// Snapshot is the dashboard as seen by a live consumer.
type Snapshot struct {
	Stats
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Sources are the repositories the dashboard reads.
type Sources struct {
	Customers    *repository.Customers
	Interactions *repository.Interactions
	Appointments *repository.Appointments
}

// Load computes the dashboard from one fetch of each list.
func Load(ctx context.Context, src Sources, now time.Time) (Stats, error) {
	customers, err := src.Customers.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	interactions, err := src.Interactions.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	appointments, err := src.Appointments.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Compute(customers, interactions, appointments, now), nil
}

// Watch recomputes the dashboard whenever any input list or its loading
// state changes. now is read on every recomputation.
func Watch(ctx context.Context, src Sources, now func() time.Time) *repository.Merged[Snapshot] {
	customers := src.Customers.Watch(ctx)
	interactions := src.Interactions.Watch(ctx)
	appointments := src.Appointments.Watch(ctx)

	return repository.Merge(func() Snapshot {
		c, i, a := customers.State(), interactions.State(), appointments.State()
		snap := Snapshot{
			Stats:   Compute(c.Items, i.Items, a.Items, now()),
			Loading: c.Loading || i.Loading || a.Loading,
		}
		for _, e := range []string{c.Error, i.Error, a.Error} {
			if e != "" {
				snap.Error = e
				break
			}
		}
		return snap
	}, customers, interactions, appointments)
}
