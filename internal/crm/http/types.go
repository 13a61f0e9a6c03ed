package http

import (
	"time"

	"github.com/storedesk/storedesk-backend/internal/crm/repository"
	"github.com/storedesk/storedesk-backend/internal/records"
)

const defaultKeepAlive = 15 * time.Second

// Handler serves the CRM and scheduling API. Repositories are opened per
// request for the caller's session.
type Handler struct {
	store     records.Store
	now       func() time.Time
	keepAlive time.Duration
	opts      []repository.Option
}

type Option func(*Handler)

// WithClock sets the time used for stamps and time-relative views.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
		h.opts = append(h.opts, repository.WithClock(now))
	}
}

// WithKeepAlive changes the interval of SSE keep-alive comments.
func WithKeepAlive(d time.Duration) Option {
	return func(h *Handler) { h.keepAlive = d }
}

func New(store records.Store, opts ...Option) *Handler {
	h := &Handler{
		store:     store,
		now:       time.Now,
		keepAlive: defaultKeepAlive,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
