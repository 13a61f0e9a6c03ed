package repository

import (
	"context"
	"sync"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/logging"
	"github.com/storedesk/storedesk-backend/internal/records"
)

// State is what a live view currently holds.
type State[T any] struct {
	Items   []T    `json:"items"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Live keeps the result list of one location-scoped subscription. Every
// snapshot replaces Items entirely. A subscription error is recorded in Error
// and leaves the previous Items untouched.
type Live[T any] struct {
	ctx  context.Context
	repo *Repository[T]

	mu      sync.Mutex
	state   State[T]
	sub     records.Subscription
	gen     uint64
	closed  bool
	changes chan struct{}
	wg      sync.WaitGroup
}

func newLive[T any](ctx context.Context, repo *Repository[T], session auth.Session) *Live[T] {
	l := &Live[T]{
		ctx:     ctx,
		repo:    repo,
		state:   State[T]{Items: []T{}, Loading: true},
		changes: make(chan struct{}, 1),
	}
	l.open(0, session)
	return l
}

// State returns a copy of the current state.
func (l *Live[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state
	s.Items = append(make([]T, 0, len(l.state.Items)), l.state.Items...)
	return s
}

// Changes signals after each state change. It holds at most one pending
// signal and is closed by Close.
func (l *Live[T]) Changes() <-chan struct{} { return l.changes }

// Rescope tears down the current subscription and opens one for session.
func (l *Live[T]) Rescope(session auth.Session) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.gen++
	gen := l.gen
	old := l.sub
	l.sub = nil
	l.state = State[T]{Items: []T{}, Loading: true}
	l.mu.Unlock()

	if old != nil {
		old.Close()
	}
	l.open(gen, session)
}

// Close ends the subscription. Events still in flight are dropped.
func (l *Live[T]) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.gen++
	old := l.sub
	l.sub = nil
	l.mu.Unlock()

	if old != nil {
		old.Close()
	}
	l.wg.Wait()

	l.mu.Lock()
	close(l.changes)
	l.mu.Unlock()
}

func (l *Live[T]) open(gen uint64, session auth.Session) {
	q, ok := l.repo.query(session)
	if !ok {
		l.set(gen, func(s *State[T]) {
			s.Items = []T{}
			s.Loading = false
			s.Error = ""
		})
		return
	}

	sub, err := l.repo.store.Subscribe(l.ctx, l.repo.collection, q)
	if err != nil {
		logging.New(l.ctx).Error("subscribe_"+l.repo.collection, err)
		l.set(gen, func(s *State[T]) {
			s.Loading = false
			s.Error = err.Error()
		})
		return
	}

	l.mu.Lock()
	if l.closed || gen != l.gen {
		l.mu.Unlock()
		sub.Close()
		return
	}
	l.sub = sub
	l.wg.Add(1)
	l.mu.Unlock()

	go l.pump(gen, sub)
}

func (l *Live[T]) pump(gen uint64, sub records.Subscription) {
	defer l.wg.Done()
	for snap := range sub.Updates() {
		if snap.Err != nil {
			logging.New(l.ctx).Error("subscribe_"+l.repo.collection, snap.Err)
			l.set(gen, func(s *State[T]) {
				s.Loading = false
				s.Error = snap.Err.Error()
			})
			continue
		}
		items := l.repo.decodeAll(snap.Docs)
		l.set(gen, func(s *State[T]) {
			s.Items = items
			s.Loading = false
			s.Error = ""
		})
	}
}

// set applies mutate unless the view moved on to a newer subscription.
func (l *Live[T]) set(gen uint64, mutate func(*State[T])) {
	l.mu.Lock()
	if l.closed || gen != l.gen {
		l.mu.Unlock()
		return
	}
	mutate(&l.state)
	select {
	case l.changes <- struct{}{}:
	default:
	}
	l.mu.Unlock()
}
