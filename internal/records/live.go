package records

import (
	"context"
	"sync"
	"time"
)

// FetchFunc re-runs a query and returns the full result list.
type FetchFunc func(ctx context.Context) ([]Document, error)

type stream struct {
	updates chan Snapshot
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

func (s *stream) Updates() <-chan Snapshot { return s.updates }

func (s *stream) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Stream runs produce on its own goroutine and exposes what it emits as a
// Subscription. emit reports false once the subscription has been closed, at
// which point produce should return.
func Stream(parent context.Context, produce func(ctx context.Context, emit func(Snapshot) bool)) Subscription {
	ctx, cancel := context.WithCancel(parent)
	s := &stream{
		updates: make(chan Snapshot),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer close(s.updates)
		produce(ctx, func(snap Snapshot) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case s.updates <- snap:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()

	return s
}

// Watch turns change notifications into a stream of full snapshots: one
// initial fetch, then one fetch per notification. Notifications that arrive
// while a fetch is in flight are coalesced. release runs once the stream ends.
func Watch(parent context.Context, fetch FetchFunc, changes <-chan struct{}, release func()) Subscription {
	return Stream(parent, func(ctx context.Context, emit func(Snapshot) bool) {
		if release != nil {
			defer release()
		}

		refresh := func() bool {
			docs, err := fetch(ctx)
			return emit(Snapshot{Docs: docs, Err: err})
		}

		if !refresh() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok || !refresh() {
					return
				}
			}
		}
	})
}

// Notifier fans change notifications for a collection out to every live
// query on that collection.
type Notifier struct {
	mu        sync.Mutex
	listeners map[string]map[chan struct{}]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[string]map[chan struct{}]struct{})}
}

// Listen registers interest in a collection. The returned channel holds at
// most one pending notification.
func (n *Notifier) Listen(collection string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	set, ok := n.listeners[collection]
	if !ok {
		set = make(map[chan struct{}]struct{})
		n.listeners[collection] = set
	}
	set[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners[collection], ch)
			if len(n.listeners[collection]) == 0 {
				delete(n.listeners, collection)
			}
			n.mu.Unlock()
		})
	}
}

func (n *Notifier) Notify(collection string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.listeners[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// NotifyAll wakes every live query, used after a lost connection may have
// dropped change events.
func (n *Notifier) NotifyAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, set := range n.listeners {
		for ch := range set {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// Listeners returns the number of live queries registered on a collection.
func (n *Notifier) Listeners(collection string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners[collection])
}

// EncodeJSONData prepares document data for backends that persist JSON:
// timestamps become RFC3339 strings in UTC.
func EncodeJSONData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		switch x := v.(type) {
		case time.Time:
			out[k] = EncodeTime(x)
		case *time.Time:
			if x == nil {
				out[k] = nil
			} else {
				out[k] = EncodeTime(*x)
			}
		default:
			out[k] = v
		}
	}
	return out
}
