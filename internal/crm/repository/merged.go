package repository

import "sync"

// Source is a live view that can be combined with others.
type Source interface {
	Changes() <-chan struct{}
	Close()
}

// View is what streaming consumers read: a state, a change signal and a way
// to stop.
type View[S any] interface {
	State() S
	Changes() <-chan struct{}
	Close()
}

// Merged derives one state from several live sources and signals whenever
// any of them changes.
type Merged[S any] struct {
	state   func() S
	sources []Source

	mu      sync.Mutex
	closed  bool
	changes chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func Merge[S any](state func() S, sources ...Source) *Merged[S] {
	m := &Merged[S]{
		state:   state,
		sources: sources,
		changes: make(chan struct{}, 1),
	}
	for _, src := range sources {
		m.wg.Add(1)
		go func(ch <-chan struct{}) {
			defer m.wg.Done()
			for range ch {
				m.signal()
			}
		}(src.Changes())
	}
	return m
}

func (m *Merged[S]) State() S { return m.state() }

func (m *Merged[S]) Changes() <-chan struct{} { return m.changes }

func (m *Merged[S]) Close() {
	m.once.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()

		for _, src := range m.sources {
			src.Close()
		}
		m.wg.Wait()

		m.mu.Lock()
		close(m.changes)
		m.mu.Unlock()
	})
}

func (m *Merged[S]) signal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case m.changes <- struct{}{}:
	default:
	}
}
