package providers

import (
	"context"
	"sync"
	"sync/atomic"
)

// Factory builds a provider client
type Factory[T any] func(ctx context.Context) (T, error)

// Holder lazily builds one shared client. The first successful construction
// is kept for the life of the process; a failed one is forgotten so the next
// Get tries again.
type Holder[T any] struct {
	name    string
	factory Factory[T]

	mu    sync.Mutex
	value T
	ready atomic.Bool
}

// NewHolder creates a holder that builds its client with factory on first use
func NewHolder[T any](name string, factory Factory[T]) *Holder[T] {
	return &Holder[T]{name: name, factory: factory}
}

// Name returns the provider name the holder was registered with
func (h *Holder[T]) Name() string {
	return h.name
}

// Get returns the shared client, building it if needed. Concurrent first
// callers wait for a single construction and receive the same instance.
func (h *Holder[T]) Get(ctx context.Context) (T, error) {
	if h.ready.Load() {
		return h.value, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ready.Load() {
		return h.value, nil
	}

	value, err := h.factory(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	h.value = value
	h.ready.Store(true)
	return value, nil
}

// Ready reports whether the client has been built. It never blocks.
func (h *Holder[T]) Ready() bool {
	return h.ready.Load()
}
