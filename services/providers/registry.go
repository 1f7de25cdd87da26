package providers

import (
	"errors"
	"sort"
	"sync"
)

// ErrProviderAlreadyRegistered is returned when trying to register a duplicate provider
var ErrProviderAlreadyRegistered = errors.New("provider already registered")

// Provider states reported by Registry.Status
const (
	StateReady         = "ready"
	StateUninitialized = "uninitialized"
)

// Entry is anything the registry can report on; every Holder satisfies it.
type Entry interface {
	Name() string
	Ready() bool
}

// Registry tracks the provider client holders of the process
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds a holder under its name
func (r *Registry) Register(entry Entry) error {
	if entry == nil {
		return errors.New("provider cannot be nil")
	}

	name := entry.Name()
	if name == "" {
		return errors.New("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return ErrProviderAlreadyRegistered
	}
	r.entries[name] = entry

	return nil
}

// ListProviders returns all registered provider names, sorted
func (r *Registry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Status maps every provider name to its state
func (r *Registry) Status() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := make(map[string]string, len(r.entries))
	for name, entry := range r.entries {
		if entry.Ready() {
			status[name] = StateReady
		} else {
			status[name] = StateUninitialized
		}
	}

	return status
}
