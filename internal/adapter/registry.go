package adapter

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/wisphq/wisp/internal/message"
)

// Registry holds all registered platform adapters and dispatches capability
// lookups. It must be created via NewRegistry and passed explicitly to the
// components that need it.
type Registry struct {
	mu       sync.RWMutex
	adapters map[Type]Adapter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[Type]Adapter{}}
}

// Register adds an adapter; duplicate types are rejected.
func (r *Registry) Register(a Adapter) error {
	if a == nil {
		return errors.New("adapter is nil")
	}
	t := normalizeType(a.Type().String())
	if t == "" {
		return errors.New("adapter type is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[t]; exists {
		return fmt.Errorf("adapter type already registered: %s", t)
	}
	r.adapters[t] = a
	return nil
}

// MustRegister calls Register and panics on error.
func (r *Registry) MustRegister(a Adapter) {
	if err := r.Register(a); err != nil {
		panic(err)
	}
}

// Get returns the adapter for the given type.
func (r *Registry) Get(t Type) (Adapter, bool) {
	key := normalizeType(t.String())
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[key]
	return a, ok
}

// Types returns all registered adapter types.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]Type, 0, len(r.adapters))
	for t := range r.adapters {
		items = append(items, t)
	}
	return items
}

// GetSender returns the Sender for the type, or false if unsupported.
func (r *Registry) GetSender(t Type) (Sender, bool) {
	a, ok := r.Get(t)
	if !ok {
		return nil, false
	}
	sender, ok := a.(Sender)
	return sender, ok
}

// GetReceiver returns the Receiver for the type, or false if unsupported.
func (r *Registry) GetReceiver(t Type) (Receiver, bool) {
	a, ok := r.Get(t)
	if !ok {
		return nil, false
	}
	receiver, ok := a.(Receiver)
	return receiver, ok
}

// ElementFactory returns the adapter's constructor for the logical kind.
func (r *Registry) ElementFactory(t Type, kind message.Kind) (ElementFactory, bool) {
	a, ok := r.Get(t)
	if !ok {
		return nil, false
	}
	factory, ok := a.Descriptor().Elements[kind]
	if !ok || factory == nil {
		return nil, false
	}
	return factory, true
}

// PlainFactory is the lookup the bare-string send path relies on.
func (r *Registry) PlainFactory(t Type) (ElementFactory, bool) {
	return r.ElementFactory(t, message.KindPlain)
}

func normalizeType(raw string) Type {
	return Type(strings.TrimSpace(strings.ToLower(raw)))
}
