package listener

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/matcher"
)

var (
	// ErrInvalidPriority rejects priorities that are not positive integers.
	ErrInvalidPriority = errors.New("listener priority must be a positive integer")
	// ErrNilHandler rejects listeners without a handler function.
	ErrNilHandler = errors.New("listener handler is nil")
	// ErrNoEventTypes rejects listeners bound to no event type.
	ErrNoEventTypes = errors.New("listener has no event types")
)

// Manager owns the listener registry, keyed by event type and ordered by
// ascending priority with stable insertion order among equals. Registration
// happens at startup; dispatch reads snapshots, so chains are replaced
// copy-on-write and a pass in progress is never affected by concurrent
// registration.
type Manager struct {
	logger *slog.Logger

	mu        sync.RWMutex
	chains    map[event.Type][]*Listener
	byHandler map[uintptr][]*Listener
	seq       uint64

	firstMatchOnly bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithFirstMatchOnly stops a dispatch pass at the first listener whose
// handler fires, instead of the default broadcast-to-all-matching semantics.
func WithFirstMatchOnly() Option {
	return func(m *Manager) { m.firstMatchOnly = true }
}

// NewManager creates an empty registry.
func NewManager(log *slog.Logger, opts ...Option) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		logger:    log.With(slog.String("component", "listener")),
		chains:    map[event.Type][]*Listener{},
		byHandler: map[uintptr][]*Listener{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register inserts the listener into the ordered chain of each of its event
// types at the given priority. Lower priority runs earlier; values <= 0 are
// rejected and nothing is added.
func (m *Manager) Register(l *Listener, priority int) error {
	if l == nil || l.handler == nil {
		return ErrNilHandler
	}
	if priority <= 0 {
		return ErrInvalidPriority
	}
	if len(l.types) == 0 {
		return ErrNoEventTypes
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l.priority = priority
	l.seq = m.seq
	for _, t := range l.types {
		m.chains[t] = insertOrdered(m.chains[t], l)
	}
	key := handlerKey(l.handler)
	m.byHandler[key] = append(m.byHandler[key], l)

	m.logger.Info("listener registered",
		slog.String("listener_id", l.id),
		slog.Int("priority", priority),
		slog.Any("events", l.types))
	return nil
}

// insertOrdered returns a new slice with l placed by ascending priority,
// keeping insertion order among equal priorities. The original slice is left
// untouched so in-flight dispatch snapshots stay valid.
func insertOrdered(chain []*Listener, l *Listener) []*Listener {
	next := make([]*Listener, 0, len(chain)+1)
	next = append(next, chain...)
	next = append(next, l)
	sort.SliceStable(next, func(i, j int) bool {
		if next[i].priority != next[j].priority {
			return next[i].priority < next[j].priority
		}
		return next[i].seq < next[j].seq
	})
	return next
}

// Registered reports whether the handler identity has at least one
// registered listener.
func (m *Manager) Registered(h Handler) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byHandler[handlerKey(h)]) > 0
}

// Len returns the number of listeners registered for the event type.
func (m *Manager) Len(t event.Type) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chains[t])
}

// SetMatcher attaches a matcher to every listener sharing the handler
// identity. It returns false when the handler was never registered, leaving
// no attachment state behind.
func (m *Manager) SetMatcher(h Handler, mt matcher.Matcher) bool {
	return m.mutate(h, func(l *Listener) { l.attach.matcher = mt })
}

// SetParamMode attaches a parameter-conversion mode.
func (m *Manager) SetParamMode(h Handler, mode matcher.ParamMode) bool {
	return m.mutate(h, func(l *Listener) { l.attach.paramMode = mode })
}

// SetRole attaches a role filter with an optional fallback handler.
func (m *Manager) SetRole(h Handler, roles event.RoleSet, fallback Fallback) bool {
	return m.mutate(h, func(l *Listener) {
		l.attach.roles = roles
		l.attach.fallback = fallback
	})
}

// SetNLP attaches a natural-language binding.
func (m *Manager) SetNLP(h Handler, nlp *matcher.NLP) bool {
	return m.mutate(h, func(l *Listener) { l.attach.nlp = nlp })
}

func (m *Manager) mutate(h Handler, apply func(*Listener)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	targets := m.byHandler[handlerKey(h)]
	if len(targets) == 0 {
		return false
	}
	for _, l := range targets {
		apply(l)
	}
	return true
}

// snapshot returns the current ordered chain for the event type. The slice
// is never mutated after publication, so it is safe to iterate without the
// lock.
func (m *Manager) snapshot(t event.Type) []*Listener {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chains[t]
}

// attachSnapshot copies the listener's attachment set under the lock so a
// dispatch pass observes a consistent view.
func (m *Manager) attachSnapshot(l *Listener) attachments {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return l.attach
}
