package listener

import (
	"context"
	"log/slog"

	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/matcher"
)

// Dispatch resolves the ordered chain for the event's type and walks it in
// ascending priority, applying role, matcher, NLP and parameter-conversion
// filters before each handler. One failing listener never prevents the rest
// of the pass from running. Broadcast semantics by default; with
// WithFirstMatchOnly the pass stops after the first handler that fires.
func (m *Manager) Dispatch(ctx context.Context, ev event.Event) {
	if ev == nil {
		return
	}
	for _, l := range m.snapshot(ev.EventType()) {
		fired := m.runListener(ctx, ev, l)
		if fired && m.firstMatchOnly {
			return
		}
	}
}

// runListener applies the filter sequence and invokes the handler. It
// reports whether the handler actually ran.
func (m *Manager) runListener(ctx context.Context, ev event.Event, l *Listener) bool {
	attach := m.attachSnapshot(l)
	chain := ev.Chain()

	if attach.roles != nil && !attach.roles.Contains(ev.Sender().Role) {
		if attach.fallback != nil {
			display := ""
			if chain != nil {
				display, _ = chain.Display()
			}
			m.invoke(l, "fallback", func() error {
				return attach.fallback(ctx, ev, display, chain)
			})
		}
		return false
	}

	inv := &Invocation{Chain: chain}
	remainder := ""
	if attach.matcher != nil {
		if chain == nil {
			return false
		}
		result, ok := attach.matcher.Match(chain)
		if !ok {
			return false
		}
		inv.Trigger = result.Trigger
		remainder = result.Remainder
	}

	if attach.nlp != nil {
		text := remainder
		if text == "" && chain != nil {
			text = chain.DisplayWithout()
		}
		if !attach.nlp.Matches(text) {
			return false
		}
	}

	params, ok := matcher.Convert(remainder, attach.paramMode, attach.nlp)
	if !ok {
		m.logger.Warn("parameter conversion rejected",
			slog.String("listener_id", l.id),
			slog.String("mode", string(attach.paramMode)))
		return false
	}
	inv.Params = params

	m.invoke(l, "handler", func() error {
		return l.handler(ctx, ev, inv)
	})
	return true
}

// invoke runs fn with panic isolation; errors and panics are logged and
// swallowed so dispatch continues with the next listener.
func (m *Manager) invoke(l *Listener, what string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("listener panicked",
				slog.String("listener_id", l.id),
				slog.String("stage", what),
				slog.Any("panic", r))
		}
	}()
	if err := fn(); err != nil {
		m.logger.Error("listener failed",
			slog.String("listener_id", l.id),
			slog.String("stage", what),
			slog.Any("error", err))
	}
}
