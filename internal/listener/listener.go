// Package listener implements the prioritized listener registry and the
// event-dispatch pipeline at the center of the framework.
package listener

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/matcher"
	"github.com/wisphq/wisp/internal/message"
)

// Handler is the function bound to an event type. The invocation carries the
// matched trigger and converted parameters; both are zero-valued when the
// listener has no matcher attached.
type Handler func(ctx context.Context, ev event.Event, inv *Invocation) error

// Fallback runs instead of the handler when a role filter rejects the sender.
// It receives the display text and the chain alongside the event.
type Fallback func(ctx context.Context, ev event.Event, display string, chain *message.Chain) error

// Invocation is the resolved argument set for one handler call.
type Invocation struct {
	Trigger string
	Params  matcher.Params
	Chain   *message.Chain
}

// attachments refine listener behavior without changing its activity. They
// are set through the manager after registration and read under its lock.
type attachments struct {
	matcher   matcher.Matcher
	paramMode matcher.ParamMode
	roles     event.RoleSet
	fallback  Fallback
	nlp       *matcher.NLP
}

// Listener binds one or more event types to a handler. A listener is active
// from the moment it is registered; attachments only refine which events
// reach the handler.
type Listener struct {
	id       string
	types    []event.Type
	handler  Handler
	priority int
	seq      uint64

	attach attachments
}

// New builds an unregistered listener for the given handler and event types.
func New(handler Handler, types ...event.Type) *Listener {
	return &Listener{
		id:      uuid.NewString(),
		types:   append([]event.Type(nil), types...),
		handler: handler,
	}
}

// ID is the unique listener identifier, used in logs.
func (l *Listener) ID() string { return l.id }

// Types returns the event types the listener is bound to.
func (l *Listener) Types() []event.Type {
	return append([]event.Type(nil), l.types...)
}

// Priority returns the registered priority, zero before registration.
func (l *Listener) Priority() int { return l.priority }

// handlerKey identifies a handler function for attachment lookups. Function
// values are not comparable in Go; the code pointer is the stable identity
// the attachment operations key on.
func handlerKey(h Handler) uintptr {
	if h == nil {
		return 0
	}
	return reflect.ValueOf(h).Pointer()
}
