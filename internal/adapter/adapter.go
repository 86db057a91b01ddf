// Package adapter defines the platform collaborator surface: the interfaces
// a chat-platform integration implements and the registry the core queries.
package adapter

import (
	"context"

	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/message"
)

// Type identifies a platform adapter, e.g. "onebot" or "telegram".
type Type string

func (t Type) String() string { return string(t) }

// ElementFactory constructs a platform element of a logical kind from its
// single string argument (text for plain, user id for at, face id for face).
// Registering factories by kind replaces runtime type scanning: the core asks
// the descriptor directly which constructor represents, say, plain text.
type ElementFactory func(value string) message.Element

// Descriptor describes an adapter: its type, display name and the element
// constructors it provides per logical kind.
type Descriptor struct {
	Type        Type
	DisplayName string
	Elements    map[message.Kind]ElementFactory
}

// Adapter is the minimal surface every platform integration implements.
// Send and receive capabilities are separate interfaces, discovered by type
// assertion through the registry.
type Adapter interface {
	Type() Type
	Descriptor() Descriptor
}

// Sender transmits a fully-built chain to a platform target.
type Sender interface {
	Send(ctx context.Context, target event.Contact, chain *message.Chain) error
}

// InboundHandler receives already-deserialized events from an adapter.
type InboundHandler func(ctx context.Context, ev event.Event) error

// Receiver opens the platform event stream and feeds inbound events to the
// handler until the connection is stopped.
type Receiver interface {
	Connect(ctx context.Context, handler InboundHandler) (Connection, error)
}
