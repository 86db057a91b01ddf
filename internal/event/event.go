// Package event defines the inbound event model and the sender identity
// attached to it.
package event

import (
	"time"

	"github.com/wisphq/wisp/internal/message"
)

// Type identifies an event class. Listeners register against one or more
// types; adapters tag the events they produce.
type Type string

const (
	TypeFriendMessage Type = "message.friend"
	TypeGroupMessage  Type = "message.group"
	TypeNotice        Type = "notice"
	TypeRequest       Type = "request"
	TypeMeta          Type = "meta"
)

// Event is an inbound occurrence delivered to the dispatch pipeline. Events
// arrive already deserialized by an adapter.
type Event interface {
	EventType() Type
	Chain() *message.Chain
	Sender() Contact
}

// Group describes the conversation a group message belongs to.
type Group struct {
	ID   string
	Name string
}

// Message is a chat message event, friend or group scoped.
type Message struct {
	Type        Type
	MessageID   string
	Source      string
	From        Contact
	Group       *Group
	Body        *message.Chain
	ReplyTarget string
	ReceivedAt  time.Time
}

func (m *Message) EventType() Type        { return m.Type }
func (m *Message) Chain() *message.Chain  { return m.Body }
func (m *Message) Sender() Contact        { return m.From }

// Notice is a non-message platform notification (join, leave, recall).
type Notice struct {
	Kind       string
	From       Contact
	ReceivedAt time.Time
}

func (n *Notice) EventType() Type       { return TypeNotice }
func (n *Notice) Chain() *message.Chain { return nil }
func (n *Notice) Sender() Contact       { return n.From }
