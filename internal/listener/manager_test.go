package listener

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/message"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func textEvent(t event.Type, role event.Role, text string) *event.Message {
	return &event.Message{
		Type: t,
		From: event.Contact{ID: "u1", Name: "user", Role: role},
		Body: message.New(message.Plain{Text: text}),
	}
}

func noop(context.Context, event.Event, *Invocation) error { return nil }

func TestRegisterOrdersByPriorityThenInsertion(t *testing.T) {
	m := NewManager(testLogger())

	var order []string
	record := func(tag string) Handler {
		return func(context.Context, event.Event, *Invocation) error {
			order = append(order, tag)
			return nil
		}
	}

	// L1 at priority 3, L2 at priority 1, L3 at priority 3: the chain must
	// run L2 first, then L1 and L3 in registration order.
	if err := m.Register(New(record("L1"), event.TypeFriendMessage), 3); err != nil {
		t.Fatalf("register L1: %v", err)
	}
	if err := m.Register(New(record("L2"), event.TypeFriendMessage), 1); err != nil {
		t.Fatalf("register L2: %v", err)
	}
	if err := m.Register(New(record("L3"), event.TypeFriendMessage), 3); err != nil {
		t.Fatalf("register L3: %v", err)
	}

	m.Dispatch(context.Background(), textEvent(event.TypeFriendMessage, event.RoleMember, "hi"))
	want := []string{"L2", "L1", "L3"}
	if len(order) != len(want) {
		t.Fatalf("ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("ran %v, want %v", order, want)
		}
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	m := NewManager(testLogger())

	if err := m.Register(New(noop, event.TypeFriendMessage), 0); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("priority 0: err = %v, want ErrInvalidPriority", err)
	}
	if err := m.Register(New(noop, event.TypeFriendMessage), -5); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("priority -5: err = %v, want ErrInvalidPriority", err)
	}
	if m.Len(event.TypeFriendMessage) != 0 {
		t.Fatal("rejected registration must not alter the chain")
	}

	if err := m.Register(New(nil, event.TypeFriendMessage), 1); !errors.Is(err, ErrNilHandler) {
		t.Fatalf("nil handler: err = %v, want ErrNilHandler", err)
	}
	if err := m.Register(New(noop), 1); !errors.Is(err, ErrNoEventTypes) {
		t.Fatalf("no types: err = %v, want ErrNoEventTypes", err)
	}
}

func TestRegisterMultipleTypes(t *testing.T) {
	m := NewManager(testLogger())
	if err := m.Register(New(noop, event.TypeFriendMessage, event.TypeGroupMessage), 1); err != nil {
		t.Fatalf("register: %v", err)
	}
	if m.Len(event.TypeFriendMessage) != 1 || m.Len(event.TypeGroupMessage) != 1 {
		t.Fatal("listener must appear in the chain of every bound type")
	}
	if !m.Registered(noop) {
		t.Fatal("Registered must report the handler identity")
	}
}

func TestAttachmentRequiresRegisteredHandler(t *testing.T) {
	m := NewManager(testLogger())
	if m.SetParamMode(noop, "tokens") {
		t.Fatal("attachment to an unregistered handler must report false")
	}

	if err := m.Register(New(noop, event.TypeFriendMessage), 1); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !m.SetParamMode(noop, "tokens") {
		t.Fatal("attachment to a registered handler must report true")
	}
}
