package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/wisphq/wisp/internal/adapter"
	"github.com/wisphq/wisp/internal/config"
	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/listener"
	"github.com/wisphq/wisp/internal/message"
)

type stubSender struct {
	sent   *message.Chain
	target event.Contact
	err    error
}

func (s *stubSender) Type() adapter.Type { return "stub" }

func (s *stubSender) Descriptor() adapter.Descriptor {
	return adapter.Descriptor{
		Type:        "stub",
		DisplayName: "Stub",
		Elements: map[message.Kind]adapter.ElementFactory{
			message.KindPlain: func(v string) message.Element { return message.Plain{Text: v} },
		},
	}
}

func (s *stubSender) Send(_ context.Context, target event.Contact, chain *message.Chain) error {
	s.sent = chain
	s.target = target
	return s.err
}

func newTestBot(t *testing.T) (*Bot, *stubSender) {
	t.Helper()
	registry := adapter.NewRegistry()
	sender := &stubSender{}
	if err := registry.Register(sender); err != nil {
		t.Fatalf("register stub: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, registry, config.DispatchConfig{}), sender
}

func TestSendNormalizesPayloads(t *testing.T) {
	b, sender := newTestBot(t)
	ctx := context.Background()
	target := event.Contact{ID: "42"}

	t.Run("chain passthrough", func(t *testing.T) {
		chain := message.New(message.Plain{Text: "hi"})
		if err := b.Send(ctx, "stub", target, chain); err != nil {
			t.Fatalf("send: %v", err)
		}
		if sender.sent != chain {
			t.Fatal("chain payload must pass through untouched")
		}
	})

	t.Run("single element", func(t *testing.T) {
		if err := b.Send(ctx, "stub", target, message.At{Target: "7"}); err != nil {
			t.Fatalf("send: %v", err)
		}
		if sender.sent.Code() != "[CQ:at,qq=7]" {
			t.Fatalf("sent %q", sender.sent.Code())
		}
	})

	t.Run("element slice", func(t *testing.T) {
		els := []message.Element{message.Reply{MessageID: "1"}, message.Plain{Text: "ok"}}
		if err := b.Send(ctx, "stub", target, els); err != nil {
			t.Fatalf("send: %v", err)
		}
		if sender.sent.Code() != "[CQ:reply,id=1]ok" {
			t.Fatalf("sent %q", sender.sent.Code())
		}
	})

	t.Run("string wrapped in plain factory", func(t *testing.T) {
		if err := b.Send(ctx, "stub", target, "hello"); err != nil {
			t.Fatalf("send: %v", err)
		}
		display, err := sender.sent.Display()
		if err != nil {
			t.Fatalf("display: %v", err)
		}
		if display != "hello" {
			t.Fatalf("sent display %q", display)
		}
	})

	t.Run("unsupported payload", func(t *testing.T) {
		if err := b.Send(ctx, "stub", target, 123); !errors.Is(err, ErrUnsupportedMessage) {
			t.Fatalf("err = %v, want ErrUnsupportedMessage", err)
		}
	})

	t.Run("unknown adapter", func(t *testing.T) {
		if err := b.Send(ctx, "missing", target, "hi"); !errors.Is(err, ErrNoSender) {
			t.Fatalf("err = %v, want ErrNoSender", err)
		}
	})
}

func TestSendPropagatesAdapterError(t *testing.T) {
	b, sender := newTestBot(t)
	sender.err = errors.New("rate limited")
	err := b.Send(context.Background(), "stub", event.Contact{ID: "1"}, "hi")
	if err == nil || !errors.Is(err, sender.err) {
		t.Fatalf("err = %v, want wrapped adapter error", err)
	}
}

func TestOnRejectsInvalidPriority(t *testing.T) {
	b, _ := newTestBot(t)
	h := func(context.Context, event.Event, *listener.Invocation) error { return nil }

	if err := b.On(0, h, event.TypeFriendMessage); !errors.Is(err, listener.ErrInvalidPriority) {
		t.Fatalf("err = %v, want ErrInvalidPriority", err)
	}
	// The rejected handler never became a listener, so attachments fail too.
	if b.Command(h, []string{"/x"}, false) {
		t.Fatal("attachment must fail for an unregistered handler")
	}

	if err := b.OnDefault(h, event.TypeFriendMessage); err != nil {
		t.Fatalf("OnDefault: %v", err)
	}
	if !b.Command(h, []string{"/x"}, false) {
		t.Fatal("attachment must succeed once the handler is registered")
	}
}
