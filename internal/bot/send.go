package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wisphq/wisp/internal/adapter"
	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/message"
)

var (
	// ErrUnsupportedMessage rejects Send payloads that are not a chain,
	// element, element slice or string.
	ErrUnsupportedMessage = errors.New("unsupported message type")
	// ErrNoSender reports an adapter without send capability.
	ErrNoSender = errors.New("adapter does not support sending")
)

// Send normalizes msg into a chain and transmits it through the adapter.
// Accepted payloads: *message.Chain, message.Element, []message.Element and
// string; a bare string is wrapped in the adapter's plain element. Failures
// are logged and returned so the caller can react.
func (b *Bot) Send(ctx context.Context, t adapter.Type, target event.Contact, msg any) error {
	sender, ok := b.registry.GetSender(t)
	if !ok {
		return fmt.Errorf("send via %s: %w", t, ErrNoSender)
	}
	chain, err := b.normalize(t, msg)
	if err != nil {
		b.logger.Warn("cannot send message", slog.Any("error", err))
		return err
	}
	if err := sender.Send(ctx, target, chain); err != nil {
		b.logger.Error("send failed",
			slog.String("adapter", t.String()),
			slog.String("target", target.ID),
			slog.Any("error", err))
		return fmt.Errorf("send via %s: %w", t, err)
	}
	return nil
}

func (b *Bot) normalize(t adapter.Type, msg any) (*message.Chain, error) {
	switch v := msg.(type) {
	case *message.Chain:
		return v, nil
	case message.Element:
		return message.New(v), nil
	case []message.Element:
		return message.New(v...), nil
	case string:
		factory, ok := b.registry.PlainFactory(t)
		if !ok {
			return nil, fmt.Errorf("adapter %s has no plain element factory", t)
		}
		return message.New(factory(v)), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedMessage, msg)
	}
}
