package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wisphq/wisp/internal/adapter"
	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/message"
)

// Adapter reads lines from in and emits them as friend message events; Send
// writes the display rendering to out. It backs local demos and tests.
type Adapter struct {
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
	sender event.Contact
}

// New creates a console adapter over stdin/stdout.
func New(log *slog.Logger) *Adapter {
	return NewWithIO(log, os.Stdin, os.Stdout)
}

// NewWithIO creates a console adapter over explicit reader/writer pairs.
func NewWithIO(log *slog.Logger, in io.Reader, out io.Writer) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		logger: log.With(slog.String("adapter", "console")),
		in:     in,
		out:    out,
		sender: event.Contact{ID: "console", Name: "console", Role: event.RoleOwner},
	}
}

func (a *Adapter) Type() adapter.Type { return Type }

func (a *Adapter) Descriptor() adapter.Descriptor {
	return adapter.Descriptor{
		Type:        Type,
		DisplayName: "Console",
		Elements:    elementFactories(),
	}
}

// Send writes the chain to the output, preferring the display rendering and
// falling back to the wire form for string-built chains.
func (a *Adapter) Send(_ context.Context, target event.Contact, chain *message.Chain) error {
	if chain == nil {
		return errors.New("message chain is required")
	}
	text, err := chain.Display()
	if errors.Is(err, message.ErrDisplayUnavailable) {
		text = chain.Code()
	}
	if _, err := fmt.Fprintf(a.out, "-> %s: %s\n", target.ID, text); err != nil {
		return fmt.Errorf("console write: %w", err)
	}
	return nil
}

// Connect starts the read loop. Each line becomes a friend message event
// with a single plain element.
func (a *Adapter) Connect(ctx context.Context, handler adapter.InboundHandler) (adapter.Connection, error) {
	connCtx, cancel := context.WithCancel(ctx)
	scanner := bufio.NewScanner(a.in)

	go func() {
		for scanner.Scan() {
			if connCtx.Err() != nil {
				return
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			ev := &event.Message{
				Type:        event.TypeFriendMessage,
				MessageID:   uuid.NewString(),
				Source:      Type.String(),
				From:        a.sender,
				Body:        message.New(message.Plain{Text: line}),
				ReplyTarget: a.sender.ID,
				ReceivedAt:  time.Now().UTC(),
			}
			if err := handler(connCtx, ev); err != nil {
				a.logger.Error("handle inbound failed", slog.Any("error", err))
			}
		}
		if err := scanner.Err(); err != nil && connCtx.Err() == nil {
			a.logger.Error("console read failed", slog.Any("error", err))
		}
	}()

	stop := func(context.Context) error {
		cancel()
		return nil
	}
	return adapter.NewConnection(Type, stop), nil
}
