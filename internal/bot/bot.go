// Package bot wires the adapter registry and the listener engine into the
// application-facing framework surface.
package bot

import (
	"context"
	"log/slog"
	"sync"

	"github.com/wisphq/wisp/internal/adapter"
	"github.com/wisphq/wisp/internal/config"
	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/listener"
	"github.com/wisphq/wisp/internal/matcher"
	"github.com/wisphq/wisp/internal/message"
)

// DefaultPriority is used by OnDefault registrations.
const DefaultPriority = 5

// Bot is one running application instance: an adapter registry for platform
// I/O and a listener manager consulted on every inbound event.
type Bot struct {
	logger   *slog.Logger
	registry *adapter.Registry
	manager  *listener.Manager
	pipeline *listener.Pipeline

	mu          sync.Mutex
	connections []adapter.Connection
}

// New builds a Bot over the registry using the dispatch settings.
func New(log *slog.Logger, registry *adapter.Registry, cfg config.DispatchConfig) *Bot {
	if log == nil {
		log = slog.Default()
	}
	var opts []listener.Option
	if cfg.FirstMatch {
		opts = append(opts, listener.WithFirstMatchOnly())
	}
	manager := listener.NewManager(log, opts...)
	return &Bot{
		logger:   log.With(slog.String("component", "bot")),
		registry: registry,
		manager:  manager,
		pipeline: listener.NewPipeline(log, manager, cfg.Workers, cfg.QueueSize),
	}
}

// Manager exposes the listener registry, mainly for tests and advanced
// callers.
func (b *Bot) Manager() *listener.Manager { return b.manager }

// On registers a handler for the given event types at the given priority.
// Invalid priorities and nil handlers are logged and rejected so that one
// misconfigured handler does not block startup.
func (b *Bot) On(priority int, handler listener.Handler, types ...event.Type) error {
	if err := b.manager.Register(listener.New(handler, types...), priority); err != nil {
		b.logger.Warn("listener registration rejected",
			slog.Int("priority", priority),
			slog.Any("events", types),
			slog.Any("error", err))
		return err
	}
	return nil
}

// OnDefault registers a handler at the default priority.
func (b *Bot) OnDefault(handler listener.Handler, types ...event.Type) error {
	return b.On(DefaultPriority, handler, types...)
}

// Command attaches a command matcher to an already registered handler. The
// return value reports whether the handler was found; failures are logged
// and leave no attachment state behind.
func (b *Bot) Command(handler listener.Handler, triggers []string, matchAllWidth bool, ignore ...message.Kind) bool {
	return b.report("command matcher",
		b.manager.SetMatcher(handler, matcher.Command(triggers, matchAllWidth, ignore...)))
}

// Keyword attaches a keyword matcher to an already registered handler.
func (b *Bot) Keyword(handler listener.Handler, triggers []string, matchAllWidth bool, ignore ...message.Kind) bool {
	return b.report("keyword matcher",
		b.manager.SetMatcher(handler, matcher.Keyword(triggers, matchAllWidth, ignore...)))
}

// Role restricts the handler to senders whose role is in the set. When a
// fallback is given it runs instead of the handler for rejected senders.
func (b *Bot) Role(handler listener.Handler, roles event.RoleSet, fallback listener.Fallback) bool {
	return b.report("role filter", b.manager.SetRole(handler, roles, fallback))
}

// ParamConvert declares how matched argument text is converted before the
// handler runs.
func (b *Bot) ParamConvert(handler listener.Handler, mode matcher.ParamMode) bool {
	return b.report("param conversion", b.manager.SetParamMode(handler, mode))
}

// NLP binds the handler to free-form text with a confidence threshold and
// slot mapping.
func (b *Bot) NLP(handler listener.Handler, nlp *matcher.NLP) bool {
	return b.report("nlp binding", b.manager.SetNLP(handler, nlp))
}

func (b *Bot) report(what string, ok bool) bool {
	if !ok {
		b.logger.Warn("attachment skipped: handler is not a registered listener",
			slog.String("attachment", what))
	}
	return ok
}

// Start launches the dispatch pipeline and connects every receiver in the
// registry. Inbound events are enqueued; a full queue is logged, never
// propagated to the platform loop.
func (b *Bot) Start(ctx context.Context) error {
	b.pipeline.Start(ctx)
	handler := func(ctx context.Context, ev event.Event) error {
		if err := b.pipeline.Enqueue(ctx, ev); err != nil {
			b.logger.Error("inbound event dropped", slog.Any("error", err))
			return err
		}
		return nil
	}
	for _, t := range b.registry.Types() {
		receiver, ok := b.registry.GetReceiver(t)
		if !ok {
			continue
		}
		conn, err := receiver.Connect(ctx, handler)
		if err != nil {
			b.logger.Error("adapter connect failed",
				slog.String("adapter", t.String()),
				slog.Any("error", err))
			return err
		}
		b.logger.Info("adapter connected", slog.String("adapter", t.String()))
		b.mu.Lock()
		b.connections = append(b.connections, conn)
		b.mu.Unlock()
	}
	return nil
}

// Shutdown stops all connections and the dispatch pipeline.
func (b *Bot) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	conns := b.connections
	b.connections = nil
	b.mu.Unlock()
	for _, conn := range conns {
		if err := conn.Stop(ctx); err != nil && err != adapter.ErrStopNotSupported {
			b.logger.Warn("adapter stop failed",
				slog.String("adapter", conn.AdapterType().String()),
				slog.Any("error", err))
		}
	}
	b.pipeline.Stop()
	return nil
}
