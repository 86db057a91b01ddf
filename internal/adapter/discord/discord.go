package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/wisphq/wisp/internal/adapter"
	"github.com/wisphq/wisp/internal/config"
	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/message"
)

// Adapter drives a Discord bot over the gateway session.
type Adapter struct {
	logger  *slog.Logger
	cfg     config.DiscordConfig
	session *discordgo.Session
}

// New creates a Discord adapter from configuration.
func New(log *slog.Logger, cfg config.DiscordConfig) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		logger: log.With(slog.String("adapter", "discord")),
		cfg:    cfg,
	}
}

func (a *Adapter) Type() adapter.Type { return Type }

func (a *Adapter) Descriptor() adapter.Descriptor {
	return adapter.Descriptor{
		Type:        Type,
		DisplayName: "Discord",
		Elements:    elementFactories(),
	}
}

// Send transmits the chain's display rendering to the channel in target.ID.
func (a *Adapter) Send(_ context.Context, target event.Contact, chain *message.Chain) error {
	if a.session == nil {
		return errors.New("discord adapter not connected")
	}
	if chain == nil {
		return errors.New("message chain is required")
	}
	text, err := chain.Display()
	if errors.Is(err, message.ErrDisplayUnavailable) {
		text = chain.Code()
	}
	if _, err := a.session.ChannelMessageSend(target.ID, text); err != nil {
		return fmt.Errorf("discord send: %w", err)
	}
	return nil
}

// Connect opens the gateway session and registers the message handler.
func (a *Adapter) Connect(ctx context.Context, handler adapter.InboundHandler) (adapter.Connection, error) {
	session, err := discordgo.New("Bot " + a.cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	connCtx, cancel := context.WithCancel(ctx)
	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.ID == s.State.User.ID {
			return
		}
		ev := a.toEvent(m)
		if ev == nil {
			return
		}
		if err := handler(connCtx, ev); err != nil {
			a.logger.Error("handle inbound failed", slog.Any("error", err))
		}
	})

	if err := session.Open(); err != nil {
		cancel()
		return nil, fmt.Errorf("discord open: %w", err)
	}
	a.session = session
	a.logger.Info("connected", slog.String("username", session.State.User.Username))

	stop := func(context.Context) error {
		cancel()
		return session.Close()
	}
	return adapter.NewConnection(Type, stop), nil
}

func (a *Adapter) toEvent(m *discordgo.MessageCreate) event.Event {
	text := strings.TrimSpace(m.Content)
	if text == "" {
		return nil
	}

	var elements []message.Element
	if m.MessageReference != nil && m.MessageReference.MessageID != "" {
		elements = append(elements, message.Reply{MessageID: m.MessageReference.MessageID})
	}
	for _, user := range m.Mentions {
		marker := "<@" + user.ID + ">"
		if !strings.Contains(text, marker) {
			continue
		}
		text = strings.ReplaceAll(text, marker, "")
		elements = append(elements, message.At{Target: user.ID, Name: user.Username})
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		elements = append(elements, message.Plain{Text: trimmed})
	}
	if len(elements) == 0 {
		return nil
	}

	ev := &event.Message{
		MessageID:   m.ID,
		Source:      Type.String(),
		Body:        message.New(elements...),
		ReplyTarget: m.ChannelID,
		ReceivedAt:  time.Now().UTC(),
		From: event.Contact{
			ID:   m.Author.ID,
			Name: m.Author.Username,
			Role: event.RoleMember,
		},
	}
	if m.GuildID == "" {
		ev.Type = event.TypeFriendMessage
	} else {
		ev.Type = event.TypeGroupMessage
		ev.Group = &event.Group{ID: m.GuildID}
	}
	return ev
}
