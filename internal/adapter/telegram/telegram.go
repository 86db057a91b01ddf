package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/wisphq/wisp/internal/adapter"
	"github.com/wisphq/wisp/internal/config"
	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/message"
)

// Adapter drives a Telegram bot through the long-poll update loop.
type Adapter struct {
	logger *slog.Logger
	cfg    config.TelegramConfig
	bot    *tgbotapi.BotAPI
}

// New creates a Telegram adapter from configuration.
func New(log *slog.Logger, cfg config.TelegramConfig) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = config.DefaultPollTimeout
	}
	return &Adapter{
		logger: log.With(slog.String("adapter", "telegram")),
		cfg:    cfg,
	}
}

func (a *Adapter) Type() adapter.Type { return Type }

func (a *Adapter) Descriptor() adapter.Descriptor {
	return adapter.Descriptor{
		Type:        Type,
		DisplayName: "Telegram",
		Elements:    elementFactories(),
	}
}

// Send transmits the chain's display rendering to the chat in target.ID.
func (a *Adapter) Send(_ context.Context, target event.Contact, chain *message.Chain) error {
	if a.bot == nil {
		return errors.New("telegram adapter not connected")
	}
	if chain == nil {
		return errors.New("message chain is required")
	}
	chatID, err := strconv.ParseInt(strings.TrimSpace(target.ID), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", target.ID, err)
	}
	text, derr := chain.Display()
	if errors.Is(derr, message.ErrDisplayUnavailable) {
		text = chain.Code()
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := a.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Connect authenticates and starts the update loop. Each text update becomes
// a message event with mention entities mapped to At elements and replied-to
// messages to a leading Reply element.
func (a *Adapter) Connect(ctx context.Context, handler adapter.InboundHandler) (adapter.Connection, error) {
	bot, err := tgbotapi.NewBotAPI(a.cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	a.bot = bot
	a.logger.Info("connected", slog.String("username", bot.Self.UserName))

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = a.cfg.PollTimeout
	updates := bot.GetUpdatesChan(updateConfig)
	connCtx, cancel := context.WithCancel(ctx)

	go func() {
		for {
			select {
			case <-connCtx.Done():
				bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					a.logger.Info("updates channel closed")
					return
				}
				if update.Message == nil {
					continue
				}
				ev := a.toEvent(update.Message)
				if ev == nil {
					continue
				}
				if err := handler(connCtx, ev); err != nil {
					a.logger.Error("handle inbound failed", slog.Any("error", err))
				}
			}
		}
	}()

	stop := func(context.Context) error {
		cancel()
		bot.StopReceivingUpdates()
		return nil
	}
	return adapter.NewConnection(Type, stop), nil
}

func (a *Adapter) toEvent(m *tgbotapi.Message) event.Event {
	text := strings.TrimSpace(m.Text)
	if text == "" {
		text = strings.TrimSpace(m.Caption)
	}
	if text == "" {
		return nil
	}

	var elements []message.Element
	if m.ReplyToMessage != nil {
		elements = append(elements, message.Reply{MessageID: strconv.Itoa(m.ReplyToMessage.MessageID)})
	}
	elements = append(elements, splitMentions(text, m.Entities)...)

	ev := &event.Message{
		MessageID:  strconv.Itoa(m.MessageID),
		Source:     Type.String(),
		Body:       message.New(elements...),
		ReceivedAt: time.Unix(int64(m.Date), 0).UTC(),
	}
	if m.From != nil {
		ev.From = event.Contact{
			ID:   strconv.FormatInt(m.From.ID, 10),
			Name: strings.TrimSpace(m.From.UserName),
			Role: event.RoleMember,
		}
	}
	if m.Chat != nil {
		chatID := strconv.FormatInt(m.Chat.ID, 10)
		ev.ReplyTarget = chatID
		if m.Chat.IsPrivate() {
			ev.Type = event.TypeFriendMessage
		} else {
			ev.Type = event.TypeGroupMessage
			ev.Group = &event.Group{ID: chatID, Name: strings.TrimSpace(m.Chat.Title)}
		}
	} else {
		ev.Type = event.TypeFriendMessage
	}
	return ev
}

// splitMentions converts the text into elements, turning mention entities
// into At elements and the segments between them into plain text.
func splitMentions(text string, entities []tgbotapi.MessageEntity) []message.Element {
	runes := []rune(text)
	var elements []message.Element
	cursor := 0
	for _, entity := range entities {
		if entity.Type != "mention" {
			continue
		}
		if entity.Offset < cursor || entity.Offset+entity.Length > len(runes) {
			continue
		}
		if entity.Offset > cursor {
			elements = append(elements, message.Plain{Text: string(runes[cursor:entity.Offset])})
		}
		mention := string(runes[entity.Offset : entity.Offset+entity.Length])
		elements = append(elements, message.At{
			Target: strings.TrimPrefix(mention, "@"),
			Name:   strings.TrimPrefix(mention, "@"),
		})
		cursor = entity.Offset + entity.Length
	}
	if cursor < len(runes) {
		elements = append(elements, message.Plain{Text: string(runes[cursor:])})
	}
	return elements
}
