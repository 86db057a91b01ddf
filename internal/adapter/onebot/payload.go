package onebot

import (
	"strconv"
	"time"

	"github.com/wisphq/wisp/internal/event"
)

// inboundPayload is the OneBot event frame received over the websocket.
type inboundPayload struct {
	PostType    string        `json:"post_type"`
	MessageType string        `json:"message_type"`
	MessageID   int64         `json:"message_id"`
	UserID      int64         `json:"user_id"`
	GroupID     int64         `json:"group_id"`
	RawMessage  string        `json:"raw_message"`
	Message     string        `json:"message"`
	Time        int64         `json:"time"`
	Sender      senderPayload `json:"sender"`
}

type senderPayload struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// sendRequest is the OneBot send_msg API body.
type sendRequest struct {
	MessageType string `json:"message_type"`
	UserID      string `json:"user_id,omitempty"`
	GroupID     string `json:"group_id,omitempty"`
	Message     string `json:"message"`
	AutoEscape  bool   `json:"auto_escape"`
}

// toEvent translates a message frame into a core event, nil for frames the
// core does not consume.
func (p inboundPayload) toEvent() event.Event {
	switch p.PostType {
	case "message":
	case "notice":
		return &event.Notice{
			Kind:       "notice",
			From:       event.Contact{ID: strconv.FormatInt(p.UserID, 10)},
			ReceivedAt: time.Unix(p.Time, 0).UTC(),
		}
	default:
		return nil
	}

	raw := p.Message
	if raw == "" {
		raw = p.RawMessage
	}
	ev := &event.Message{
		MessageID:  strconv.FormatInt(p.MessageID, 10),
		Source:     Type.String(),
		Body:       ParseChain(raw),
		ReceivedAt: time.Unix(p.Time, 0).UTC(),
		From: event.Contact{
			ID:   strconv.FormatInt(p.Sender.UserID, 10),
			Name: p.Sender.Nickname,
			Role: event.ParseRole(p.Sender.Role),
		},
	}
	switch p.MessageType {
	case "group":
		ev.Type = event.TypeGroupMessage
		ev.Group = &event.Group{ID: strconv.FormatInt(p.GroupID, 10)}
		ev.ReplyTarget = strconv.FormatInt(p.GroupID, 10)
	default:
		ev.Type = event.TypeFriendMessage
		ev.ReplyTarget = strconv.FormatInt(p.UserID, 10)
	}
	return ev
}
