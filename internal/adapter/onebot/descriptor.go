// Package onebot implements the OneBot (CQ-code) adapter: websocket event
// stream in, HTTP send API out.
package onebot

import (
	"github.com/wisphq/wisp/internal/adapter"
	"github.com/wisphq/wisp/internal/message"
)

// Type is the registered adapter type identifier for OneBot.
const Type adapter.Type = "onebot"

func elementFactories() map[message.Kind]adapter.ElementFactory {
	return map[message.Kind]adapter.ElementFactory{
		message.KindPlain: func(value string) message.Element { return message.Plain{Text: value} },
		message.KindAt:    func(value string) message.Element { return message.At{Target: value} },
		message.KindReply: func(value string) message.Element { return message.Reply{MessageID: value} },
		message.KindFace:  func(value string) message.Element { return message.Face{ID: value} },
		message.KindImage: func(value string) message.Element { return message.Image{File: value} },
	}
}
