package onebot

import (
	"strings"

	"github.com/wisphq/wisp/internal/message"
)

// ParseChain decodes a CQ-code wire string into an element chain. Text
// outside CQ segments becomes plain elements; unknown segment types are kept
// verbatim as plain text so nothing is silently dropped.
func ParseChain(raw string) *message.Chain {
	var elements []message.Element
	rest := raw
	for rest != "" {
		start := strings.Index(rest, "[CQ:")
		if start < 0 {
			elements = appendPlain(elements, rest)
			break
		}
		if start > 0 {
			elements = appendPlain(elements, rest[:start])
		}
		rest = rest[start:]
		end := strings.Index(rest, "]")
		if end < 0 {
			elements = appendPlain(elements, rest)
			break
		}
		segment := rest[:end+1]
		rest = rest[end+1:]
		if el, ok := parseSegment(segment); ok {
			elements = append(elements, el)
		} else {
			elements = append(elements, message.Plain{Text: segment})
		}
	}
	return message.New(elements...)
}

func appendPlain(elements []message.Element, text string) []message.Element {
	if text == "" {
		return elements
	}
	return append(elements, message.Plain{Text: message.UnescapeCode(text)})
}

// parseSegment decodes one "[CQ:type,key=value,...]" segment.
func parseSegment(segment string) (message.Element, bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(segment, "[CQ:"), "]")
	parts := strings.Split(body, ",")
	if len(parts) == 0 || parts[0] == "" {
		return nil, false
	}
	kind := parts[0]
	params := map[string]string{}
	for _, part := range parts[1:] {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		params[kv[0]] = message.UnescapeCode(kv[1])
	}
	switch kind {
	case "at":
		return message.At{Target: params["qq"]}, true
	case "reply":
		return message.Reply{MessageID: params["id"]}, true
	case "face":
		return message.Face{ID: params["id"]}, true
	case "image":
		return message.Image{File: params["file"]}, true
	default:
		return nil, false
	}
}
