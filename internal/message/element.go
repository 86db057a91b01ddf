// Package message defines the element and chain model shared by all adapters.
package message

import (
	"fmt"
	"strings"

	"github.com/kenshaw/emoji"
)

// Kind is the logical element kind. Adapters map kinds to their own concrete
// constructors through the registry descriptor.
type Kind string

const (
	KindPlain Kind = "plain"
	KindAt    Kind = "at"
	KindReply Kind = "reply"
	KindFace  Kind = "face"
	KindImage Kind = "image"
)

// Element is one unit of message content. Implementations are immutable value
// types: Code returns the wire rendering, Display the human-readable one.
type Element interface {
	Kind() Kind
	Code() string
	Display() string
}

// Plain is raw text.
type Plain struct {
	Text string
}

func (p Plain) Kind() Kind      { return KindPlain }
func (p Plain) Code() string    { return escapeText(p.Text) }
func (p Plain) Display() string { return p.Text }

// At mentions a user by platform identifier.
type At struct {
	Target string
	Name   string
}

func (a At) Kind() Kind   { return KindAt }
func (a At) Code() string { return fmt.Sprintf("[CQ:at,qq=%s]", escapeParam(a.Target)) }

func (a At) Display() string {
	if strings.TrimSpace(a.Name) != "" {
		return "@" + a.Name
	}
	return "@" + a.Target
}

// Reply references an earlier message by identifier.
type Reply struct {
	MessageID string
}

func (r Reply) Kind() Kind      { return KindReply }
func (r Reply) Code() string    { return fmt.Sprintf("[CQ:reply,id=%s]", escapeParam(r.MessageID)) }
func (r Reply) Display() string { return "[reply:" + r.MessageID + "]" }

// Face is a platform emoticon. ID is either a numeric platform face id or an
// emoji alias such as "smile"; aliases render to the unicode emoji on display.
type Face struct {
	ID string
}

func (f Face) Kind() Kind   { return KindFace }
func (f Face) Code() string { return fmt.Sprintf("[CQ:face,id=%s]", escapeParam(f.ID)) }

func (f Face) Display() string {
	if e := emoji.FromAlias(f.ID); e != nil && e.Emoji != "" {
		return e.Emoji
	}
	return "[face:" + f.ID + "]"
}

// Image carries a file reference or URL.
type Image struct {
	File string
}

func (i Image) Kind() Kind      { return KindImage }
func (i Image) Code() string    { return fmt.Sprintf("[CQ:image,file=%s]", escapeParam(i.File)) }
func (i Image) Display() string { return "[image]" }

var textEscaper = strings.NewReplacer("&", "&amp;", "[", "&#91;", "]", "&#93;")

var paramEscaper = strings.NewReplacer("&", "&amp;", "[", "&#91;", "]", "&#93;", ",", "&#44;")

var codeUnescaper = strings.NewReplacer("&#44;", ",", "&#91;", "[", "&#93;", "]", "&amp;", "&")

func escapeText(s string) string  { return textEscaper.Replace(s) }
func escapeParam(s string) string { return paramEscaper.Replace(s) }

// UnescapeCode reverses wire-code escaping for text segments and parameter values.
func UnescapeCode(s string) string { return codeUnescaper.Replace(s) }
