// Package matcher decides whether an inbound chain triggers a listener and
// extracts the remainder as command or keyword arguments.
package matcher

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/wisphq/wisp/internal/message"
)

// Result is a successful match: the trigger that fired and the remaining
// argument text.
type Result struct {
	Trigger   string
	Remainder string
}

// Matcher reports whether a chain satisfies a trigger condition. A false
// return is a normal rejection, not an error.
type Matcher interface {
	Match(chain *message.Chain) (Result, bool)
}

type base struct {
	triggers      []string
	matchAllWidth bool
	ignore        []message.Kind
}

func newBase(triggers []string, matchAllWidth bool, ignore []message.Kind) base {
	kept := make([]string, 0, len(triggers))
	for _, t := range triggers {
		if strings.TrimSpace(t) == "" {
			continue
		}
		kept = append(kept, t)
	}
	return base{triggers: kept, matchAllWidth: matchAllWidth, ignore: ignore}
}

// text extracts the match target from the chain: display form with ignored
// kinds stripped, width-folded when matchAllWidth is set.
func (b base) text(chain *message.Chain) string {
	text := strings.TrimSpace(chain.DisplayWithout(b.ignore...))
	return b.fold(text)
}

func (b base) fold(s string) string {
	if !b.matchAllWidth {
		return s
	}
	return width.Narrow.String(s)
}
