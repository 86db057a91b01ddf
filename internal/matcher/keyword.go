package matcher

import (
	"strings"

	"github.com/wisphq/wisp/internal/message"
)

// KeywordMatcher requires the chain text to contain one of its triggers
// anywhere; match position is irrelevant. The longest contained trigger wins
// and the full text is the remainder.
type KeywordMatcher struct {
	base
}

// Keyword builds a KeywordMatcher.
func Keyword(triggers []string, matchAllWidth bool, ignore ...message.Kind) *KeywordMatcher {
	return &KeywordMatcher{base: newBase(triggers, matchAllWidth, ignore)}
}

func (m *KeywordMatcher) Match(chain *message.Chain) (Result, bool) {
	text := m.text(chain)
	if text == "" {
		return Result{}, false
	}
	best := ""
	for _, trigger := range m.triggers {
		folded := m.fold(trigger)
		if !strings.Contains(text, folded) {
			continue
		}
		if len(folded) > len(best) {
			best = folded
		}
	}
	if best == "" {
		return Result{}, false
	}
	return Result{Trigger: best, Remainder: text}, true
}
