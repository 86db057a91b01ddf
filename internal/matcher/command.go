package matcher

import (
	"strings"
	"unicode"

	"github.com/wisphq/wisp/internal/message"
)

// CommandMatcher requires the chain text to start with one of its triggers
// followed by a word boundary; the remainder becomes raw argument text. When
// several triggers match, the longest one wins.
type CommandMatcher struct {
	base
}

// Command builds a CommandMatcher. Elements of the ignored kinds (e.g. a
// leading mention) are stripped from the chain before matching.
func Command(triggers []string, matchAllWidth bool, ignore ...message.Kind) *CommandMatcher {
	return &CommandMatcher{base: newBase(triggers, matchAllWidth, ignore)}
}

func (m *CommandMatcher) Match(chain *message.Chain) (Result, bool) {
	text := m.text(chain)
	if text == "" {
		return Result{}, false
	}
	best := ""
	for _, trigger := range m.triggers {
		folded := m.fold(trigger)
		if !strings.HasPrefix(text, folded) {
			continue
		}
		if !boundaryAfter(text, len(folded)) {
			continue
		}
		if len(folded) > len(best) {
			best = folded
		}
	}
	if best == "" {
		return Result{}, false
	}
	return Result{
		Trigger:   best,
		Remainder: strings.TrimSpace(text[len(best):]),
	}, true
}

// boundaryAfter reports whether the byte offset ends the text or is followed
// by a rune that terminates a word, so trigger "/ping" does not fire on
// "/pingx".
func boundaryAfter(text string, offset int) bool {
	if offset >= len(text) {
		return true
	}
	rest := []rune(text[offset:])
	r := rest[0]
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}
