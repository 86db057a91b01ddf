package matcher

import (
	"testing"

	"github.com/wisphq/wisp/internal/message"
)

func chainOf(text string) *message.Chain {
	return message.New(message.Plain{Text: text})
}

func TestCommandMatch(t *testing.T) {
	cases := []struct {
		name          string
		triggers      []string
		matchAllWidth bool
		text          string
		wantOK        bool
		wantTrigger   string
		wantRemainder string
	}{
		{
			name:          "prefix with argument",
			triggers:      []string{"/ping"},
			text:          "/ping 123",
			wantOK:        true,
			wantTrigger:   "/ping",
			wantRemainder: "123",
		},
		{
			name:     "missing slash does not match",
			triggers: []string{"/ping"},
			text:     "ping 123",
			wantOK:   false,
		},
		{
			name:     "no boundary after trigger",
			triggers: []string{"/ping"},
			text:     "/pingx",
			wantOK:   false,
		},
		{
			name:          "exact trigger only",
			triggers:      []string{"/ping"},
			text:          "/ping",
			wantOK:        true,
			wantTrigger:   "/ping",
			wantRemainder: "",
		},
		{
			name:          "longest trigger wins",
			triggers:      []string{"/echo", "/echo-all"},
			text:          "/echo-all hi",
			wantOK:        true,
			wantTrigger:   "/echo-all",
			wantRemainder: "hi",
		},
		{
			name:          "full-width folded when enabled",
			triggers:      []string{"/ping"},
			matchAllWidth: true,
			text:          "／ｐｉｎｇ ４２",
			wantOK:        true,
			wantTrigger:   "/ping",
			wantRemainder: "42",
		},
		{
			name:     "full-width rejected when disabled",
			triggers: []string{"/ping"},
			text:     "／ｐｉｎｇ 42",
			wantOK:   false,
		},
		{
			name:     "empty text",
			triggers: []string{"/ping"},
			text:     "   ",
			wantOK:   false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Command(tc.triggers, tc.matchAllWidth)
			result, ok := m.Match(chainOf(tc.text))
			if ok != tc.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tc.text, ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if result.Trigger != tc.wantTrigger {
				t.Fatalf("trigger = %q, want %q", result.Trigger, tc.wantTrigger)
			}
			if result.Remainder != tc.wantRemainder {
				t.Fatalf("remainder = %q, want %q", result.Remainder, tc.wantRemainder)
			}
		})
	}
}

func TestCommandIgnoresElementKinds(t *testing.T) {
	chain := message.New(
		message.At{Target: "999", Name: "bot"},
		message.Plain{Text: "/ping now"},
	)
	m := Command([]string{"/ping"}, false, message.KindAt)
	result, ok := m.Match(chain)
	if !ok {
		t.Fatal("expected match with leading mention stripped")
	}
	if result.Remainder != "now" {
		t.Fatalf("remainder = %q, want %q", result.Remainder, "now")
	}

	// Without the ignore list the mention breaks the prefix.
	if _, ok := Command([]string{"/ping"}, false).Match(chain); ok {
		t.Fatal("expected no match when mention is kept")
	}
}

func TestKeywordMatch(t *testing.T) {
	cases := []struct {
		name        string
		triggers    []string
		text        string
		wantOK      bool
		wantTrigger string
	}{
		{
			name:        "anywhere in text",
			triggers:    []string{"hello"},
			text:        "say hello world",
			wantOK:      true,
			wantTrigger: "hello",
		},
		{
			name:     "absent keyword",
			triggers: []string{"hello"},
			text:     "goodbye",
			wantOK:   false,
		},
		{
			name:        "longest contained trigger wins",
			triggers:    []string{"help", "help me"},
			text:        "please help me now",
			wantOK:      true,
			wantTrigger: "help me",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, ok := Keyword(tc.triggers, false).Match(chainOf(tc.text))
			if ok != tc.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tc.text, ok, tc.wantOK)
			}
			if ok && result.Trigger != tc.wantTrigger {
				t.Fatalf("trigger = %q, want %q", result.Trigger, tc.wantTrigger)
			}
		})
	}
}
