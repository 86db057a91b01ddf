package matcher

import "testing"

func TestNLPScore(t *testing.T) {
	nlp := &NLP{Keywords: []string{"weather", "today"}}
	cases := []struct {
		name string
		text string
		want float64
	}{
		{name: "all present", text: "what is the weather today", want: 1},
		{name: "half present", text: "weather report please", want: 0.5},
		{name: "none present", text: "tell me a joke", want: 0},
		{name: "case insensitive", text: "WEATHER TODAY", want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nlp.Score(tc.text); got != tc.want {
				t.Fatalf("Score(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestNLPMatchesThreshold(t *testing.T) {
	nlp := &NLP{Confidence: 0.6, Keywords: []string{"weather", "today"}}
	if nlp.Matches("weather only") {
		t.Fatal("score 0.5 must not meet threshold 0.6")
	}
	if !nlp.Matches("weather today") {
		t.Fatal("score 1.0 must meet threshold 0.6")
	}
}

func TestNLPExtractSlots(t *testing.T) {
	nlp := &NLP{Slots: map[string]string{
		"city": "in",
		"unit": "using",
	}}
	slots := nlp.ExtractSlots("weather in berlin using celsius")
	if slots["city"] != "berlin" {
		t.Fatalf("city slot = %q, want %q", slots["city"], "berlin")
	}
	if slots["unit"] != "celsius" {
		t.Fatalf("unit slot = %q, want %q", slots["unit"], "celsius")
	}

	// Marker at end of text leaves the slot unset.
	slots = nlp.ExtractSlots("weather in")
	if _, ok := slots["city"]; ok {
		t.Fatal("dangling marker must leave slot unset")
	}
}

func TestConvert(t *testing.T) {
	t.Run("raw", func(t *testing.T) {
		params, ok := Convert("a b c", ParamRaw, nil)
		if !ok || params.Raw != "a b c" {
			t.Fatalf("Convert raw = (%+v, %v)", params, ok)
		}
	})
	t.Run("tokens", func(t *testing.T) {
		params, ok := Convert("a  b\tc", ParamTokens, nil)
		if !ok || len(params.Tokens) != 3 {
			t.Fatalf("Convert tokens = (%+v, %v)", params, ok)
		}
	})
	t.Run("slots without binding rejected", func(t *testing.T) {
		if _, ok := Convert("a b", ParamSlots, nil); ok {
			t.Fatal("slots mode without an NLP binding must be rejected")
		}
	})
	t.Run("slots with binding", func(t *testing.T) {
		nlp := &NLP{Slots: map[string]string{"target": "to"}}
		params, ok := Convert("send to bob", ParamSlots, nlp)
		if !ok {
			t.Fatal("expected conversion to succeed")
		}
		if params.Slots["target"] != "bob" {
			t.Fatalf("target slot = %q, want %q", params.Slots["target"], "bob")
		}
	})
	t.Run("unknown mode rejected", func(t *testing.T) {
		if _, ok := Convert("x", ParamMode("bogus"), nil); ok {
			t.Fatal("unknown mode must be rejected")
		}
	})
}
