package matcher

import "strings"

// NLP binds a listener to free-form text: the listener fires when enough of
// its keywords appear in the message, and named slots are filled from the
// tokens around them.
type NLP struct {
	// Confidence is the minimum score in [0, 1] required to fire.
	Confidence float64
	// Keywords drive the score: the fraction present in the text.
	Keywords []string
	// Slots maps a parameter name to its marker word; the slot value is the
	// token following the marker.
	Slots map[string]string
}

// Score returns the fraction of keywords contained in text. An empty keyword
// set scores zero.
func (n *NLP) Score(text string) float64 {
	if n == nil || len(n.Keywords) == 0 {
		return 0
	}
	text = strings.ToLower(text)
	hit := 0
	for _, kw := range n.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			hit++
		}
	}
	return float64(hit) / float64(len(n.Keywords))
}

// Matches reports whether text meets the confidence threshold.
func (n *NLP) Matches(text string) bool {
	if n == nil {
		return true
	}
	return n.Score(text) >= n.Confidence
}

// ExtractSlots fills each declared slot with the token that follows its
// marker word, scanning tokens case-insensitively. Markers without a
// following token leave the slot unset.
func (n *NLP) ExtractSlots(text string) map[string]string {
	slots := map[string]string{}
	if n == nil || len(n.Slots) == 0 {
		return slots
	}
	tokens := strings.Fields(text)
	for name, marker := range n.Slots {
		marker = strings.ToLower(strings.TrimSpace(marker))
		if marker == "" {
			continue
		}
		for i, token := range tokens {
			if strings.ToLower(token) != marker {
				continue
			}
			if i+1 < len(tokens) {
				slots[name] = tokens[i+1]
			}
			break
		}
	}
	return slots
}
