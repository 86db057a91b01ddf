package matcher

import "strings"

// ParamMode declares how the argument remainder of a match is converted
// before the handler runs.
type ParamMode string

const (
	// ParamRaw passes the remainder through unchanged.
	ParamRaw ParamMode = "raw"
	// ParamTokens splits the remainder on whitespace.
	ParamTokens ParamMode = "tokens"
	// ParamSlots binds tokens to named slots; requires an NLP binding.
	ParamSlots ParamMode = "slots"
)

// Params is the converted argument set handed to a listener.
type Params struct {
	Raw    string
	Tokens []string
	Slots  map[string]string
}

// Convert applies the declared mode to the matched remainder. A false return
// is a rejection: the listener does not fire for this event.
func Convert(remainder string, mode ParamMode, nlp *NLP) (Params, bool) {
	switch mode {
	case "", ParamRaw:
		return Params{Raw: remainder}, true
	case ParamTokens:
		return Params{Raw: remainder, Tokens: strings.Fields(remainder)}, true
	case ParamSlots:
		if nlp == nil || len(nlp.Slots) == 0 {
			return Params{}, false
		}
		slots := nlp.ExtractSlots(remainder)
		return Params{Raw: remainder, Tokens: strings.Fields(remainder), Slots: slots}, true
	default:
		return Params{}, false
	}
}
