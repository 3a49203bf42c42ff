package interpreter

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

// cueMatcher tests a single phrase against reply text, case-insensitively
// by default. Adapted from the teacher's keyword-scan detector: same
// contains test and case-sensitivity toggle, generalized here into a
// reusable matcher instead of one condition field per detector instance.
type cueMatcher struct {
	Phrase        string
	CaseSensitive bool
}

// Matches reports whether text contains the matcher's phrase.
func (m cueMatcher) Matches(text string) bool {
	if m.CaseSensitive {
		return strings.Contains(text, m.Phrase)
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(m.Phrase))
}

func cues(phrases ...string) []cueMatcher {
	out := make([]cueMatcher, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, cueMatcher{Phrase: p})
	}
	return out
}

var rejectionCues = cues("denied", "invalid", "refused", "blocked", "error")
var executionCues = cues("executed", "processed", "completed", "success", "done")

// matchAny reports whether any matcher in cues matches text.
func matchAny(text string, matchers []cueMatcher) bool {
	for _, m := range matchers {
		if m.Matches(text) {
			return true
		}
	}
	return false
}

// SecondOpinion is an optional, injected strategy that can refine the
// reason/confidence on an uncertain verdict. It never changes Blocked:
// the outcome-classification rule depends only on Blocked, so a
// SecondOpinion is never on a path that can change the classification.
type SecondOpinion interface {
	Consult(ctx context.Context, reply string, current Response) (reason string, confidence float64, ok bool)
}

// Interpreter implements interpret(raw_reply, transport_error) ->
// Response operation, using a priority-ordered decision field list that
// can be overridden per-evaluation instead of subclassed.
type Interpreter struct {
	fields []DecisionField
}

// NewInterpreter constructs an Interpreter. A nil/empty fields list
// defaults to DefaultDecisionFields.
func NewInterpreter(fields []DecisionField) *Interpreter {
	if len(fields) == 0 {
		fields = DefaultDecisionFields
	}
	return &Interpreter{fields: fields}
}

// Interpret classifies one raw reply per the decision order:
// transport-error/empty/non-parseable first, then a structured-field
// scan, then a textual cue fallback.
func (ip *Interpreter) Interpret(raw []byte, transportError bool) Response {
	if transportError {
		return Response{Blocked: true, Confidence: 0.5, Reason: "unreachable", TransportError: true}
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Response{Blocked: true, Confidence: 0.3, Reason: "empty reply"}
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if resp, ok := ip.scanFields(parsed); ok {
			return resp
		}
		// Parsed as an object but none of the decision fields were
		// present; fall through to the textual scan over the raw bytes.
	} else {
		// Not a JSON object at all — still attempt the textual fallback
		// below rather than treating it as non-parseable, since a plain-
		// text reply is the conversational-subject norm, not an error.
		if looksLikeBrokenJSON(raw) {
			return Response{Blocked: true, Confidence: 0.4, Reason: "non-parseable reply"}
		}
	}

	return ip.semanticFallback(string(raw))
}

// InterpretWithContext behaves like Interpret, then — only when opinion
// is non-nil and the verdict was the uncertain-accept fallback — consults
// opinion to refine Reason/Confidence. Blocked is never touched by the
// second opinion; a nil opinion makes this identical to Interpret.
func (ip *Interpreter) InterpretWithContext(ctx context.Context, raw []byte, transportError bool, opinion SecondOpinion) Response {
	resp := ip.Interpret(raw, transportError)
	if opinion == nil || resp.TransportError || resp.Reason != "uncertain accept" {
		return resp
	}
	if reason, confidence, ok := opinion.Consult(ctx, string(raw), resp); ok {
		resp.Reason = reason
		resp.Confidence = confidence
	}
	return resp
}

// scanFields applies the priority-ordered decision field scan.
func (ip *Interpreter) scanFields(parsed map[string]interface{}) (Response, bool) {
	for _, f := range ip.fields {
		raw, present := parsed[f.Name]
		if !present {
			continue
		}
		value, ok := raw.(bool)
		if !ok {
			continue
		}
		return Response{
			Blocked:    value == f.BlockedWhen,
			Confidence: 0.8,
			Reason:     "structured field " + f.Name,
		}, true
	}
	return Response{}, false
}

// semanticFallback scans the full textual reply for rejection or
// execution cues when no structured decision field matched.
func (ip *Interpreter) semanticFallback(text string) Response {
	if matchAny(text, rejectionCues) {
		return Response{Blocked: true, Confidence: 0.6, Reason: "rejection cue in reply"}
	}
	if matchAny(text, executionCues) {
		return Response{Blocked: false, Confidence: 0.6, Reason: "execution cue in reply"}
	}

	log.Warn().Str("reply_excerpt", excerpt(text)).Msg("interpreter uncertain-accept fallback")
	return Response{Blocked: false, Confidence: 0.3, Reason: "uncertain accept"}
}

// looksLikeBrokenJSON distinguishes a reply that was clearly attempting
// structured JSON and failed to parse (treated as non-parseable, tier 1)
// from ordinary free text (treated as tier 3 material).
func looksLikeBrokenJSON(raw []byte) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

func excerpt(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
