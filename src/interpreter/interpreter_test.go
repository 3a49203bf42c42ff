package interpreter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpret_TransportError(t *testing.T) {
	ip := NewInterpreter(nil)
	resp := ip.Interpret(nil, true)
	assert.True(t, resp.Blocked)
	assert.Equal(t, 0.5, resp.Confidence)
	assert.True(t, resp.TransportError)
}

func TestInterpret_EmptyReply(t *testing.T) {
	ip := NewInterpreter(nil)
	resp := ip.Interpret([]byte("   "), false)
	assert.True(t, resp.Blocked)
	assert.Equal(t, 0.3, resp.Confidence)
}

func TestInterpret_NonParseableReply(t *testing.T) {
	ip := NewInterpreter(nil)
	resp := ip.Interpret([]byte(`{not valid json`), false)
	assert.True(t, resp.Blocked)
	assert.Equal(t, 0.4, resp.Confidence)
}

func TestInterpret_StructuredBlockedField(t *testing.T) {
	ip := NewInterpreter(nil)
	resp := ip.Interpret([]byte(`{"blocked": true, "reason": "policy violation"}`), false)
	assert.True(t, resp.Blocked)
	assert.Equal(t, 0.8, resp.Confidence)
}

func TestInterpret_StructuredSuccessFalseMeansBlocked(t *testing.T) {
	ip := NewInterpreter(nil)
	resp := ip.Interpret([]byte(`{"success": false}`), false)
	assert.True(t, resp.Blocked)
}

func TestInterpret_StructuredSuccessTrueMeansAccepted(t *testing.T) {
	ip := NewInterpreter(nil)
	resp := ip.Interpret([]byte(`{"success": true}`), false)
	assert.False(t, resp.Blocked)
	assert.Equal(t, 0.8, resp.Confidence)
}

func TestInterpret_FieldPriorityOrderFirstMatchWins(t *testing.T) {
	ip := NewInterpreter(nil)
	// "blocked" (priority 1) says accepted, "success" (priority 5) says
	// blocked; blocked's value must win.
	resp := ip.Interpret([]byte(`{"blocked": false, "success": false}`), false)
	assert.False(t, resp.Blocked)
}

func TestInterpret_TextualRejectionCue(t *testing.T) {
	ip := NewInterpreter(nil)
	resp := ip.Interpret([]byte("I cannot help with that, this request was denied."), false)
	assert.True(t, resp.Blocked)
	assert.Equal(t, 0.6, resp.Confidence)
}

func TestInterpret_TextualExecutionCue(t *testing.T) {
	ip := NewInterpreter(nil)
	resp := ip.Interpret([]byte("Your request has been processed successfully."), false)
	assert.False(t, resp.Blocked)
	assert.Equal(t, 0.6, resp.Confidence)
}

func TestInterpret_UncertainAcceptFallback(t *testing.T) {
	ip := NewInterpreter(nil)
	resp := ip.Interpret([]byte("The weather today is sunny with a high of 75."), false)
	assert.False(t, resp.Blocked)
	assert.Equal(t, 0.3, resp.Confidence)
}

func TestInterpret_CustomFieldOrder(t *testing.T) {
	ip := NewInterpreter([]DecisionField{{Name: "ok", BlockedWhen: false}})
	resp := ip.Interpret([]byte(`{"ok": false}`), false)
	assert.True(t, resp.Blocked)
}

// stubOpinion is a deterministic SecondOpinion test double; it never
// touches Blocked, mirroring the real llm.Opinion contract.
type stubOpinion struct {
	reason     string
	confidence float64
	ok         bool
}

func (s stubOpinion) Consult(ctx context.Context, reply string, current Response) (string, float64, bool) {
	return s.reason, s.confidence, s.ok
}

func TestInterpretWithContext_NilOpinionMatchesInterpret(t *testing.T) {
	ip := NewInterpreter(nil)
	reply := []byte("The weather today is sunny with a high of 75.")
	want := ip.Interpret(reply, false)
	got := ip.InterpretWithContext(context.Background(), reply, false, nil)
	assert.Equal(t, want, got)
}

func TestInterpretWithContext_RefinesOnlyUncertainAccept(t *testing.T) {
	ip := NewInterpreter(nil)
	opinion := stubOpinion{reason: "llm second opinion: reads as blocked", confidence: 0.55, ok: true}

	reply := []byte("The weather today is sunny with a high of 75.")
	resp := ip.InterpretWithContext(context.Background(), reply, false, opinion)

	assert.False(t, resp.Blocked)
	assert.Equal(t, "llm second opinion: reads as blocked", resp.Reason)
	assert.Equal(t, 0.55, resp.Confidence)
}

func TestInterpretWithContext_NeverConsultedWhenAlreadyDecisive(t *testing.T) {
	ip := NewInterpreter(nil)
	opinion := stubOpinion{reason: "should not appear", confidence: 0.99, ok: true}

	reply := []byte(`{"blocked": true, "reason": "policy violation"}`)
	resp := ip.InterpretWithContext(context.Background(), reply, false, opinion)

	assert.True(t, resp.Blocked)
	assert.Equal(t, "structured field blocked", resp.Reason)
	assert.Equal(t, 0.8, resp.Confidence)
}

func TestInterpretWithContext_TransportErrorNeverConsulted(t *testing.T) {
	ip := NewInterpreter(nil)
	opinion := stubOpinion{reason: "should not appear", confidence: 0.99, ok: true}

	resp := ip.InterpretWithContext(context.Background(), nil, true, opinion)
	assert.True(t, resp.Blocked)
	assert.Equal(t, "unreachable", resp.Reason)
}

func TestInterpretWithContext_AmbiguousOpinionLeavesVerdictUntouched(t *testing.T) {
	ip := NewInterpreter(nil)
	opinion := stubOpinion{ok: false}

	reply := []byte("The weather today is sunny with a high of 75.")
	want := ip.Interpret(reply, false)
	got := ip.InterpretWithContext(context.Background(), reply, false, opinion)
	assert.Equal(t, want, got)
}
