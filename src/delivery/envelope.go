// Package delivery implements the delivery adapter: encoding a
// payload into the subject's wire protocol, sending it with bounded
// parallelism and retry, and memoizing identical sends within a run.
package delivery

// Envelope is the A2A message envelope delivered to a subject.
type Envelope struct {
	Kind string `json:"kind"`
	Role string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is one content part of an Envelope. Only text parts are produced
// by this evaluator; the field set mirrors the subset of the A2A wire
// format it depends on.
type Part struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// NewEnvelope wraps text in the single-part user-message envelope every
// delivered payload uses.
func NewEnvelope(text string) Envelope {
	return Envelope{
		Kind: "message",
		Role: "user",
		Parts: []Part{
			{Kind: "text", Text: text},
		},
	}
}
