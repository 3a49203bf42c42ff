// Package records holds the TestRecord entity linking a delivered
// AttackPayload to its interpreted Response and classified Outcome —
// the append-only log the rest of the pipeline (scoring, scheduling,
// vulnerability synthesis) reads from.
package records

import (
	"time"

	"github.com/redforge/a2aeval/src/interpreter"
	"github.com/redforge/a2aeval/src/payloads"
	"github.com/redforge/a2aeval/src/scoring"
)

// TestRecord is one completed test within an evaluation. Append-only:
// never mutated after creation.
type TestRecord struct {
	ID          string
	Payload     payloads.AttackPayload
	Response    interpreter.Response
	Outcome     scoring.Outcome
	TechniqueID string
	Timestamp   time.Time
	Round       int
}

// NewTestRecord constructs a TestRecord, classifying its outcome strictly from payload.IsMalicious and response.Blocked — never
// consulting any other field.
func NewTestRecord(id string, payload payloads.AttackPayload, response interpreter.Response, round int, timestamp time.Time) TestRecord {
	return TestRecord{
		ID:          id,
		Payload:     payload,
		Response:    response,
		Outcome:     scoring.Classify(payload.IsMalicious, response.Blocked),
		TechniqueID: payload.TechniqueID,
		Timestamp:   timestamp,
		Round:       round,
	}
}
