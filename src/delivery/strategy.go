package delivery

import (
	"encoding/json"

	"github.com/redforge/a2aeval/src/payloads"
	"github.com/redforge/a2aeval/src/profile"
)

// commandEnvelope is the JSON body wrapped into the A2A text part for
// command-driven/iot/automation subjects.
type commandEnvelope struct {
	Command    string         `json:"command"`
	Parameters commandParams  `json:"parameters"`
}

type commandParams struct {
	AttackID  string   `json:"attack_id"`
	Technique string   `json:"technique"`
	Metadata  metadata `json:"metadata,omitempty"`
}

type metadata struct {
	SubTechnique    string   `json:"sub_technique,omitempty"`
	MutationLineage []string `json:"mutation_lineage,omitempty"`
}

// webEnvelope is the JSON body for web subjects.
type webEnvelope struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Body   string `json:"body"`
}

// storageEnvelope is the JSON body for storage subjects.
type storageEnvelope struct {
	Query   string            `json:"query"`
	Context map[string]string `json:"context"`
}

// FormatPayload renders a payload's content into the subject-appropriate
// wire string placed inside the A2A text part, selecting strategy from
// subjectType. On marshal failure (should not happen for these
// fixed shapes) it falls back to the raw content.
func FormatPayload(subjectType profile.SubjectType, payload payloads.AttackPayload) string {
	return formatCommand(payload, subjectType)
}

func formatCommand(payload payloads.AttackPayload, subjectType profile.SubjectType) string {
	switch subjectType {
	case profile.SubjectCommandDriven, profile.SubjectIoT, profile.SubjectAutomation:
		return mustJSON(commandEnvelope{
			Command: payload.Content,
			Parameters: commandParams{
				AttackID:  payload.AttackID,
				Technique: payload.TechniqueID,
				Metadata: metadata{
					SubTechnique:    payload.Metadata.SubTechnique,
					MutationLineage: payload.Metadata.MutationLineage,
				},
			},
		}, payload.Content)
	case profile.SubjectWeb:
		return mustJSON(webEnvelope{Method: "POST", Path: "/", Body: payload.Content}, payload.Content)
	case profile.SubjectStorage:
		return mustJSON(storageEnvelope{Query: payload.Content, Context: map[string]string{}}, payload.Content)
	case profile.SubjectConversational:
		return payload.Content
	default:
		// generic/unknown attempts command-style first; the caller falls
		// back to conversational style on non-2xx/transport error.
		return mustJSON(commandEnvelope{
			Command: payload.Content,
			Parameters: commandParams{AttackID: payload.AttackID, Technique: payload.TechniqueID},
		}, payload.Content)
	}
}

// conversationalFormat is the plain-text fallback strategy used for
// generic/unknown subjects after a failed command-style attempt.
func conversationalFormat(payload payloads.AttackPayload) string {
	return payload.Content
}

func mustJSON(v interface{}, fallback string) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(raw)
}
