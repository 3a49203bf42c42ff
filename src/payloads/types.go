// Package payloads implements the payload generator: producing
// attack and benign-control payloads for a given technique.
package payloads

// Metadata carries optional generation provenance for an AttackPayload,
// such as which sub-technique template it came from or its mutation
// lineage.
type Metadata struct {
	SubTechnique    string   `json:"sub_technique,omitempty"`
	MutationLineage []string `json:"mutation_lineage,omitempty"`
}

// AttackPayload is a single attack or benign-control request produced for
// one technique. Immutable once created.
type AttackPayload struct {
	AttackID    string   `json:"attack_id"`
	TechniqueID string   `json:"technique_id"`
	Content     string   `json:"content"`
	IsMalicious bool     `json:"is_malicious"`
	Metadata    Metadata `json:"metadata,omitempty"`
}
