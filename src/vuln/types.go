// Package vuln implements the vulnerability synthesizer: turning
// FALSE_NEGATIVE test records into severity-scored vulnerability
// records and an aggregate subject security assessment.
package vuln

// Severity is the CVSS-style severity bucket a score clamps into.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityNone     Severity = "none"
)

// Evidence is the serializable payload+response pair backing one
// Vulnerability within an EvaluationResult.
type Evidence struct {
	PayloadContent string  `json:"payload_content"`
	ResponseReason string  `json:"response_reason"`
	Confidence     float64 `json:"confidence"`
}

// Vulnerability is a derived record produced for every FALSE_NEGATIVE
// test record.
type Vulnerability struct {
	ID                     string   `json:"id"`
	TechniqueID            string   `json:"technique_id"`
	Description            string   `json:"description"`
	AttackVectorExample    string   `json:"attack_vector_example"`
	Evidence               Evidence `json:"evidence"`
	CVSSScore              float64  `json:"cvss_score"`
	Severity               Severity `json:"severity"`
	WeaknessClassification string   `json:"weakness_classification"`
	Remediation            string   `json:"remediation"`
}

// SubjectAssessment is the synthesizer's output: the vulnerability list plus the
// aggregate security score, grade, and recommendations.
type SubjectAssessment struct {
	Score           int             `json:"score"`
	Grade           string          `json:"grade"`
	Rating          string          `json:"rating"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Recommendations []string        `json:"recommendations"`
}
