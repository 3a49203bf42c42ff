// Package profile implements the capability resolver: fetching and
// interpreting a subject's capability document into a SubjectProfile the
// rest of the pipeline scores techniques against.
package profile

import "github.com/redforge/a2aeval/src/catalog"

// SubjectType is the inferred category of the subject under test.
type SubjectType string

const (
	SubjectConversational SubjectType = "conversational"
	SubjectCommandDriven  SubjectType = "command-driven"
	SubjectWeb            SubjectType = "web"
	SubjectStorage        SubjectType = "storage"
	SubjectIoT            SubjectType = "iot"
	SubjectAutomation     SubjectType = "automation"
	SubjectGeneric        SubjectType = "generic"
)

// Platform converts a SubjectType into the catalog.Platform it maps to when
// scoring technique/profile platform overlap.
func (s SubjectType) Platform() catalog.Platform {
	switch s {
	case SubjectConversational:
		return catalog.PlatformConversational
	case SubjectCommandDriven, SubjectAutomation:
		return catalog.PlatformCommand
	case SubjectWeb:
		return catalog.PlatformWeb
	case SubjectStorage:
		return catalog.PlatformStorage
	case SubjectIoT:
		return catalog.PlatformIoT
	default:
		return catalog.PlatformGeneric
	}
}

// RiskHint is a coarse a-priori risk level inferred from the capability
// document (e.g. a subject advertising broad "execute" capabilities starts
// with a higher hint than one only advertising read-only skills).
type RiskHint string

const (
	RiskLow    RiskHint = "low"
	RiskMedium RiskHint = "medium"
	RiskHigh   RiskHint = "high"
)

// SubjectProfile is created once per evaluation from the capability
// document and is read-only thereafter.
type SubjectProfile struct {
	Name        string
	Version     string
	Description string
	Type        SubjectType
	PlatformTags []string
	DomainTags   []string
	// TacticTags is the set of catalog.Tactic labels the capability
	// document's text hints the subject is exposed to (e.g. a subject
	// whose description mentions "database" hints at sql-injection
	// exposure). Used by the Technique Selector's "matching tactic
	// label" scoring bonus.
	TacticTags   []string
	RiskHint     RiskHint
	// Unreachable is set when the capability document could not be
	// fetched; the orchestrator may still proceed with this minimal
	// profile.
	Unreachable bool
}

// CapabilityDocument is the minimal shape of the JSON document fetched from
// {endpoint}/.well-known/agent-card.json. Unknown fields are ignored
// by virtue of not being modeled.
type CapabilityDocument struct {
	Name         string        `json:"name"`
	Version      string        `json:"version"`
	Description  string        `json:"description"`
	Skills       []Skill       `json:"skills"`
	Capabilities *Capabilities `json:"capabilities"`
}

// Skill describes one advertised subject capability.
type Skill struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Examples    []string `json:"examples"`
}

// Capabilities carries the declared platform list and any other
// capability-document fields we read; unrecognized keys are ignored.
type Capabilities struct {
	Platforms []string `json:"platforms"`
}
