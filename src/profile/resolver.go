package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// wellKnownPath is the fixed location the capability document is fetched
// from, relative to the subject's base URL.
const wellKnownPath = "/.well-known/agent-card.json"

const capabilityDocumentSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "version": {"type": "string"},
    "description": {"type": "string"},
    "skills": {"type": "array"},
    "capabilities": {"type": "object"}
  }
}`

// Resolver implements resolve(endpoint) -> SubjectProfile.
type Resolver struct {
	httpClient *http.Client
}

// NewResolver constructs a Resolver. A nil client defaults to one with a
// 30s timeout matching the Delivery Adapter's default.
func NewResolver(httpClient *http.Client) *Resolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Resolver{httpClient: httpClient}
}

// Resolve fetches and parses the subject's capability document into a
// SubjectProfile. On any fetch or parse failure it returns the minimal
// "unreachable" profile rather than an error — capability
// resolution failure is never fatal to the evaluation.
func (r *Resolver) Resolve(ctx context.Context, endpoint string) SubjectProfile {
	doc, err := r.fetch(ctx, endpoint)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("capability document unreachable, proceeding with generic profile")
		return SubjectProfile{
			Type:        SubjectGeneric,
			RiskHint:    RiskMedium,
			Unreachable: true,
		}
	}

	corpus := buildCorpus(*doc)
	subjectType := inferSubjectType(corpus)
	platformTags := inferTags(corpus, platformKeywords)
	domainTags := inferTags(corpus, domainKeywords)
	tacticTags := inferTags(corpus, tacticKeywords)

	if doc.Capabilities != nil {
		platformTags = append(platformTags, doc.Capabilities.Platforms...)
	}
	platformTags = dedupeSorted(platformTags)
	domainTags = dedupeSorted(domainTags)
	tacticTags = dedupeSorted(tacticTags)

	return SubjectProfile{
		Name:         doc.Name,
		Version:      doc.Version,
		Description:  doc.Description,
		Type:         subjectType,
		PlatformTags: platformTags,
		DomainTags:   domainTags,
		TacticTags:   tacticTags,
		RiskHint:     riskHint(subjectType, domainTags),
		Unreachable:  false,
	}
}

func (r *Resolver) fetch(ctx context.Context, endpoint string) (*CapabilityDocument, error) {
	url := strings.TrimRight(endpoint, "/") + wellKnownPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("profile: building capability document request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile: fetching capability document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile: capability document returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("profile: reading capability document: %w", err)
	}

	if err := validateCapabilityDocument(raw); err != nil {
		return nil, err
	}

	var doc CapabilityDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("profile: decoding capability document: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("profile: capability document missing required \"name\" field")
	}
	return &doc, nil
}

func validateCapabilityDocument(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(capabilityDocumentSchema)
	docLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("profile: schema validation failed: %w", err)
	}
	if !result.Valid() {
		msg := "profile: capability document does not conform to schema:"
		for _, e := range result.Errors() {
			msg += "\n  - " + e.String()
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// riskHint derives a coarse a-priori risk level: command-driven/automation
// subjects start higher since an accepted malicious payload there can
// trigger real-world effects (the command-execution family carries the
// highest base severity).
func riskHint(t SubjectType, domainTags []string) RiskHint {
	switch t {
	case SubjectCommandDriven, SubjectIoT, SubjectAutomation:
		return RiskHigh
	case SubjectStorage, SubjectWeb:
		return RiskMedium
	default:
		for _, tag := range domainTags {
			if tag == "auth" {
				return RiskMedium
			}
		}
		return RiskLow
	}
}

func dedupeSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
