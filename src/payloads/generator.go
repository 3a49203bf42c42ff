package payloads

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redforge/a2aeval/src/catalog"
	"github.com/redforge/a2aeval/src/profile"
)

// MutationSource is an optional, injected strategy that can synthesize
// additional mutated payload content for a technique beyond the
// template/phrase-bank tiers. A nil source (the default) leaves Generate's
// output untouched.
type MutationSource interface {
	Mutate(ctx context.Context, technique catalog.TechniqueDescriptor, seed string) (string, error)
}

// defaultBenignRatio is the fraction of generated payloads that are
// benign controls rather than attack attempts, absent an explicit
// override. Held to within ±2% of this value by Generate.
const defaultBenignRatio = 0.20

const benignRatioTolerance = 0.02

// Generator implements generate(technique, subject_profile).
// It mixes hand-crafted templates, generic tactic-driven synthesis, and
// benign controls into one payload set per technique.
type Generator struct {
	banks map[catalog.Tactic]PhraseBank
	// ids is an injectable id source; defaults to uuid.NewString in
	// NewGenerator so tests can supply a deterministic sequence.
	ids func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithBanks overrides the phrase banks used for generic tactic-driven
// synthesis, e.g. with a set merged from a YAML override via LoadBanks.
func WithBanks(banks map[catalog.Tactic]PhraseBank) Option {
	return func(g *Generator) { g.banks = banks }
}

// WithIDSource overrides how attack IDs are minted, for deterministic tests.
func WithIDSource(f func() string) Option {
	return func(g *Generator) { g.ids = f }
}

// NewGenerator constructs a Generator using the built-in phrase banks
// unless overridden with WithBanks.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		banks: defaultBanks,
		ids:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces count payloads for technique, a (1-benignRatio) share of
// which are malicious attack attempts and the remainder benign controls
// drawn from subjectType's bank, clamped to benignRatioTolerance of
// benignRatio. benignRatio < 0 selects defaultBenignRatio.
//
// Attack payloads are drawn first from technique.Templates (tier 1,
// always is_malicious=true), then from the generic tactic-driven bank
// (tier 2) once templates are exhausted, cycling through opener/target
// combinations and recording the draw in Metadata; once every
// combination has been used, the content repeats.
func (g *Generator) Generate(technique catalog.TechniqueDescriptor, count int, subjectType profile.SubjectType, benignRatio float64) ([]AttackPayload, error) {
	if count <= 0 {
		return nil, fmt.Errorf("payloads: count must be positive, got %d", count)
	}
	if benignRatio < 0 {
		benignRatio = defaultBenignRatio
	}
	if benignRatio > 1 {
		return nil, fmt.Errorf("payloads: benign ratio must be within [0,1], got %f", benignRatio)
	}

	benignCount := int(benignRatio*float64(count) + 0.5)
	if lo, hi := clampBounds(count, benignRatio); benignCount < lo {
		benignCount = lo
	} else if benignCount > hi {
		benignCount = hi
	}
	attackCount := count - benignCount

	out := make([]AttackPayload, 0, count)
	out = append(out, g.generateAttacks(technique, attackCount)...)
	out = append(out, g.generateBenign(technique.ID, subjectType, benignCount)...)
	return out, nil
}

// clampBounds returns the [lo,hi] benign-count range implied by
// benignRatioTolerance around benignRatio for the given total count.
func clampBounds(count int, benignRatio float64) (lo, hi int) {
	lo = int((benignRatio-benignRatioTolerance)*float64(count) + 0.5)
	hi = int((benignRatio+benignRatioTolerance)*float64(count) + 0.5)
	if lo < 0 {
		lo = 0
	}
	if hi > count {
		hi = count
	}
	return lo, hi
}

func (g *Generator) generateAttacks(technique catalog.TechniqueDescriptor, n int) []AttackPayload {
	out := make([]AttackPayload, 0, n)
	templates := technique.Templates

	for i := 0; i < n; i++ {
		var content string
		var meta Metadata
		if i < len(templates) {
			content = templates[i]
			meta = Metadata{SubTechnique: fmt.Sprintf("%s#template-%d", technique.ID, i)}
		} else {
			content, meta = g.synthesize(technique, i)
		}
		out = append(out, AttackPayload{
			AttackID:    g.ids(),
			TechniqueID: technique.ID,
			Content:     content,
			IsMalicious: true,
			Metadata:    meta,
		})
	}
	return out
}

// synthesize builds a generic tactic-driven payload when hand-crafted
// templates are exhausted, cycling the phrase bank and recording the
// mutation index in Metadata so duplicates are traceable.
func (g *Generator) synthesize(technique catalog.TechniqueDescriptor, draw int) (string, Metadata) {
	tactic := primaryTactic(technique)
	bank, ok := g.banks[tactic]
	if !ok || (len(bank.Openers) == 0 && len(bank.Targets) == 0) {
		return fmt.Sprintf("Generic probe #%d for technique %s.", draw, technique.ID), Metadata{
			SubTechnique: fmt.Sprintf("%s#generic-%d", technique.ID, draw),
		}
	}

	opener := bank.Openers[draw%len(bank.Openers)]
	var content string
	if len(bank.Targets) > 0 {
		target := bank.Targets[(draw/maxInt(len(bank.Openers), 1))%len(bank.Targets)]
		content = fmt.Sprintf("%s %s", opener, target)
	} else {
		content = opener
	}

	lineage := []string{fmt.Sprintf("%s:opener:%d", tactic, draw%len(bank.Openers))}
	if len(bank.Targets) > 0 {
		lineage = append(lineage, fmt.Sprintf("%s:target:%d", tactic, (draw/maxInt(len(bank.Openers), 1))%len(bank.Targets)))
	}

	return content, Metadata{
		SubTechnique:    fmt.Sprintf("%s#generic-%d", technique.ID, draw),
		MutationLineage: lineage,
	}
}

func (g *Generator) generateBenign(techniqueID string, subjectType profile.SubjectType, n int) []AttackPayload {
	bank := benignPhrases(subjectType)
	out := make([]AttackPayload, 0, n)
	for i := 0; i < n; i++ {
		content := bank[i%len(bank)]
		out = append(out, AttackPayload{
			AttackID:    g.ids(),
			TechniqueID: techniqueID,
			Content:     content,
			IsMalicious: false,
			Metadata:    Metadata{SubTechnique: "benign-control"},
		})
	}
	return out
}

// primaryTactic returns the technique's alphabetically first tactic
// label, the one the generic synthesis bank is keyed by. A technique
// with no tactics defaults to prompt injection.
func primaryTactic(t catalog.TechniqueDescriptor) catalog.Tactic {
	if len(t.Tactics) == 0 {
		return catalog.TacticPromptInjection
	}
	tactics := append([]catalog.Tactic(nil), t.Tactics...)
	sort.Slice(tactics, func(i, j int) bool { return tactics[i] < tactics[j] })
	return tactics[0]
}

// AugmentWithMutation appends up to extra additional attack payloads for
// technique by drawing a mutated variant from source for each of the
// payloads already generated, cycling through them as seeds. Errors from
// source are dropped, neither logged nor returned — a flaky
// mutation source degrades to fewer extra payloads, not a failed run.
// A nil source makes this a no-op, so callers can wire it unconditionally.
func (g *Generator) AugmentWithMutation(ctx context.Context, source MutationSource, technique catalog.TechniqueDescriptor, base []AttackPayload, extra int) []AttackPayload {
	if source == nil || extra <= 0 || len(base) == 0 {
		return nil
	}
	out := make([]AttackPayload, 0, extra)
	for i := 0; i < extra; i++ {
		seed := base[i%len(base)]
		content, err := source.Mutate(ctx, technique, seed.Content)
		if err != nil || content == "" {
			continue
		}
		out = append(out, AttackPayload{
			AttackID:    g.ids(),
			TechniqueID: technique.ID,
			Content:     content,
			IsMalicious: seed.IsMalicious,
			Metadata: Metadata{
				SubTechnique:    fmt.Sprintf("%s#llm-mutation-%d", technique.ID, i),
				MutationLineage: []string{fmt.Sprintf("llm:seed:%s", seed.AttackID)},
			},
		})
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
