// Package selector implements the technique selector: scoring and
// ranking catalog techniques against a subject profile.
package selector

import (
	"sort"

	"github.com/redforge/a2aeval/src/catalog"
	"github.com/redforge/a2aeval/src/profile"
)

const (
	baseScore            = 10
	platformMatchBonus   = 15
	mlAdjacentBonus      = 10
	tacticMatchBonus     = 5
	domainMatchBonus     = 3
)

// scored pairs a technique with its computed score, for sorting.
type scored struct {
	technique catalog.TechniqueDescriptor
	score     int
}

// Select scores every catalog technique against profile and returns at most
// max_k entries with score >= min_score, ordered by score descending with
// ties broken lexicographically by technique id. The result never
// contains duplicates and is deterministic given fixed inputs.
func Select(cat *catalog.Catalog, p profile.SubjectProfile, maxK int, minScore int) []catalog.TechniqueDescriptor {
	platformTags := platformTagSet(p)
	domainTags := stringSet(p.DomainTags)
	tacticTags := stringSet(p.TacticTags)
	isAIAdjacent := p.Type == profile.SubjectConversational || domainTags["llm"] || domainTags["assistant"] || domainTags["chat"]

	candidates := cat.All()
	results := make([]scored, 0, len(candidates))

	for _, t := range candidates {
		score := scoreTechnique(t, platformTags, domainTags, tacticTags, isAIAdjacent)
		if score >= minScore {
			results = append(results, scored{technique: t, score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].technique.ID < results[j].technique.ID
	})

	if maxK >= 0 && len(results) > maxK {
		results = results[:maxK]
	}

	out := make([]catalog.TechniqueDescriptor, len(results))
	for i, r := range results {
		out[i] = r.technique
	}
	return out
}

func scoreTechnique(t catalog.TechniqueDescriptor, platformTags, domainTags, tacticTags map[string]bool, isAIAdjacent bool) int {
	score := baseScore

	for _, p := range t.Platforms {
		if platformTags[string(p)] {
			score += platformMatchBonus
			break
		}
	}

	if isAIAdjacent && t.IsMLAdjacent() {
		score += mlAdjacentBonus
	}

	for _, tactic := range t.Tactics {
		if tacticTags[string(tactic)] {
			score += tacticMatchBonus
		}
	}

	for _, domain := range t.Hints.Domains {
		if domainTags[domain] {
			score += domainMatchBonus
		}
	}

	return score
}

func platformTagSet(p profile.SubjectProfile) map[string]bool {
	set := stringSet(p.PlatformTags)
	set[string(p.Type.Platform())] = true
	return set
}

func stringSet(in []string) map[string]bool {
	set := make(map[string]bool, len(in))
	for _, s := range in {
		set[s] = true
	}
	return set
}
