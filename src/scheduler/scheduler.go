package scheduler

import (
	"sort"

	"github.com/redforge/a2aeval/src/scoring"
)

// Scheduler produces a RoundPlan per round and decides
// when an evaluation should terminate.
type Scheduler struct {
	cfg          Config
	techniqueIDs []string

	round             int
	overallF1History  []float64
	perTechF1History  []map[string]float64
}

// NewScheduler constructs a Scheduler over the given selected technique
// ids (the output of technique selection). MaxRounds < 1 and TestBudget < 1 are
// configuration errors the orchestrator must reject before calling this.
func NewScheduler(cfg Config, techniqueIDs []string) *Scheduler {
	ids := append([]string(nil), techniqueIDs...)
	sort.Strings(ids)
	return &Scheduler{cfg: cfg, techniqueIDs: ids}
}

// NextRound advances to the next round and returns its plan. remaining
// is the budget left before this round's allocation (owned and tracked
// by the orchestrator, which owns the budget).
func (s *Scheduler) NextRound(remaining int, tracker *scoring.Tracker) RoundPlan {
	s.round++

	if s.cfg.Mode == ModeFixed {
		return RoundPlan{
			Round:       s.round,
			Phase:       PhaseExploration,
			Allocations: allocateEven(remaining, s.techniqueIDs),
		}
	}

	switch {
	case s.round == 1:
		quota := explorationQuota(s.cfg.TestBudget, len(s.techniqueIDs), remaining)
		return RoundPlan{
			Round:       s.round,
			Phase:       PhaseExploration,
			Allocations: allocateEven(quota, s.techniqueIDs),
		}
	case s.round >= s.cfg.MaxRounds:
		return s.validationPlan(remaining, tracker)
	default:
		return s.exploitationPlan(remaining, tracker)
	}
}

// exploitationPlan implements the exploitation rule: ≥focus% of
// this round's quota to weak techniques proportional to deficit, the
// rest spread over non-weak techniques. The round's quota is the
// remaining budget split evenly over the rounds left, counting this
// round and the validation round.
func (s *Scheduler) exploitationPlan(remaining int, tracker *scoring.Tracker) RoundPlan {
	roundsLeft := s.cfg.MaxRounds - s.round + 1
	quota := ceilDiv(remaining, roundsLeft)
	if quota > remaining {
		quota = remaining
	}

	weak, nonWeak, f1 := s.classify(tracker)
	allocations := allocateWeakFocus(quota, weak, nonWeak, f1, s.cfg.WeakThreshold, s.cfg.FocusPercentage)

	return RoundPlan{Round: s.round, Phase: PhaseExploitation, Allocations: allocations}
}

// validationPlan implements the validation round: re-test techniques
// whose F1 changed more than stability_threshold between the last two
// observed rounds; if none changed that much, reuse one payload per weak
// technique.
func (s *Scheduler) validationPlan(remaining int, tracker *scoring.Tracker) RoundPlan {
	unstable := s.unstableTechniques()
	if len(unstable) > 0 {
		quota := remaining
		return RoundPlan{Round: s.round, Phase: PhaseValidation, Allocations: allocateEven(quota, unstable)}
	}

	weak, _, _ := s.classify(tracker)
	allocations := make(map[string]int, len(weak))
	for _, id := range weak {
		allocations[id] = 1
	}
	return RoundPlan{Round: s.round, Phase: PhaseValidation, Allocations: allocations}
}

// classify splits s.techniqueIDs into weak/non-weak using tracker's
// current per-technique F1, and returns the F1 map used for both the
// classification and the deficit-proportional allocation.
func (s *Scheduler) classify(tracker *scoring.Tracker) (weak, nonWeak []string, f1 map[string]float64) {
	metrics := tracker.PerTechnique()
	f1 = make(map[string]float64, len(s.techniqueIDs))
	for _, id := range s.techniqueIDs {
		f1[id] = metrics[id].F1
		if f1[id] < s.cfg.WeakThreshold {
			weak = append(weak, id)
		} else {
			nonWeak = append(nonWeak, id)
		}
	}
	return weak, nonWeak, f1
}

// unstableTechniques returns the techniques whose F1 changed by more
// than stability_threshold between the two most recent Observe calls.
func (s *Scheduler) unstableTechniques() []string {
	if len(s.perTechF1History) < 2 {
		return nil
	}
	prev := s.perTechF1History[len(s.perTechF1History)-2]
	curr := s.perTechF1History[len(s.perTechF1History)-1]

	var out []string
	for _, id := range s.techniqueIDs {
		if abs(curr[id]-prev[id]) > s.cfg.StabilityThreshold {
			out = append(out, id)
		}
	}
	return out
}

// Observe records a snapshot of the current metrics after a round has
// fully drained); must be called exactly once
// per completed round before the next NextRound/ShouldTerminate call.
func (s *Scheduler) Observe(tracker *scoring.Tracker) {
	overall := tracker.Overall()
	s.overallF1History = append(s.overallF1History, overall.F1)

	perTech := tracker.PerTechnique()
	snapshot := make(map[string]float64, len(s.techniqueIDs))
	for _, id := range s.techniqueIDs {
		snapshot[id] = perTech[id].F1
	}
	s.perTechF1History = append(s.perTechF1History, snapshot)
}

// ShouldTerminate implements the termination rule. Call after
// Observe for the just-completed round.
func (s *Scheduler) ShouldTerminate(remaining int, tracker *scoring.Tracker) bool {
	if remaining <= 0 {
		return true
	}
	if s.round >= s.cfg.MaxRounds {
		return true
	}
	if s.cfg.Mode == ModeFixed {
		return true
	}

	if s.twoConsecutiveHighF1() {
		return true
	}

	weak, _, _ := s.classify(tracker)
	if len(weak) == 0 && s.overallF1Stable() {
		return true
	}

	return false
}

func (s *Scheduler) twoConsecutiveHighF1() bool {
	n := len(s.overallF1History)
	if n < 2 {
		return false
	}
	return s.overallF1History[n-1] >= 0.9 && s.overallF1History[n-2] >= 0.9
}

func (s *Scheduler) overallF1Stable() bool {
	n := len(s.overallF1History)
	if n < 2 {
		return false
	}
	return abs(s.overallF1History[n-1]-s.overallF1History[n-2]) < s.cfg.StabilityThreshold
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
