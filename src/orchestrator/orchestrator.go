package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redforge/a2aeval/src/catalog"
	"github.com/redforge/a2aeval/src/delivery"
	"github.com/redforge/a2aeval/src/interpreter"
	"github.com/redforge/a2aeval/src/payloads"
	"github.com/redforge/a2aeval/src/profile"
	"github.com/redforge/a2aeval/src/records"
	"github.com/redforge/a2aeval/src/scheduler"
	"github.com/redforge/a2aeval/src/scoring"
	"github.com/redforge/a2aeval/src/selector"
	"github.com/redforge/a2aeval/src/vuln"
	"github.com/rs/zerolog/log"
)

// selectorMaxK/selectorMinScore bound the Technique Selector's output
// for an orchestrator-driven evaluation. The selector leaves max_k/min_score as
// caller-supplied operation parameters without fixing defaults; an
// evaluation run asks for "every technique worth testing" rather than a
// curated top-N, so max_k is effectively unbounded and min_score is the
// selector's own base score (every candidate clears it).
const (
	selectorMaxK    = -1
	selectorMinScore = 10
)

// maxSafetyRounds bounds the scheduling loop independent of MaxRounds,
// guarding against a scheduler bug that never reports termination.
const maxSafetyRounds = 50

// mutationExtraPerTechnique bounds how many LLM-mutated variants
// augmentBatch draws per technique per round when a mutation source is
// attached, so an injected strategy adds breadth without dominating the
// round's test budget.
const mutationExtraPerTechnique = 2

// Orchestrator implements the evaluate(request) -> EvaluationResult
// operation, wiring every other component into one data-flow loop.
type Orchestrator struct {
	catalog     *catalog.Catalog
	resolver    *profile.Resolver
	generator   *payloads.Generator
	adapter     *delivery.Adapter
	interpreter *interpreter.Interpreter

	mutation      payloads.MutationSource
	secondOpinion interpreter.SecondOpinion
}

// NewOrchestrator constructs an Orchestrator from its collaborators.
func NewOrchestrator(cat *catalog.Catalog, resolver *profile.Resolver, generator *payloads.Generator, adapter *delivery.Adapter, interp *interpreter.Interpreter) *Orchestrator {
	return &Orchestrator{
		catalog:     cat,
		resolver:    resolver,
		generator:   generator,
		adapter:     adapter,
		interpreter: interp,
	}
}

// UseLLMStrategy attaches an optional LLM-backed mutation source and/or
// second opinion. Either argument may be nil to leave that strategy
// unset; an Orchestrator with neither attached behaves exactly as before.
func (o *Orchestrator) UseLLMStrategy(mutation payloads.MutationSource, secondOpinion interpreter.SecondOpinion) {
	o.mutation = mutation
	o.secondOpinion = secondOpinion
}

// Evaluate runs one end-to-end evaluation. Fatal configuration
// errors return before any payload is sent; all other failures
// (transport, interpreter uncertainty) are recorded as part of the
// result rather than returned as an error.
func (o *Orchestrator) Evaluate(ctx context.Context, req EvaluationRequest) (EvaluationResult, error) {
	if err := req.Validate(); err != nil {
		return EvaluationResult{}, err
	}

	start := time.Now()
	overallTimeout := time.Duration(req.Config.OverallTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, overallTimeout)
	defer cancel()

	subjectProfile := o.resolver.Resolve(ctx, req.Endpoint)

	selected := selector.Select(o.catalog, subjectProfile, selectorMaxK, selectorMinScore)
	techniqueIDs := make([]string, len(selected))
	for i, t := range selected {
		techniqueIDs[i] = t.ID
	}

	sched := scheduler.NewScheduler(req.Config.ToSchedulerConfig(), techniqueIDs)
	tracker := scoring.NewTracker()

	var allRecords []records.TestRecord
	remaining := req.Config.TestBudget
	incomplete := false

	for i := 0; i < maxSafetyRounds; i++ {
		if ctx.Err() != nil {
			incomplete = true
			break
		}
		if remaining <= 0 {
			break
		}

		plan := sched.NextRound(remaining, tracker)
		if plan.Total() == 0 {
			break
		}

		batch, err := o.generateBatch(plan, subjectProfile.Type)
		if err != nil {
			return EvaluationResult{}, err
		}
		batch = o.augmentBatch(ctx, plan, batch, mutationExtraPerTechnique)

		perRequestTimeout := time.Duration(req.Config.PerRequestTimeoutSeconds) * time.Second
		results := o.adapter.DeliverBatchWithOptions(ctx, req.Endpoint, subjectProfile.Type, batch, req.Config.Parallelism, perRequestTimeout)
		now := time.Now()
		for _, r := range results {
			if errors.Is(r.Response.Err, context.DeadlineExceeded) {
				incomplete = true
			}
			resp := o.interpreter.InterpretWithContext(ctx, r.Response.Body, r.Response.Err != nil, o.secondOpinion)
			rec := records.NewTestRecord(uuid.NewString(), r.Payload, resp, plan.Round, now)
			tracker.Record(rec.TechniqueID, rec.Outcome)
			allRecords = append(allRecords, rec)
		}
		remaining -= len(batch)

		sched.Observe(tracker)
		if sched.ShouldTerminate(remaining, tracker) {
			break
		}
	}

	overall := tracker.Overall()
	assessment := vuln.Synthesize(allRecords, o.catalog, overall)

	result := EvaluationResult{
		ScannerMetrics:    buildScannerMetrics(overall, tracker.PerTechnique()),
		SubjectAssessment: assessment,
		BudgetUsed:        req.Config.TestBudget - remaining,
		DurationSeconds:   time.Since(start).Seconds(),
		Incomplete:        incomplete,
	}
	if subjectProfile.Unreachable {
		result.Notes = append(result.Notes, "subject unreachable; results synthetic")
	}

	log.Info().
		Str("endpoint", req.Endpoint).
		Int("budget_used", result.BudgetUsed).
		Bool("incomplete", result.Incomplete).
		Msg("evaluation complete")

	return result, nil
}

// generateBatch produces every payload for one round across all
// allocated techniques. A technique id that doesn't resolve in the
// catalog is a programming error, not an evaluation error, and fails
// immediately.
func (o *Orchestrator) generateBatch(plan scheduler.RoundPlan, subjectType profile.SubjectType) ([]payloads.AttackPayload, error) {
	var batch []payloads.AttackPayload
	for techniqueID, count := range plan.Allocations {
		if count <= 0 {
			continue
		}
		technique, ok := o.catalog.Get(techniqueID)
		if !ok {
			return nil, fmt.Errorf("orchestrator: round %d allocated technique %q not present in catalog", plan.Round, techniqueID)
		}
		generated, err := o.generator.Generate(technique, count, subjectType, -1)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: generating payloads for %q: %w", techniqueID, err)
		}
		batch = append(batch, generated...)
	}
	return batch, nil
}

// augmentBatch appends extraPerTechnique LLM-mutated variants for each
// technique present in the batch, when a mutation source is attached. A
// nil mutation source (the common case) makes this a no-op.
func (o *Orchestrator) augmentBatch(ctx context.Context, plan scheduler.RoundPlan, batch []payloads.AttackPayload, extraPerTechnique int) []payloads.AttackPayload {
	if o.mutation == nil || extraPerTechnique <= 0 {
		return batch
	}
	byTechnique := make(map[string][]payloads.AttackPayload)
	for _, p := range batch {
		byTechnique[p.TechniqueID] = append(byTechnique[p.TechniqueID], p)
	}
	for techniqueID := range plan.Allocations {
		technique, ok := o.catalog.Get(techniqueID)
		if !ok {
			continue
		}
		base := byTechnique[techniqueID]
		batch = append(batch, o.generator.AugmentWithMutation(ctx, o.mutation, technique, base, extraPerTechnique)...)
	}
	return batch
}
