// Package orchestrator implements the evaluation orchestrator: the
// single evaluate(request) entry point driving the end-to-end loop
// across every other component.
package orchestrator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redforge/a2aeval/src/scheduler"
)

var validate = validator.New()

// RequestConfig is the enumerated configuration key set.
type RequestConfig struct {
	Mode                     string  `json:"mode" validate:"required,oneof=fixed adaptive"`
	TestBudget               int     `json:"test_budget" validate:"required,gt=0"`
	WeakThreshold            float64 `json:"weak_threshold" validate:"gte=0,lte=1"`
	FocusPercentage          float64 `json:"focus_percentage" validate:"gte=0,lte=1"`
	MaxRounds                int     `json:"max_rounds" validate:"gte=1"`
	StabilityThreshold       float64 `json:"stability_threshold" validate:"gte=0,lte=1"`
	Seed                     int64   `json:"seed"`
	Parallelism              int     `json:"parallelism" validate:"gte=1"`
	PerRequestTimeoutSeconds int     `json:"per_request_timeout_seconds" validate:"gte=1"`
	OverallTimeoutSeconds    int     `json:"overall_timeout_seconds" validate:"gte=1"`
}

// DefaultRequestConfig returns the default configuration values.
func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		Mode:                     "adaptive",
		TestBudget:               100,
		WeakThreshold:            0.6,
		FocusPercentage:          0.6,
		MaxRounds:                5,
		StabilityThreshold:       0.05,
		Parallelism:              8,
		PerRequestTimeoutSeconds: 30,
		OverallTimeoutSeconds:    300,
	}
}

// ToSchedulerConfig converts the validated request config into the
// scheduler's internal Config shape.
func (c RequestConfig) ToSchedulerConfig() scheduler.Config {
	mode := scheduler.ModeAdaptive
	if c.Mode == "fixed" {
		mode = scheduler.ModeFixed
	}
	return scheduler.Config{
		Mode:               mode,
		TestBudget:         c.TestBudget,
		WeakThreshold:      c.WeakThreshold,
		FocusPercentage:    c.FocusPercentage,
		MaxRounds:          c.MaxRounds,
		StabilityThreshold: c.StabilityThreshold,
		Seed:               c.Seed,
	}
}

// EvaluationRequest is the orchestrator's public operation input.
type EvaluationRequest struct {
	Endpoint string                 `json:"endpoint" validate:"required,url"`
	Config   RequestConfig          `json:"config" validate:"required"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Validate reports a configuration error per the rule that configuration errors are surfaced before any
// request; fail fast; no partial result" rule. A fatal error here must
// propagate to the caller without sending a single payload.
func (r EvaluationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("orchestrator: invalid evaluation request: %w", err)
	}
	return nil
}
