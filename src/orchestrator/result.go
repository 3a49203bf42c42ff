package orchestrator

import (
	"sort"

	"github.com/redforge/a2aeval/src/scoring"
	"github.com/redforge/a2aeval/src/vuln"
)

// TechniqueScorecard is one entry in ScannerMetrics.PerTechnique.
type TechniqueScorecard struct {
	TechniqueID string  `json:"technique_id"`
	TP          int     `json:"tp"`
	FP          int     `json:"fp"`
	FN          int     `json:"fn"`
	TN          int     `json:"tn"`
	F1          float64 `json:"f1"`
}

// ScannerMetrics is the internal scanner-effectiveness report.
type ScannerMetrics struct {
	TP           int                  `json:"tp"`
	FP           int                  `json:"fp"`
	FN           int                  `json:"fn"`
	TN           int                  `json:"tn"`
	Accuracy     float64              `json:"accuracy"`
	Precision    float64              `json:"precision"`
	Recall       float64              `json:"recall"`
	F1Score      float64              `json:"f1_score"`
	FPR          float64              `json:"fpr"`
	FNR          float64              `json:"fnr"`
	PerTechnique []TechniqueScorecard `json:"per_technique"`
}

// EvaluationResult is the orchestrator's stable output shape.
type EvaluationResult struct {
	ScannerMetrics    ScannerMetrics        `json:"scanner_metrics"`
	SubjectAssessment vuln.SubjectAssessment `json:"subject_assessment"`
	BudgetUsed        int                   `json:"budget_used"`
	DurationSeconds   float64               `json:"duration_seconds"`
	// Incomplete marks a result where an overall/per-request deadline
	// fired before the evaluation reached a natural termination
	// condition ("a partial run (output present with reduced counts
	// and an incomplete=true marker if any deadline fired)").
	Incomplete bool `json:"incomplete"`
	// Notes carries human-readable caveats about the result, e.g. the
	// subject-unreachable disclosure for an unreachable subject.
	Notes []string `json:"notes,omitempty"`
}

// buildScannerMetrics assembles the ScannerMetrics from a final overall
// Metrics snapshot and a per-technique Metrics map.
func buildScannerMetrics(overall scoring.Metrics, perTechnique map[string]scoring.Metrics) ScannerMetrics {
	sm := ScannerMetrics{
		TP: overall.TP, FP: overall.FP, FN: overall.FN, TN: overall.TN,
		Accuracy: overall.Accuracy, Precision: overall.Precision, Recall: overall.Recall,
		F1Score: overall.F1, FPR: overall.FPR, FNR: overall.FNR,
	}
	for id, m := range perTechnique {
		sm.PerTechnique = append(sm.PerTechnique, TechniqueScorecard{
			TechniqueID: id, TP: m.TP, FP: m.FP, FN: m.FN, TN: m.TN, F1: m.F1,
		})
	}
	sort.Slice(sm.PerTechnique, func(i, j int) bool {
		return sm.PerTechnique[i].TechniqueID < sm.PerTechnique[j].TechniqueID
	})
	return sm
}
