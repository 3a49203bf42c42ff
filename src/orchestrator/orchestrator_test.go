package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/redforge/a2aeval/src/catalog"
	"github.com/redforge/a2aeval/src/delivery"
	"github.com/redforge/a2aeval/src/interpreter"
	"github.com/redforge/a2aeval/src/llm"
	"github.com/redforge/a2aeval/src/payloads"
	"github.com/redforge/a2aeval/src/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedProvider always answers with the same verdict, regardless of
// prompt, so an llm.Opinion's consult step is deterministic in tests.
type fixedProvider struct{ reply string }

func (f fixedProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return f.reply, nil
}

// agentCard is a minimal capability document served by the mock subject.
func agentCard(name, description string, platforms []string) string {
	doc := map[string]interface{}{
		"name":        name,
		"version":     "1.0",
		"description": description,
	}
	if len(platforms) > 0 {
		doc["capabilities"] = map[string]interface{}{"platforms": platforms}
	}
	raw, _ := json.Marshal(doc)
	return string(raw)
}

func newTestOrchestrator(t *testing.T, mux *http.ServeMux) (*Orchestrator, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := delivery.NewRedisCache(client, time.Minute)
	transport := delivery.NewTransport(srv.Client(), delivery.RetryConfig{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, BackoffMultiplier: 1})
	limiter := delivery.NewRateLimiter(0, 0)
	adapter := delivery.NewAdapter(transport, limiter, cache, 4)

	resolver := profile.NewResolver(srv.Client())
	generator := payloads.NewGenerator()
	interp := interpreter.NewInterpreter(interpreter.DefaultDecisionFields)

	orch := NewOrchestrator(catalog.Builtin(), resolver, generator, adapter, interp)
	return orch, srv
}

// baseConfig returns a fixed-mode config small enough to run fast and
// deterministically in tests.
func baseConfig() RequestConfig {
	cfg := DefaultRequestConfig()
	cfg.Mode = "fixed"
	cfg.TestBudget = 6
	cfg.MaxRounds = 1
	cfg.PerRequestTimeoutSeconds = 5
	cfg.OverallTimeoutSeconds = 5
	return cfg
}

func TestEvaluate_HomeAutomationSubjectAlwaysBlocks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/agent-card.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentCard("smart-thermostat", "home automation iot device controller", []string{"iot", "command"})))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"blocked":true,"reason":"command not authorized"}`))
	})

	orch, srv := newTestOrchestrator(t, mux)
	cfg := baseConfig()
	cfg.Mode = "adaptive"
	cfg.MaxRounds = 3

	result, err := orch.Evaluate(context.Background(), EvaluationRequest{Endpoint: srv.URL, Config: cfg})
	require.NoError(t, err)

	assert.False(t, result.Incomplete)
	assert.Empty(t, result.Notes)
	assert.Greater(t, result.BudgetUsed, 0)
	assert.Equal(t, 0, result.ScannerMetrics.FN, "a subject that always blocks should produce no false negatives")
	assert.GreaterOrEqual(t, result.SubjectAssessment.Score, 90)
}

func TestEvaluate_ConversationalFixedModeExactAllocation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/agent-card.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentCard("chat-assistant", "conversational llm chat assistant", nil)))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"completed"}`))
	})

	orch, srv := newTestOrchestrator(t, mux)
	cfg := baseConfig()

	result, err := orch.Evaluate(context.Background(), EvaluationRequest{Endpoint: srv.URL, Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, cfg.TestBudget, result.BudgetUsed, "fixed mode must exhaust the full declared budget in one round")
	assert.False(t, result.Incomplete)
}

func TestEvaluate_UnreachableSubjectProducesSyntheticNote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/agent-card.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"rejected"}`))
	})

	orch, srv := newTestOrchestrator(t, mux)
	cfg := baseConfig()

	result, err := orch.Evaluate(context.Background(), EvaluationRequest{Endpoint: srv.URL, Config: cfg})
	require.NoError(t, err)

	require.Len(t, result.Notes, 1)
	assert.Contains(t, result.Notes[0], "unreachable")
}

func TestEvaluate_RejectsInvalidRequestBeforeSendingAnyPayload(t *testing.T) {
	var hit bool
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.Write([]byte(`{"status":"rejected"}`))
	})

	orch, srv := newTestOrchestrator(t, mux)
	cfg := baseConfig()
	cfg.TestBudget = 0 // invalid: must be > 0

	_, err := orch.Evaluate(context.Background(), EvaluationRequest{Endpoint: srv.URL, Config: cfg})
	require.Error(t, err)
	assert.False(t, hit, "an invalid request must never reach the subject")
}

func TestEvaluate_OverallTimeoutProducesIncompleteResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/agent-card.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentCard("slow-subject", "generic subject", nil)))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{"status":"completed"}`))
	})

	orch, srv := newTestOrchestrator(t, mux)
	cfg := baseConfig()
	cfg.Mode = "adaptive"
	cfg.MaxRounds = 10
	cfg.TestBudget = 500
	cfg.OverallTimeoutSeconds = 1

	result, err := orch.Evaluate(context.Background(), EvaluationRequest{Endpoint: srv.URL, Config: cfg})
	require.NoError(t, err)
	assert.True(t, result.Incomplete)
	assert.Less(t, result.BudgetUsed, cfg.TestBudget)
}

func TestEvaluate_WithLLMMutationAugmentsBatchBeyondAllocation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/agent-card.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentCard("chat-assistant", "conversational llm chat assistant", nil)))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"completed"}`))
	})

	orch, srv := newTestOrchestrator(t, mux)
	orch.UseLLMStrategy(llm.NewMutator(llm.NewStub(nil)), nil)
	cfg := baseConfig()

	result, err := orch.Evaluate(context.Background(), EvaluationRequest{Endpoint: srv.URL, Config: cfg})
	require.NoError(t, err)
	assert.Greater(t, result.BudgetUsed, cfg.TestBudget, "attached mutation source should draw extra payloads beyond the plan's allocation")
}

func TestEvaluate_WithoutLLMMutationStaysWithinAllocation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/agent-card.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentCard("chat-assistant", "conversational llm chat assistant", nil)))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"completed"}`))
	})

	orch, srv := newTestOrchestrator(t, mux)
	cfg := baseConfig()

	result, err := orch.Evaluate(context.Background(), EvaluationRequest{Endpoint: srv.URL, Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, cfg.TestBudget, result.BudgetUsed, "no mutation source attached must reproduce the exact fixed-mode allocation")
}

func TestEvaluate_WithLLMSecondOpinionNeverFlipsBlockedClassification(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		// No structured field and no rejection/execution cue: this lands
		// on the "uncertain accept" fallback, the only verdict a second
		// opinion is ever consulted on.
		w.Write([]byte("The system is currently idle."))
	}
	cardHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentCard("chat-assistant", "conversational llm chat assistant", nil)))
	}

	withoutMux := http.NewServeMux()
	withoutMux.HandleFunc("/.well-known/agent-card.json", cardHandler)
	withoutMux.HandleFunc("/", handler)
	without, withoutSrv := newTestOrchestrator(t, withoutMux)
	baseline, err := without.Evaluate(context.Background(), EvaluationRequest{Endpoint: withoutSrv.URL, Config: baseConfig()})
	require.NoError(t, err)

	withMux := http.NewServeMux()
	withMux.HandleFunc("/.well-known/agent-card.json", cardHandler)
	withMux.HandleFunc("/", handler)
	with, withSrv := newTestOrchestrator(t, withMux)
	with.UseLLMStrategy(nil, llm.NewOpinion(fixedProvider{reply: "executed"}))
	withOpinion, err := with.Evaluate(context.Background(), EvaluationRequest{Endpoint: withSrv.URL, Config: baseConfig()})
	require.NoError(t, err)

	// An "executed" second opinion on an already-accepted verdict must
	// leave the outcome classification counts identical to the no-opinion
	// baseline; only Reason/Confidence may change, never Blocked.
	assert.Equal(t, baseline.ScannerMetrics.FN, withOpinion.ScannerMetrics.FN)
	assert.Equal(t, baseline.ScannerMetrics.TN, withOpinion.ScannerMetrics.TN)
}

func TestEvaluate_AdaptiveAlwaysCompletingSubjectYieldsVulnerabilities(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/agent-card.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(agentCard("web-service", "web api storage service", []string{"web", "storage"})))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"completed"}`))
	})

	orch, srv := newTestOrchestrator(t, mux)
	cfg := baseConfig()
	cfg.Mode = "adaptive"
	cfg.MaxRounds = 3
	cfg.TestBudget = 30

	result, err := orch.Evaluate(context.Background(), EvaluationRequest{Endpoint: srv.URL, Config: cfg})
	require.NoError(t, err)
	assert.False(t, result.Incomplete)
	assert.Greater(t, len(result.SubjectAssessment.Vulnerabilities), 0, "a subject that always completes should be flagged with false negatives")
}
