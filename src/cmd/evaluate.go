package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/redforge/a2aeval/src/catalog"
	"github.com/redforge/a2aeval/src/delivery"
	"github.com/redforge/a2aeval/src/interpreter"
	"github.com/redforge/a2aeval/src/llm"
	"github.com/redforge/a2aeval/src/orchestrator"
	"github.com/redforge/a2aeval/src/payloads"
	"github.com/redforge/a2aeval/src/profile"
	"github.com/redforge/a2aeval/src/reporting"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	evalEndpoint    string
	evalMode        string
	evalBudget      int
	evalMaxRounds   int
	evalOutput      string
	evalRedisAddr   string
	evalConcurrency int
	evalResultsDir  string
	evalLLMAPIKey   string
	evalLLMModel    string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run a security evaluation against an A2A subject",
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evalEndpoint, "endpoint", "", "subject base URL (required)")
	evaluateCmd.Flags().StringVar(&evalMode, "mode", "adaptive", "fixed or adaptive")
	evaluateCmd.Flags().IntVar(&evalBudget, "budget", 100, "total test budget")
	evaluateCmd.Flags().IntVar(&evalMaxRounds, "max-rounds", 5, "maximum scheduling rounds")
	evaluateCmd.Flags().StringVar(&evalOutput, "output", "", "write the JSON result to this path instead of stdout")
	evaluateCmd.Flags().StringVar(&evalRedisAddr, "redis-addr", "", "delivery cache backend (empty disables caching)")
	evaluateCmd.Flags().IntVar(&evalConcurrency, "concurrency", 8, "bounded delivery concurrency")
	evaluateCmd.Flags().StringVar(&evalResultsDir, "results-dir", "", "also persist eval_{id}.json under this directory (empty disables persistence)")
	evaluateCmd.Flags().StringVar(&evalLLMAPIKey, "llm-api-key", "", "OpenAI API key enabling the optional LLM-backed mutation/second-opinion strategy (empty disables it)")
	evaluateCmd.Flags().StringVar(&evalLLMModel, "llm-model", "gpt-4o-mini", "OpenAI model used by the optional LLM-backed strategy")
	evaluateCmd.MarkFlagRequired("endpoint")
	rootCmd.AddCommand(evaluateCmd)
}

var evaluateBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := orchestrator.DefaultRequestConfig()
	cfg.Mode = evalMode
	cfg.TestBudget = evalBudget
	cfg.MaxRounds = evalMaxRounds

	req := orchestrator.EvaluationRequest{Endpoint: evalEndpoint, Config: cfg}
	if err := req.Validate(); err != nil {
		return err
	}

	orch := buildOrchestrator(evalRedisAddr, evalConcurrency)
	if evalLLMAPIKey != "" {
		mutation, opinion := buildLLMStrategy(evalLLMAPIKey, evalLLMModel)
		orch.UseLLMStrategy(mutation, opinion)
	}

	evalID := uuid.NewString()

	// A spinner is noise (and corrupts piped/redirected output) when
	// stdout isn't an interactive terminal, so only run it when it is.
	var done, stopped chan struct{}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription(evaluateBarStyle.Render("evaluating "+evalEndpoint)),
			progressbar.OptionSpinnerType(14),
		)
		done = make(chan struct{})
		stopped = make(chan struct{})
		go func() {
			defer close(stopped)
			for {
				select {
				case <-done:
					bar.Finish()
					fmt.Println()
					return
				case <-time.After(200 * time.Millisecond):
					bar.Add(1)
				}
			}
		}()
	}

	result, err := orch.Evaluate(context.Background(), req)
	if done != nil {
		close(done)
		<-stopped
	}
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	if evalResultsDir != "" {
		path, err := reporting.NewWriter(false, nil).WritePersisted(result, evalResultsDir, evalID)
		if err != nil {
			return fmt.Errorf("evaluate: persisting result: %w", err)
		}
		fmt.Fprintf(os.Stderr, "persisted result to %s\n", path)
	}

	if evalOutput != "" {
		return reporting.NewWriter(false, nil).Write(result, evalOutput)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// buildOrchestrator wires the full evaluation component chain with its
// production collaborators: a real HTTP transport, an optional Redis
// delivery cache, and one circuit breaker shared by every delivery the
// adapter makes.
func buildOrchestrator(redisAddr string, concurrency int) *orchestrator.Orchestrator {
	cat := catalog.Builtin()
	resolver := profile.NewResolver(nil)
	generator := payloads.NewGenerator()
	interp := interpreter.NewInterpreter(interpreter.DefaultDecisionFields)

	transport := delivery.NewTransport(&http.Client{Timeout: 30 * time.Second}, delivery.DefaultRetryConfig())
	limiter := delivery.NewRateLimiter(10, 20)

	var cache delivery.Cache = delivery.NoopCache{}
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		cache = delivery.NewRedisCache(client, time.Hour)
	}
	adapter := delivery.NewAdapter(transport, limiter, cache, concurrency)
	adapter.UseCircuitBreaker(delivery.NewCircuitBreaker(delivery.DefaultCircuitBreakerConfig()))

	return orchestrator.NewOrchestrator(cat, resolver, generator, adapter, interp)
}

// buildLLMStrategy wires a real OpenAIProvider, guarded by its own rate
// limiter and circuit breaker, into both optional LLM strategy slots.
func buildLLMStrategy(apiKey, model string) (payloads.MutationSource, interpreter.SecondOpinion) {
	limiter := llm.NewRateLimiter()
	limiter.RegisterProvider("openai:"+model, 60, 90000)
	breaker := delivery.NewCircuitBreaker(delivery.DefaultCircuitBreakerConfig())

	provider := llm.NewOpenAIProvider(apiKey, model, limiter, breaker)
	return llm.NewMutator(provider), llm.NewOpinion(provider)
}
