package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/redforge/a2aeval/src/api"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serveAddr        string
	serveRedisAddr   string
	serveConcurrency int
	serveResultsDir  string
	serveLLMAPIKey   string
	serveLLMModel    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the task-protocol HTTP API server",
	RunE:  runServe,
}

func init() {
	cfg := loadConfigOrDefault()
	serveCmd.Flags().StringVar(&serveAddr, "addr", cfg.Server.ListenAddr, "listen address")
	serveCmd.Flags().StringVar(&serveRedisAddr, "redis-addr", cfg.Redis.Addr, "delivery cache backend (empty disables caching)")
	serveCmd.Flags().IntVar(&serveConcurrency, "concurrency", cfg.Evaluation.Parallelism, "bounded delivery concurrency")
	serveCmd.Flags().StringVar(&serveResultsDir, "results-dir", "", "persist eval_{id}.json per completed task under this directory (empty disables persistence)")
	serveCmd.Flags().StringVar(&serveLLMAPIKey, "llm-api-key", "", "OpenAI API key enabling the optional LLM-backed mutation/second-opinion strategy for every task (empty disables it)")
	serveCmd.Flags().StringVar(&serveLLMModel, "llm-model", "gpt-4o-mini", "OpenAI model used by the optional LLM-backed strategy")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	orch := buildOrchestrator(serveRedisAddr, serveConcurrency)
	if serveLLMAPIKey != "" {
		mutation, opinion := buildLLMStrategy(serveLLMAPIKey, serveLLMModel)
		orch.UseLLMStrategy(mutation, opinion)
	}
	srv := api.NewServer(serveAddr, orch, serveResultsDir)

	errCh := make(chan error, 1)
	go func() {
		color.Green("a2aeval API listening on %s", serveAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-sigCh:
		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
