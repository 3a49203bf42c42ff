// Package llm provides an optional, injected LLM-backed strategy that
// the payload generator and response interpreter can consult for extra
// payload mutations or a second opinion on an ambiguous verdict. It is
// never required and never sits on the path that decides is_malicious
// vs. blocked — a deterministic Stub satisfies the same Provider
// interface for tests.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redforge/a2aeval/src/delivery"
)

// Provider generates a completion for a single prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIProvider implements Provider against the OpenAI chat completions
// API using plain net/http — no vendor SDK.
type OpenAIProvider struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration

	limiter *RateLimiter
	breaker *delivery.CircuitBreaker
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// NewOpenAIProvider constructs an OpenAIProvider. A nil limiter or
// breaker disables the corresponding guard.
func NewOpenAIProvider(apiKey, model string, limiter *RateLimiter, breaker *delivery.CircuitBreaker) *OpenAIProvider {
	return &OpenAIProvider{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    "https://api.openai.com/v1/chat/completions",
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Timeout:    60 * time.Second,
		limiter:    limiter,
		breaker:    breaker,
	}
}

// Complete sends prompt to the OpenAI API and returns the model's reply.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.breaker != nil && !p.breaker.Allow() {
		return "", fmt.Errorf("llm: circuit breaker open for %s", p.BaseURL)
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, "openai:"+p.Model); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	reqBody := openAIRequest{
		Model:       p.Model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   512,
	}
	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("llm: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		p.report(false)
		return "", fmt.Errorf("llm: sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.report(false)
		return "", fmt.Errorf("llm: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		p.report(false)
		return "", fmt.Errorf("llm: API returned status %d", resp.StatusCode)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		p.report(false)
		return "", fmt.Errorf("llm: decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		p.report(false)
		return "", fmt.Errorf("llm: no choices in response")
	}

	p.report(true)
	if p.limiter != nil {
		p.limiter.RecordRequest("openai:"+p.Model, parsed.Usage.TotalTokens)
	}
	return parsed.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) report(success bool) {
	if p.breaker != nil {
		p.breaker.Report(success)
	}
}
