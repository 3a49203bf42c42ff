package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_UnregisteredProviderNeverBlocks(t *testing.T) {
	r := NewRateLimiter()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Wait(ctx, "openai:gpt-4o-mini"))
}

func TestRateLimiter_RequestCeilingBlocksUntilContextDone(t *testing.T) {
	r := NewRateLimiter()
	r.RegisterProvider("openai:gpt-4o-mini", 1, 0)
	require.NoError(t, r.Wait(context.Background(), "openai:gpt-4o-mini"))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err := r.Wait(ctx, "openai:gpt-4o-mini")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_TokenCeilingBlocksAfterRecordRequest(t *testing.T) {
	r := NewRateLimiter()
	r.RegisterProvider("openai:gpt-4o-mini", 0, 100)
	require.NoError(t, r.Wait(context.Background(), "openai:gpt-4o-mini"))
	r.RecordRequest("openai:gpt-4o-mini", 100)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err := r.Wait(ctx, "openai:gpt-4o-mini")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_UsageReportsRequestsAndTokens(t *testing.T) {
	r := NewRateLimiter()
	r.RegisterProvider("openai:gpt-4o-mini", 10, 1000)
	require.NoError(t, r.Wait(context.Background(), "openai:gpt-4o-mini"))
	r.RecordRequest("openai:gpt-4o-mini", 42)

	requests, tokens := r.Usage("openai:gpt-4o-mini")
	assert.Equal(t, 1, requests)
	assert.Equal(t, 42, tokens)
}

func TestRateLimiter_UsageOfUnregisteredProviderIsZero(t *testing.T) {
	r := NewRateLimiter()
	requests, tokens := r.Usage("unknown")
	assert.Equal(t, 0, requests)
	assert.Equal(t, 0, tokens)
}
