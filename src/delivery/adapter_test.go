package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/redforge/a2aeval/src/payloads"
	"github.com/redforge/a2aeval/src/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) (*Adapter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCache(client, time.Minute)
	transport := NewTransport(srv.Client(), RetryConfig{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, BackoffMultiplier: 1})
	limiter := NewRateLimiter(0, 0)
	return NewAdapter(transport, limiter, cache, 2), srv
}

func TestDeliver_SendsEnvelopeAndCachesResult(t *testing.T) {
	var hits int32
	adapter, srv := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"completed"}`))
	})

	payload := payloads.AttackPayload{AttackID: "a1", TechniqueID: "T1001", Content: "hello", IsMalicious: true}

	first := adapter.Deliver(context.Background(), srv.URL, profile.SubjectConversational, payload)
	require.NoError(t, first.Response.Err)
	assert.Equal(t, http.StatusOK, first.Response.StatusCode)
	assert.False(t, first.Cached)

	second := adapter.Deliver(context.Background(), srv.URL, profile.SubjectConversational, payload)
	assert.True(t, second.Cached)
	assert.Equal(t, http.StatusOK, second.Response.StatusCode)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDeliverBatch_PreservesOrder(t *testing.T) {
	adapter, srv := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	_ = srv

	batch := []payloads.AttackPayload{
		{AttackID: "1", Content: "one"},
		{AttackID: "2", Content: "two"},
		{AttackID: "3", Content: "three"},
	}

	results := adapter.DeliverBatch(context.Background(), srv.URL, profile.SubjectConversational, batch)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, batch[i].AttackID, r.Payload.AttackID)
	}
}

func TestDeliverBatchWithOptions_PerRequestTimeoutCancelsSlowDelivery(t *testing.T) {
	adapter, srv := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	batch := []payloads.AttackPayload{{AttackID: "slow", Content: "one"}}
	results := adapter.DeliverBatchWithOptions(context.Background(), srv.URL, profile.SubjectConversational, batch, 1, 5*time.Millisecond)
	require.Len(t, results, 1)
	require.Error(t, results[0].Response.Err)
}

func TestDeliverBatchWithOptions_ZeroConcurrencyFallsBackToAdapterDefault(t *testing.T) {
	adapter, srv := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	batch := []payloads.AttackPayload{
		{AttackID: "1", Content: "one"},
		{AttackID: "2", Content: "two"},
	}
	results := adapter.DeliverBatchWithOptions(context.Background(), srv.URL, profile.SubjectConversational, batch, 0, 0)
	require.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, batch[i].AttackID, r.Payload.AttackID)
		assert.NoError(t, r.Response.Err)
	}
}

func TestTransport_DoesNotRetryHTTPStatus(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	transport := NewTransport(srv.Client(), RetryConfig{
		MaxRetries:        1,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        time.Millisecond,
		BackoffMultiplier: 1,
	})

	resp, err := transport.Send(context.Background(), srv.URL, NewEnvelope("x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestTransport_RetriesConnectionErrorOnce(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n < 2 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	transport := NewTransport(srv.Client(), RetryConfig{
		MaxRetries:        1,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        time.Millisecond,
		BackoffMultiplier: 1,
	})

	resp, err := transport.Send(context.Background(), srv.URL, NewEnvelope("x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestDeliver_GenericSubjectFallsBackToConversationalOnFailure(t *testing.T) {
	var bodies []string
	adapter, srv := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		bodies = append(bodies, string(body))
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	payload := payloads.AttackPayload{AttackID: "g1", TechniqueID: "T1001", Content: "probe text"}
	result := adapter.Deliver(context.Background(), srv.URL, profile.SubjectGeneric, payload)

	require.Len(t, bodies, 2)
	assert.Contains(t, bodies[0], `\"command\"`)
	assert.Equal(t, http.StatusOK, result.Response.StatusCode)
}

func TestFormatPayload_StrategyBySubjectType(t *testing.T) {
	payload := payloads.AttackPayload{AttackID: "s1", TechniqueID: "T1001", Content: "do the thing"}

	assert.Equal(t, "do the thing", FormatPayload(profile.SubjectConversational, payload))
	assert.Contains(t, FormatPayload(profile.SubjectCommandDriven, payload), `"command":"do the thing"`)
	assert.Contains(t, FormatPayload(profile.SubjectWeb, payload), `"method":"POST"`)
	assert.Contains(t, FormatPayload(profile.SubjectStorage, payload), `"query":"do the thing"`)
}

func TestRateLimiter_DisabledAllowsImmediateDelivery(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestCircuitBreaker_OpensAfterConsecutiveFailuresAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, ResetTimeout: time.Millisecond, HalfOpenSuccessThreshold: 1})

	assert.True(t, cb.Allow())
	cb.Report(false)
	assert.True(t, cb.Allow())
	cb.Report(false)
	assert.False(t, cb.Allow(), "two consecutive failures should open the breaker")

	time.Sleep(5 * time.Millisecond)
	assert.True(t, cb.Allow(), "past the reset timeout the breaker should go half-open and allow a probe")
	cb.Report(true)
	assert.False(t, cb.Open())
}

func TestAdapter_CircuitBreakerStopsDeliveryAfterRepeatedFailedDeliveries(t *testing.T) {
	adapter, srv := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	breaker := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: time.Hour, HalfOpenSuccessThreshold: 1})
	adapter.UseCircuitBreaker(breaker)

	payload := payloads.AttackPayload{AttackID: "cb1", TechniqueID: "T1001", Content: "hello"}
	first := adapter.Deliver(context.Background(), srv.URL, profile.SubjectConversational, payload)
	assert.Equal(t, http.StatusInternalServerError, first.Response.StatusCode)

	second := adapter.Deliver(context.Background(), srv.URL, profile.SubjectGeneric, payload)
	require.Error(t, second.Response.Err)
	assert.ErrorIs(t, second.Response.Err, errCircuitOpen)
}
