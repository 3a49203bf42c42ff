package delivery

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redforge/a2aeval/src/payloads"
	"github.com/redforge/a2aeval/src/profile"
	"github.com/rs/zerolog/log"
)

// errCircuitOpen is the transport error recorded when a delivery is
// skipped because the per-subject circuit breaker is open.
var errCircuitOpen = errors.New("delivery: circuit breaker open for subject endpoint")

// DeliveryResult pairs an AttackPayload with the raw response its
// delivery produced, the unit the response interpreter consumes.
type DeliveryResult struct {
	Payload  payloads.AttackPayload
	Response RawResponse
	Cached   bool
}

// Adapter implements the deliver(endpoint, payload) -> response
// operation: rate-limited, retried, and memoized against a run-scoped
// cache, with bounded concurrency for batch delivery.
type Adapter struct {
	transport   *Transport
	rateLimiter *RateLimiter
	cache       Cache
	concurrency int
	breaker     *CircuitBreaker
}

// UseCircuitBreaker attaches a per-adapter circuit breaker so repeated
// failed deliveries (transport errors or non-2xx responses) stop
// generating further
// delivery attempts for the rest of the run. Optional: an Adapter with
// no breaker attached always allows delivery.
func (a *Adapter) UseCircuitBreaker(cb *CircuitBreaker) {
	a.breaker = cb
}

// NewAdapter constructs an Adapter. A nil cache defaults to NoopCache.
// concurrency <= 0 defaults to 4, a conservative default that still lets
// an evaluation of dozens of techniques complete promptly without
// overwhelming the subject.
func NewAdapter(transport *Transport, rateLimiter *RateLimiter, cache Cache, concurrency int) *Adapter {
	if cache == nil {
		cache = NoopCache{}
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Adapter{
		transport:   transport,
		rateLimiter: rateLimiter,
		cache:       cache,
		concurrency: concurrency,
	}
}

// Deliver sends a single payload to endpoint, serving from cache when an
// identical (endpoint, content) pair has already been delivered this
// run, and selecting the subject-appropriate envelope-formatting
// strategy from subjectType. A generic/unknown subjectType that
// gets a non-2xx or transport-error response on the first (command-
// style) attempt is retried once in conversational style.
func (a *Adapter) Deliver(ctx context.Context, endpoint string, subjectType profile.SubjectType, payload payloads.AttackPayload) DeliveryResult {
	content := FormatPayload(subjectType, payload)

	if cached, ok := a.cache.Get(ctx, endpoint, content); ok {
		return DeliveryResult{Payload: payload, Response: cached, Cached: true}
	}

	resp := a.send(ctx, endpoint, content)

	if subjectType == profile.SubjectGeneric && needsConversationalFallback(resp) {
		fallbackContent := conversationalFormat(payload)
		resp = a.send(ctx, endpoint, fallbackContent)
		content = fallbackContent
	}

	if resp.Err == nil {
		a.cache.Put(ctx, endpoint, content, resp)
	} else {
		log.Error().Err(resp.Err).Str("attack_id", payload.AttackID).Msg("delivery transport error")
	}
	return DeliveryResult{Payload: payload, Response: resp}
}

func needsConversationalFallback(resp RawResponse) bool {
	if resp.Err != nil {
		return true
	}
	return resp.StatusCode < 200 || resp.StatusCode >= 300
}

func (a *Adapter) send(ctx context.Context, endpoint, content string) RawResponse {
	if a.breaker != nil && !a.breaker.Allow() {
		return RawResponse{Err: errCircuitOpen}
	}
	if err := a.rateLimiter.Wait(ctx); err != nil {
		return RawResponse{Err: err}
	}
	target := strings.TrimRight(endpoint, "/") + "/"
	resp, err := a.transport.Send(ctx, target, NewEnvelope(content))
	if a.breaker != nil {
		a.breaker.Report(err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300)
	}
	if err != nil {
		return RawResponse{Err: err}
	}
	return resp
}

// DeliverBatch delivers every payload to endpoint with bounded
// concurrency (a.concurrency at a time), preserving input order in the
// returned slice.
func (a *Adapter) DeliverBatch(ctx context.Context, endpoint string, subjectType profile.SubjectType, batch []payloads.AttackPayload) []DeliveryResult {
	return a.DeliverBatchWithOptions(ctx, endpoint, subjectType, batch, 0, 0)
}

// DeliverBatchWithOptions behaves like DeliverBatch but lets the caller
// override the in-flight concurrency and apply a per-delivery timeout on
// top of ctx's own deadline — both per-evaluation settings, since a
// single Adapter is shared across evaluations with differing
// configuration. concurrency <= 0 falls back to a.concurrency;
// perRequestTimeout <= 0 disables the per-delivery timeout, leaving ctx's
// deadline as the only bound.
func (a *Adapter) DeliverBatchWithOptions(ctx context.Context, endpoint string, subjectType profile.SubjectType, batch []payloads.AttackPayload, concurrency int, perRequestTimeout time.Duration) []DeliveryResult {
	if concurrency <= 0 {
		concurrency = a.concurrency
	}

	results := make([]DeliveryResult, len(batch))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, p := range batch {
		wg.Add(1)
		go func(i int, p payloads.AttackPayload) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			deliverCtx := ctx
			if perRequestTimeout > 0 {
				var cancel context.CancelFunc
				deliverCtx, cancel = context.WithTimeout(ctx, perRequestTimeout)
				defer cancel()
			}
			results[i] = a.Deliver(deliverCtx, endpoint, subjectType, p)
		}(i, p)
	}

	wg.Wait()
	return results
}
