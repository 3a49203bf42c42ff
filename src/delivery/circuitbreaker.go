package delivery

import (
	"sync"
	"time"
)

// breakerState is one of the three circuit-breaker states guarding a
// subject endpoint against continued delivery after repeated transport
// failures.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// CircuitBreakerConfig tunes the failure/recovery thresholds.
type CircuitBreakerConfig struct {
	FailureThreshold         int
	ResetTimeout             time.Duration
	HalfOpenSuccessThreshold int
}

// DefaultCircuitBreakerConfig returns conservative defaults: five
// consecutive failed deliveries (transport error or non-2xx status)
// opens the circuit, a minute before
// retrying, two consecutive successes to fully close it again.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold:         5,
		ResetTimeout:             60 * time.Second,
		HalfOpenSuccessThreshold: 2,
	}
}

// CircuitBreaker stops delivering to a subject that is failing
// consistently, instead of retrying every payload against a dead
// endpoint for the remainder of the run.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu                   sync.Mutex
	state                breakerState
	consecutiveFailures  int
	consecutiveSuccesses int
	lastStateChange      time.Time
}

// NewCircuitBreaker constructs a closed CircuitBreaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultCircuitBreakerConfig().FailureThreshold
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = DefaultCircuitBreakerConfig().ResetTimeout
	}
	if cfg.HalfOpenSuccessThreshold <= 0 {
		cfg.HalfOpenSuccessThreshold = DefaultCircuitBreakerConfig().HalfOpenSuccessThreshold
	}
	return &CircuitBreaker{cfg: cfg, state: breakerClosed, lastStateChange: time.Now()}
}

// Allow reports whether a delivery attempt should proceed. Calling Allow
// on an open breaker past its reset timeout transitions it to half-open
// and allows exactly the probing attempts through.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case breakerClosed, breakerHalfOpen:
		return true
	case breakerOpen:
		if time.Since(cb.lastStateChange) > cb.cfg.ResetTimeout {
			cb.state = breakerHalfOpen
			cb.lastStateChange = time.Now()
			cb.consecutiveSuccesses = 0
			return true
		}
		return false
	default:
		return false
	}
}

// Report records the outcome of a delivery attempt and updates state.
func (cb *CircuitBreaker) Report(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if success {
		cb.consecutiveFailures = 0
		if cb.state == breakerHalfOpen {
			cb.consecutiveSuccesses++
			if cb.consecutiveSuccesses >= cb.cfg.HalfOpenSuccessThreshold {
				cb.state = breakerClosed
				cb.lastStateChange = time.Now()
			}
		}
		return
	}

	cb.consecutiveSuccesses = 0
	cb.consecutiveFailures++
	if (cb.state == breakerClosed && cb.consecutiveFailures >= cb.cfg.FailureThreshold) || cb.state == breakerHalfOpen {
		cb.state = breakerOpen
		cb.lastStateChange = time.Now()
	}
}

// Open reports whether the breaker is currently refusing requests
// outright (ignoring the reset-timeout half-open transition check that
// Allow performs).
func (cb *CircuitBreaker) Open() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state == breakerOpen
}
