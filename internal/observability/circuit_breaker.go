package observability

import (
	"log/slog"
	"sync"
	"time"
)

// CircuitBreakerState represents the state of the circuit breaker
type CircuitBreakerState int

const (
	// StateClosed lets every call through.
	StateClosed CircuitBreakerState = iota
	// StateOpen rejects calls until openFor has elapsed since the last failure.
	StateOpen
	// StateHalfOpen lets a single probe through; its result closes or reopens the circuit.
	StateHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker opens after maxFailures consecutive failures. It never
// retries; a rejected call fails immediately.
type CircuitBreaker struct {
	mu sync.Mutex

	name        string
	maxFailures int
	openFor     time.Duration
	now         func() time.Time

	state           CircuitBreakerState
	failures        int
	probing         bool
	lastFailureTime time.Time
}

// NewCircuitBreaker creates a breaker; maxFailures <= 0 disables it.
func NewCircuitBreaker(name string, maxFailures int, openFor time.Duration) *CircuitBreaker {
	return &CircuitBreaker{name: name, maxFailures: maxFailures, openFor: openFor, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (cb *CircuitBreaker) WithClock(now func() time.Time) *CircuitBreaker {
	cb.now = now
	return cb
}

// Allow reports whether a call may proceed.
func (cb *CircuitBreaker) Allow() bool {
	if cb == nil || cb.maxFailures <= 0 {
		return true
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.openFor {
			return false
		}
		cb.state = StateHalfOpen
		cb.probing = true
		slog.Info("circuit breaker half-open", slog.String("breaker", cb.name))
		return true
	case StateHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return true
	}
}

// RecordSuccess closes the circuit and resets the failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	if cb == nil || cb.maxFailures <= 0 {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state != StateClosed {
		slog.Info("circuit breaker closed", slog.String("breaker", cb.name))
	}
	cb.state = StateClosed
	cb.failures = 0
	cb.probing = false
}

// RecordFailure counts a failure and opens the circuit at the threshold or
// when a half-open probe fails.
func (cb *CircuitBreaker) RecordFailure() {
	if cb == nil || cb.maxFailures <= 0 {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailureTime = cb.now()
	cb.probing = false
	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		if cb.state != StateOpen {
			slog.Warn("circuit breaker opened",
				slog.String("breaker", cb.name),
				slog.Int("failures", cb.failures),
				slog.Duration("open_for", cb.openFor))
		}
		cb.state = StateOpen
	}
}

// State returns the current state without transitioning.
func (cb *CircuitBreaker) State() CircuitBreakerState {
	if cb == nil {
		return StateClosed
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
