package llmclient

import (
	"sync"
	"time"
)

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

func (s circuitState) String() string {
	switch s {
	case circuitClosed:
		return "closed"
	case circuitOpen:
		return "open"
	case circuitHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// circuitBreaker rejects requests after failureThreshold consecutive
// failures. Once timeout has passed since the last failure it lets trials
// through; successThreshold trial successes close it, one trial failure
// opens it again.
type circuitBreaker struct {
	failureThreshold int
	successThreshold int
	timeout          time.Duration
	now              func() time.Time

	mu       sync.Mutex
	state    circuitState
	failures int
	trials   int
	openedAt time.Time
}

func newCircuitBreaker(failureThreshold, successThreshold int, timeout time.Duration) *circuitBreaker {
	return &circuitBreaker{
		failureThreshold: max(failureThreshold, 1),
		successThreshold: max(successThreshold, 1),
		timeout:          timeout,
		now:              time.Now,
	}
}

// moveTo switches state and resets the counters. Callers hold mu.
func (cb *circuitBreaker) moveTo(s circuitState) {
	cb.state = s
	cb.failures = 0
	cb.trials = 0
	if s == circuitOpen {
		cb.openedAt = cb.now()
	}
}

// Allow reports whether a request may be sent now.
func (cb *circuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != circuitOpen {
		return true
	}
	if cb.now().Sub(cb.openedAt) <= cb.timeout {
		return false
	}
	cb.moveTo(circuitHalfOpen)
	return true
}

// RecordSuccess reports whether the success closed the circuit.
func (cb *circuitBreaker) RecordSuccess() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != circuitHalfOpen {
		cb.failures = 0
		return false
	}
	cb.trials++
	if cb.trials < cb.successThreshold {
		return false
	}
	cb.moveTo(circuitClosed)
	return true
}

// RecordFailure reports whether the failure opened the circuit.
func (cb *circuitBreaker) RecordFailure() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitHalfOpen:
		cb.moveTo(circuitOpen)
		return true
	case circuitOpen:
		cb.openedAt = cb.now()
		return false
	}
	cb.failures++
	if cb.failures < cb.failureThreshold {
		return false
	}
	cb.moveTo(circuitOpen)
	return true
}

// State returns the current state name.
func (cb *circuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state.String()
}
