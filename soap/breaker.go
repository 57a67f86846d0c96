package soap

import (
	"errors"
	"sync"
	"time"
)

// CircuitState represents the state of the circuit breaker.
type CircuitState int

const (
	// StateClosed means calls pass.
	StateClosed CircuitState = iota
	// StateOpen means calls fail fast.
	StateOpen
	// StateHalfOpen means one probing call passes.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpen:
		return "Open"
	case StateHalfOpen:
		return "Half-Open"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen is returned when the circuit breaker is open.
var ErrCircuitOpen = errors.New("soap: circuit breaker is open")

// CircuitBreakerPolicy configures a CircuitBreaker.
type CircuitBreakerPolicy struct {
	Enabled bool

	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold int

	// ResetTimeout is how long the circuit stays open before probing.
	ResetTimeout time.Duration

	// IsFailure decides which errors count. Nil counts every error.
	IsFailure func(error) bool

	// OnStateChange is called asynchronously on every transition.
	OnStateChange func(from, to CircuitState)
}

// DefaultCircuitBreakerPolicy opens after 5 failures for 30 seconds.
func DefaultCircuitBreakerPolicy() *CircuitBreakerPolicy {
	return &CircuitBreakerPolicy{
		Enabled:          true,
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
	}
}

// CircuitBreaker implements the Circuit Breaker pattern.
type CircuitBreaker struct {
	mu sync.Mutex

	state       CircuitState
	failures    int
	lastFailure time.Time

	threshold     int
	timeout       time.Duration
	enabled       bool
	isFailure     func(error) bool
	clock         Clock
	onStateChange func(from, to CircuitState)
}

// NewCircuitBreaker creates a new circuit breaker with the given policy.
// A nil policy disables the breaker.
func NewCircuitBreaker(policy *CircuitBreakerPolicy) *CircuitBreaker {
	if policy == nil {
		return &CircuitBreaker{enabled: false, clock: realClock{}}
	}
	threshold := policy.FailureThreshold
	if threshold < 1 {
		threshold = 1
	}
	return &CircuitBreaker{
		state:         StateClosed,
		threshold:     threshold,
		timeout:       policy.ResetTimeout,
		enabled:       policy.Enabled,
		isFailure:     policy.IsFailure,
		clock:         realClock{},
		onStateChange: policy.OnStateChange,
	}
}

// Execute runs fn within the circuit breaker.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.enabled {
		return fn()
	}
	if err := cb.checkState(); err != nil {
		return err
	}
	err := fn()
	cb.updateState(err)
	return err
}

func (cb *CircuitBreaker) checkState() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.clock.Now().Sub(cb.lastFailure) > cb.timeout {
			cb.transitionToLocked(StateHalfOpen)
			return nil
		}
		return ErrCircuitOpen
	}
	return nil
}

// transitionToLocked changes state and fires the callback.
// Must be called with cb.mu held.
func (cb *CircuitBreaker) transitionToLocked(newState CircuitState) {
	if cb.state == newState {
		return
	}
	oldState := cb.state
	cb.state = newState
	if cb.onStateChange != nil {
		go cb.onStateChange(oldState, newState)
	}
}

func (cb *CircuitBreaker) updateState(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	// A server that answers, even with a fault, is healthy.
	if err == nil || errors.Is(err, ErrCircuitOpen) || (cb.isFailure != nil && !cb.isFailure(err)) {
		if cb.state == StateHalfOpen {
			cb.transitionToLocked(StateClosed)
		}
		cb.failures = 0
		return
	}

	cb.failures++
	cb.lastFailure = cb.clock.Now()

	if cb.state == StateHalfOpen {
		cb.transitionToLocked(StateOpen)
		return
	}
	if cb.state == StateClosed && cb.failures >= cb.threshold {
		cb.transitionToLocked(StateOpen)
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
