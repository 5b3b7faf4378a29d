package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all requests.
	StateOpen
	// StateHalfOpen means the circuit is probing whether the operation recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
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

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long the circuit stays open before a trial call
	// is allowed.
	// Default: 30s
	ResetTimeout time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)

	// IsFailure determines whether an error counts toward MaxFailures.
	// Default: every non-nil error except cancellation.
	IsFailure func(err error) bool
}

// CircuitBreaker stops invoking a failing operation once MaxFailures
// consecutive failures accumulate, rejecting calls with ErrCircuitOpen until
// ResetTimeout elapses. The next call after the timeout is a half-open
// trial; callers arriving while the trial is in flight fail fast with
// ErrCircuitOpen rather than queueing behind it.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	lastErr     error
	trialActive bool
}

// NewCircuitBreaker creates a new circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool {
			return err != nil &&
				!errors.Is(err, context.Canceled) &&
				!errors.Is(err, context.DeadlineExceeded)
		}
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs the operation through the circuit breaker. While open it
// returns ErrCircuitOpen without invoking the operation; the state check
// happens before any dispatch, so no call can slip through an open circuit.
// The operation's own error is returned unwrapped.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterRequest(err)
	return err
}

// State returns the current circuit state, applying any due open-to-half-open
// transition first.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset forces the breaker back to closed and clears the failure counter.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.lastErr = nil
	cb.trialActive = false

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, StateClosed)
	}
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.trialActive {
			return ErrCircuitOpen
		}
		cb.trialActive = true
	}

	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	isFailure := cb.config.IsFailure(err)
	oldState := cb.state

	switch cb.state {
	case StateClosed:
		if isFailure {
			cb.failures++
			cb.lastFailure = time.Now()
			cb.lastErr = err
			if cb.failures >= cb.config.MaxFailures {
				cb.state = StateOpen
			}
		} else if err == nil {
			cb.failures = 0
			cb.lastErr = nil
		}

	case StateHalfOpen:
		cb.trialActive = false
		if isFailure {
			// Trial failed: reopen and restart the timeout.
			cb.lastFailure = time.Now()
			cb.lastErr = err
			cb.state = StateOpen
		} else if err == nil {
			cb.state = StateClosed
			cb.failures = 0
			cb.lastErr = nil
		}
	}

	if oldState != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, cb.state)
	}
}

func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.lastFailure) >= cb.config.ResetTimeout {
		cb.state = StateHalfOpen
		cb.trialActive = false
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}

// Metrics returns a snapshot of the breaker state for diagnostics.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:       cb.currentStateLocked(),
		Failures:    cb.failures,
		LastFailure: cb.lastFailure,
		LastError:   cb.lastErr,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State       State
	Failures    int
	LastFailure time.Time
	LastError   error
}

// NewBreakerFunc binds the operation to a freshly constructed breaker with
// the given threshold and reset timeout, returning the guarded operation and
// the breaker for diagnostics.
func NewBreakerFunc(op func(context.Context) error, maxFailures int, resetTimeout time.Duration) (func(context.Context) error, *CircuitBreaker) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  maxFailures,
		ResetTimeout: resetTimeout,
	})
	return func(ctx context.Context) error {
		return cb.Execute(ctx, op)
	}, cb
}
