package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// StateChangeFunc is called outside the breaker lock after every transition.
type StateChangeFunc func(from, to CircuitState)

// CircuitBreaker opens after FailureThreshold consecutive failures, rejects
// calls for OpenTimeout, then lets HalfOpenMaxReq trial requests through. The circuit
// closes once every trial request succeeds; any failed one reopens it.
type CircuitBreaker struct {
	mu sync.Mutex

	cfg CircuitBreakerConfig

	state               CircuitState
	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
	halfOpenSuccesses   int
	onChange            StateChangeFunc
	now                 func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   NormalizeCircuitBreakerConfig(cfg),
		state: CircuitStateClosed,
		now:   time.Now,
	}
}

// OnStateChange registers fn for transitions. A nil fn removes the hook.
func (b *CircuitBreaker) OnStateChange(fn StateChangeFunc) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Allow reports whether a call may proceed. Every nil return must be paired
// with RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	var err error
	b.mutate(func() {
		if b.state == CircuitStateOpen {
			if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
				err = ErrCircuitOpen
				return
			}
			b.toHalfOpen()
		}

		if b.state == CircuitStateHalfOpen {
			if b.halfOpenInFlight >= b.cfg.HalfOpenMaxReq {
				err = ErrCircuitOpen
				return
			}
			b.halfOpenInFlight++
		}
	})
	return err
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mutate(func() {
		switch b.state {
		case CircuitStateClosed:
			b.consecutiveFailures = 0
		case CircuitStateHalfOpen:
			if b.halfOpenInFlight > 0 {
				b.halfOpenInFlight--
			}
			b.halfOpenSuccesses++
			if b.halfOpenSuccesses >= b.cfg.HalfOpenMaxReq && b.halfOpenInFlight == 0 {
				b.toClosed()
			}
		}
	})
}

func (b *CircuitBreaker) RecordFailure() {
	b.mutate(func() {
		switch b.state {
		case CircuitStateClosed:
			b.consecutiveFailures++
			if b.consecutiveFailures >= b.cfg.FailureThreshold {
				b.toOpen()
			}
		case CircuitStateHalfOpen:
			b.toOpen()
		case CircuitStateOpen:
			b.openedAt = b.now()
		}
	})
}

// State reports half-open for an open circuit whose timeout has elapsed,
// even before the next Allow performs the transition.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) mutate(fn func()) {
	b.mu.Lock()
	from := b.state
	fn()
	to := b.state
	hook := b.onChange
	b.mu.Unlock()

	if hook != nil && from != to {
		hook(from, to)
	}
}

func (b *CircuitBreaker) toClosed() {
	b.state = CircuitStateClosed
	b.consecutiveFailures = 0
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
	b.openedAt = time.Time{}
}

func (b *CircuitBreaker) toOpen() {
	b.state = CircuitStateOpen
	b.openedAt = b.now()
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
}

func (b *CircuitBreaker) toHalfOpen() {
	b.state = CircuitStateHalfOpen
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
}
