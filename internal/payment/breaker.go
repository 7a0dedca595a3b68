package payment

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// CircuitBreaker opens after maxFailures consecutive failures and lets a single
// probe through once timeout has elapsed.
type CircuitBreaker struct {
	maxFailures int
	timeout     time.Duration
	now         func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	openedAt    time.Time
	probeActive bool
}

func NewCircuitBreaker(maxFailures int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{maxFailures: maxFailures, timeout: timeout, now: time.Now}
}

// Execute runs fn unless the breaker is open. Errors for which countable
// returns false do not move the breaker.
func (cb *CircuitBreaker) Execute(fn func() error, countable func(error) bool) error {
	if err := cb.before(); err != nil {
		return err
	}
	err := fn()
	cb.after(err != nil && (countable == nil || countable(err)))
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.timeout {
			return ErrCircuitOpen
		}
		cb.state = StateHalfOpen
		cb.probeActive = true
	case StateHalfOpen:
		if cb.probeActive {
			return ErrCircuitOpen
		}
		cb.probeActive = true
	}
	return nil
}

func (cb *CircuitBreaker) after(failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probeActive = false
	if !failed {
		cb.state = StateClosed
		cb.failures = 0
		return
	}
	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		cb.state = StateOpen
		cb.openedAt = cb.now()
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
