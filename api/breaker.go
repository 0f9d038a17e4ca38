package api

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned without contacting the API while the breaker is
// open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker opens after more than maxFailures failures inside window,
// lets a single trial call through after timeout and closes again on its
// success. Other calls are rejected while the trial is running.
type CircuitBreaker struct {
	maxFailures     int
	window          time.Duration
	timeout         time.Duration
	failures        []time.Time
	lastFailureTime time.Time
	state           State
	trialInFlight   bool
	now             func() time.Time
	mu              sync.Mutex
}

func NewCircuitBreaker(maxFailures int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures: maxFailures,
		window:      60 * time.Second,
		timeout:     timeout,
		state:       StateClosed,
		now:         time.Now,
	}
}

// Execute runs fn unless the breaker is open. Only errors for which
// countable returns true are recorded as failures.
func (cb *CircuitBreaker) Execute(fn func() error, countable func(error) bool) error {
	allowed, trial := cb.allow()
	if !allowed {
		return ErrCircuitOpen
	}
	err := fn()
	cb.record(err != nil && (countable == nil || countable(err)), trial)
	return err
}

// allow reports whether a call may run and whether it is the half-open trial.
func (cb *CircuitBreaker) allow() (bool, bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case StateClosed:
		return true, false
	case StateHalfOpen:
		if cb.trialInFlight {
			return false, false
		}
		cb.trialInFlight = true
		return true, true
	}
	if cb.now().Sub(cb.lastFailureTime) >= cb.timeout {
		cb.state = StateHalfOpen
		cb.failures = cb.failures[:0]
		cb.trialInFlight = true
		return true, true
	}
	return false, false
}

func (cb *CircuitBreaker) record(failed, trial bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if trial {
		cb.trialInFlight = false
	}
	now := cb.now()
	if failed {
		cb.lastFailureTime = now
		cb.failures = append(cb.failures, now)
		cb.cleanOldFailures(now)
		if len(cb.failures) > cb.maxFailures || cb.state == StateHalfOpen {
			cb.state = StateOpen
		}
		return
	}
	cb.cleanOldFailures(now)
	if cb.state == StateHalfOpen {
		cb.state = StateClosed
		cb.failures = cb.failures[:0]
	}
}

func (cb *CircuitBreaker) cleanOldFailures(now time.Time) {
	cutoff := now.Add(-cb.window)
	i := 0
	for i < len(cb.failures) && !cb.failures[i].After(cutoff) {
		i++
	}
	cb.failures = cb.failures[i:]
}

func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
