package client

import "sync"

// RetryCounter bounds the auto-restart loop of spec §4.9: a negative
// max means unlimited retries. Ported from
// pcrc/utils/retry_counter.py's RetryCounter.
type RetryCounter struct {
	mu         sync.Mutex
	maxRetries int
	counter    int
}

// NewRetryCounter builds a counter allowing maxRetries restarts before
// CanRetry refuses (negative = unlimited).
func NewRetryCounter(maxRetries int) *RetryCounter {
	return &RetryCounter{maxRetries: maxRetries}
}

// Reset zeroes the consumed-attempt count, called on a successful
// GameJoin and on an explicit user start (spec §4.9).
func (r *RetryCounter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter = 0
}

// CanRetry reports whether another auto-restart attempt is allowed.
func (r *RetryCounter) CanRetry() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxRetries < 0 || r.counter < r.maxRetries
}

// Consume records one restart attempt against the budget.
func (r *RetryCounter) Consume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
}

// SetMaxRetries changes the budget in place. No in-game command calls
// it: auto_relogin_attempts is not one of config.SettableOptions.
func (r *RetryCounter) SetMaxRetries(maxRetries int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxRetries = maxRetries
}
