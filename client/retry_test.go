package client

import "testing"

func TestRetryCounterUnlimited(t *testing.T) {
	r := NewRetryCounter(-1)
	for i := 0; i < 50; i++ {
		if !r.CanRetry() {
			t.Fatalf("expected unlimited retries to always allow, failed at %d", i)
		}
		r.Consume()
	}
}

func TestRetryCounterBounded(t *testing.T) {
	r := NewRetryCounter(2)
	if !r.CanRetry() {
		t.Fatal("expected first retry to be allowed")
	}
	r.Consume()
	if !r.CanRetry() {
		t.Fatal("expected second retry to be allowed")
	}
	r.Consume()
	if r.CanRetry() {
		t.Fatal("expected retries to be exhausted")
	}
}

func TestRetryCounterReset(t *testing.T) {
	r := NewRetryCounter(1)
	r.Consume()
	if r.CanRetry() {
		t.Fatal("expected exhausted before reset")
	}
	r.Reset()
	if !r.CanRetry() {
		t.Fatal("expected retry allowed after reset")
	}
}

func TestRetryCounterSetMaxRetries(t *testing.T) {
	r := NewRetryCounter(0)
	if r.CanRetry() {
		t.Fatal("expected zero-budget counter to refuse immediately")
	}
	r.SetMaxRetries(-1)
	if !r.CanRetry() {
		t.Fatal("expected unlimited after SetMaxRetries(-1)")
	}
}
