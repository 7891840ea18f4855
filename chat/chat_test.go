package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	fail error
}

func (s *recordingSender) SendChat(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, text)
	return nil
}

func (s *recordingSender) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	copy(out, s.sent)
	return out
}

func TestFlushOrdersByPriorityThenInsertion(t *testing.T) {
	sender := &recordingSender{}
	m := New(sender, false)

	m.Add("low", PriorityLow)
	m.Add("high", PriorityHigh)
	m.Add("normal-1", PriorityNormal)
	m.Add("normal-2", PriorityNormal)

	require.NoError(t, m.Flush(PriorityLow))
	assert.Equal(t, []string{"high", "normal-1", "normal-2", "low"}, sender.Sent())
}

func TestFlushRespectsCap(t *testing.T) {
	sender := &recordingSender{}
	m := New(sender, false)

	m.Add("normal", PriorityNormal)
	m.Add("low", PriorityLow)

	require.NoError(t, m.Flush(PriorityNormal))
	assert.Equal(t, []string{"normal"}, sender.Sent())
	assert.Equal(t, 1, m.Len())
}

func TestSpamProtectBlocksAboveThreshold(t *testing.T) {
	sender := &recordingSender{}
	m := New(sender, true)
	m.spamThreshold = SpamThreshold - SpamIncrement // right at the edge

	assert.False(t, m.canChat())
	m.OnTimeUpdate()
	assert.True(t, m.canChat())
}

func TestOnTimeUpdateFlooredAtZero(t *testing.T) {
	sender := &recordingSender{}
	m := New(sender, true)
	m.OnTimeUpdate()
	assert.Equal(t, 0, m.spamThreshold)
}

func TestRunDrainsQueue(t *testing.T) {
	sender := &recordingSender{}
	m := New(sender, false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go m.Run(ctx)
	m.Add("hello", PriorityNormal)

	deadline := time.After(time.Second)
	for {
		if len(sender.Sent()) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("message was not drained")
		case <-time.After(time.Millisecond):
		}
	}
	assert.Equal(t, []string{"hello"}, sender.Sent())
}
