// Package chat implements the outbound chat dispatcher of spec §4.6: a
// priority queue drained by a single background goroutine, with vanilla
// server-side chat-spam-counter bookkeeping so a recorder session never
// trips the real server's spam kick. Ported from
// pcrc/recording/chat.py's ChatManager/Message/ChatPriority.
package chat

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Priority orders outbound messages; ties break by insertion order
// (spec §4.6). Lower values are more urgent, matching the original's
// High=-1 < Normal=0 < Low=1.
type Priority int

const (
	PriorityHigh   Priority = -1
	PriorityNormal Priority = 0
	PriorityLow    Priority = 1
)

// SpamThreshold is the vanilla server's kick threshold (200), derated by
// a 10% safety margin to 180, matching the original's comment ("vanilla
// threshold is 200 but I set it to 180 for safety").
const SpamThreshold = 180

// SpamIncrement is how much the counter grows per sent chat message and
// decays per inbound Time Update, mirroring vanilla's per-tick
// bookkeeping (one Time Update arrives per game tick).
const SpamIncrement = 20

type message struct {
	priority Priority
	id       int64
	text     string
}

// messageHeap implements container/heap.Interface, ordering by
// (priority, insertion id) exactly like Message.__lt__.
type messageHeap []*message

func (h messageHeap) Len() int { return len(h) }
func (h messageHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].id < h[j].id
}
func (h messageHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *messageHeap) Push(x interface{}) {
	*h = append(*h, x.(*message))
}
func (h *messageHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Sender is whatever conn exposes for emitting a serverbound chat
// packet; kept as an interface so chat has no import-time dependency on
// conn.
type Sender interface {
	SendChat(text string) error
}

// Manager is the chat dispatcher: queue + spam counter + a background
// drain goroutine. A zero Manager is not usable; construct with New.
type Manager struct {
	mu            sync.Mutex
	queue         messageHeap
	nextID        int64
	spamThreshold int
	spamProtect   bool

	sender Sender
	wake   chan struct{}
	errc   chan error
}

// New builds a Manager that sends through sender. spamProtect mirrors
// the chat_spam_protect config option; when false, __can_chat always
// returns true.
func New(sender Sender, spamProtect bool) *Manager {
	m := &Manager{
		sender:      sender,
		spamProtect: spamProtect,
		wake:        make(chan struct{}, 1),
		errc:        make(chan error, 1),
	}
	heap.Init(&m.queue)
	return m
}

// Add enqueues a message at the given priority (spec §4.6's add_chat).
func (m *Manager) Add(text string, priority Priority) {
	m.mu.Lock()
	m.nextID++
	heap.Push(&m.queue, &message{priority: priority, id: m.nextID, text: text})
	m.mu.Unlock()
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// OnTimeUpdate decays the spam counter by SpamIncrement, floored at
// zero, matching on_received_TimeUpdatePacket.
func (m *Manager) OnTimeUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spamThreshold -= SpamIncrement
	if m.spamThreshold < 0 {
		m.spamThreshold = 0
	}
}

func (m *Manager) canChat() bool {
	if !m.spamProtect {
		return true
	}
	return m.spamThreshold+SpamIncrement < SpamThreshold
}

func (m *Manager) sendLocked(msg *message) error {
	if err := m.sender.SendChat(msg.text); err != nil {
		return err
	}
	m.spamThreshold += SpamIncrement
	return nil
}

// Flush instantly drains every queued message with priority <= cap,
// synchronously, stopping at the first message with lower urgency
// (matching flush_chats' early-break scan order since the heap already
// yields messages in priority order). Used during disconnect to deliver
// a farewell message regardless of the spam counter.
func (m *Manager) Flush(cap Priority) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.queue.Len() > 0 {
		msg := m.queue[0]
		if msg.priority > cap {
			break
		}
		heap.Pop(&m.queue)
		if err := m.sendLocked(msg); err != nil {
			return err
		}
	}
	return nil
}

// Run drains the queue respecting the spam counter until ctx is
// canceled, matching ChatManager.__run's polling loop (translated to a
// wake-channel + short ticker instead of a raw sleep loop, since Go
// has no drop-in for PriorityQueue.get(timeout=...)).
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.wake:
		case <-ticker.C:
		}
		m.drainOne()
	}
}

func (m *Manager) drainOne() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queue.Len() == 0 || !m.canChat() {
		return
	}
	msg := heap.Pop(&m.queue).(*message)
	if err := m.sendLocked(msg); err != nil {
		select {
		case m.errc <- err:
		default:
		}
	}
}

// Errors returns the channel client listens on for send failures
// surfaced by the background Run loop.
func (m *Manager) Errors() <-chan error {
	return m.errc
}

// Len reports how many messages are queued, for status reporting.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len()
}
