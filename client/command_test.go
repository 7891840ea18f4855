package client

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pcrc-go/pcrc/chat"
	"github.com/pcrc-go/pcrc/config"
)

// capturingSender implements chat.Sender, recording every message sent
// through Flush so tests can assert on the dispatcher's replies without
// running the background drain goroutine.
type capturingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *capturingSender) SendChat(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, text)
	return nil
}

func (s *capturingSender) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func newTestClient(t *testing.T, cfg config.Config) (*Client, *capturingSender) {
	t.Helper()
	sender := &capturingSender{}
	c := New(cfg, logrus.StandardLogger(), nil)
	c.chatMgr = chat.New(sender, cfg.ChatSpamProtect)
	return c, sender
}

func TestHandleCommandIgnoresMessagesWithoutPrefix(t *testing.T) {
	c, sender := newTestClient(t, config.Config{CommandPrefix: "!!PCRC"})
	c.handleCommand("Steve", "hello world")
	if err := c.chatMgr.Flush(chat.PriorityLow); err != nil {
		t.Fatal(err)
	}
	if len(sender.messages()) != 0 {
		t.Fatalf("expected no reply, got %v", sender.messages())
	}
}

func TestHandleCommandIgnoresOwnMessages(t *testing.T) {
	c, sender := newTestClient(t, config.Config{CommandPrefix: "!!PCRC", Username: "PCRCBot"})
	c.handleCommand("PCRCBot", "!!PCRC status")
	_ = c.chatMgr.Flush(chat.PriorityLow)
	if len(sender.messages()) != 0 {
		t.Fatalf("expected the bot's own messages to be ignored, got %v", sender.messages())
	}
}

func TestHandleCommandStatusWithNoRecorder(t *testing.T) {
	c, sender := newTestClient(t, config.Config{CommandPrefix: "!!PCRC"})
	c.handleCommand("Steve", "!!PCRC status")
	_ = c.chatMgr.Flush(chat.PriorityLow)
	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0] != "not recording" {
		t.Fatalf("got %v", msgs)
	}
}

func TestHandleCommandPermissionDeniedWhenWhitelisted(t *testing.T) {
	c, sender := newTestClient(t, config.Config{
		CommandPrefix: "!!PCRC",
		Enabled:       true,
		Whitelist:     []string{"Alex"},
	})
	c.handleCommand("Steve", "!!PCRC status")
	_ = c.chatMgr.Flush(chat.PriorityLow)
	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0] != "You are not allowed to issue commands." {
		t.Fatalf("got %v", msgs)
	}
}

func TestHandleCommandSetRejectsNonSettableOption(t *testing.T) {
	c, sender := newTestClient(t, config.Config{CommandPrefix: "!!PCRC"})
	c.handleCommand("Steve", "!!PCRC set username bob")
	_ = c.chatMgr.Flush(chat.PriorityLow)
	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0] != "username is not a settable option" {
		t.Fatalf("got %v", msgs)
	}
}

func TestHandleCommandSetAppliesSettableOption(t *testing.T) {
	c, sender := newTestClient(t, config.Config{CommandPrefix: "!!PCRC"})
	c.handleCommand("Steve", "!!PCRC set weather false")
	_ = c.chatMgr.Flush(chat.PriorityLow)

	c.mu.Lock()
	weather := c.cfg.Weather
	c.mu.Unlock()
	if weather {
		t.Fatal("expected weather to be set to false")
	}
	if len(sender.messages()) != 1 {
		t.Fatalf("got %v", sender.messages())
	}
}

func TestHandleCommandUnknownFormReturnsHelp(t *testing.T) {
	c, sender := newTestClient(t, config.Config{CommandPrefix: "!!PCRC"})
	c.handleCommand("Steve", "!!PCRC frobnicate")
	_ = c.chatMgr.Flush(chat.PriorityLow)
	msgs := sender.messages()
	if len(msgs) != 1 {
		t.Fatalf("got %v", msgs)
	}
}
