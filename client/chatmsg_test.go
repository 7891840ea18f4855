package client

import "testing"

func TestPlayerChatMessageExtractsNameAndText(t *testing.T) {
	raw := `{"translate":"chat.type.text","with":[{"text":"Steve","insertion":"Steve"},{"text":"!!PCRC status"}]}`
	name, text, ok := playerChatMessage(raw)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if name != "Steve" || text != "!!PCRC status" {
		t.Fatalf("got name=%q text=%q", name, text)
	}
}

func TestPlayerChatMessageIgnoresOtherTranslateKeys(t *testing.T) {
	raw := `{"translate":"multiplayer.player.joined","with":[{"text":"Steve"}]}`
	_, _, ok := playerChatMessage(raw)
	if ok {
		t.Fatal("expected ok=false for a non-chat.type.text message")
	}
}

func TestPlayerChatMessageHandlesPlainStringBody(t *testing.T) {
	raw := `{"translate":"chat.type.text","with":[{"text":"Alex"},"hello there"]}`
	name, text, ok := playerChatMessage(raw)
	if !ok || name != "Alex" || text != "hello there" {
		t.Fatalf("got name=%q text=%q ok=%v", name, text, ok)
	}
}

func TestPlayerChatMessageRejectsGarbage(t *testing.T) {
	_, _, ok := playerChatMessage("not json")
	if ok {
		t.Fatal("expected ok=false for invalid json")
	}
}
