package client

import (
	"bytes"
	"encoding/json"

	"github.com/pcrc-go/pcrc/wire"
)

// chatComponent is the minimal shape of a Minecraft chat JSON component
// this project needs to recognize player-typed chat (the only chat
// translate key that carries an in-game command), mirroring the
// fallback chain on_chat_message_packet walks over "with" entries.
type chatComponent struct {
	Text      string            `json:"text"`
	Translate string            `json:"translate"`
	With      []json.RawMessage `json:"with"`
	Insertion string            `json:"insertion"`
	HoverEvent *struct {
		Contents *struct {
			ID string `json:"id"`
		} `json:"contents"`
		Value json.RawMessage `json:"value"`
	} `json:"hoverEvent"`
}

// decodeChatMessage reads only the JSON chat body. The position byte
// and the 1.16+ sender UUID that follow it in a clientbound Chat Message
// aren't needed here and are left unread.
func decodeChatMessage(body []byte) (string, error) {
	r := wire.NewReader(bytes.NewReader(body))
	return r.ReadString(262144)
}

// playerChatMessage extracts (senderName, messageText) from a raw chat
// JSON payload, but only for the "chat.type.text" translate key vanilla
// servers use for ordinary player chat -- the one case
// on_chat_message_packet forwards to command dispatch. Any other
// translate key, or a component that doesn't parse, yields ok=false.
func playerChatMessage(jsonData string) (senderName, text string, ok bool) {
	var root chatComponent
	if err := json.Unmarshal([]byte(jsonData), &root); err != nil {
		return "", "", false
	}
	if root.Translate != "chat.type.text" || len(root.With) < 2 {
		return "", "", false
	}

	var sender chatComponent
	if err := json.Unmarshal(root.With[0], &sender); err == nil {
		senderName = sender.Insertion
		if senderName == "" {
			senderName = sender.Text
		}
	}

	var msg chatComponent
	if err := json.Unmarshal(root.With[1], &msg); err == nil && msg.Text != "" {
		text = msg.Text
	} else {
		// plain string form (older servers)
		var plain string
		if err := json.Unmarshal(root.With[1], &plain); err == nil {
			text = plain
		}
	}

	return senderName, text, senderName != "" && text != ""
}
