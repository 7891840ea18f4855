package packetproc

import "github.com/google/uuid"

// PlayerInfo mirrors one entry of the vanilla player list (tab list),
// ported from pcrc/recording/player_list.py's PlayerInfo.
type PlayerInfo struct {
	UUID        uuid.UUID
	Name        string
	Gamemode    int32
	Ping        int32
	DisplayName string
}

// PlayerListManager tracks the server's player list purely from the
// Player List Item stream, the same bookkeeping
// pcrc/recording/player_list.py's PlayerList class does. The Processor
// consults it for a player's gamemode when afk_ignore_spectator is set.
type PlayerListManager struct {
	players map[uuid.UUID]*PlayerInfo
}

// NewPlayerListManager returns an empty manager.
func NewPlayerListManager() *PlayerListManager {
	return &PlayerListManager{players: make(map[uuid.UUID]*PlayerInfo)}
}

// Add records a newly joined player (Player List Item action 0).
func (m *PlayerListManager) Add(id uuid.UUID, name string, gamemode, ping int32, displayName string) {
	m.players[id] = &PlayerInfo{UUID: id, Name: name, Gamemode: gamemode, Ping: ping, DisplayName: displayName}
}

// UpdateGamemode applies action 1.
func (m *PlayerListManager) UpdateGamemode(id uuid.UUID, gamemode int32) {
	if p, ok := m.players[id]; ok {
		p.Gamemode = gamemode
	}
}

// UpdateLatency applies action 2.
func (m *PlayerListManager) UpdateLatency(id uuid.UUID, ping int32) {
	if p, ok := m.players[id]; ok {
		p.Ping = ping
	}
}

// UpdateDisplayName applies action 3.
func (m *PlayerListManager) UpdateDisplayName(id uuid.UUID, displayName string) {
	if p, ok := m.players[id]; ok {
		p.DisplayName = displayName
	}
}

// Remove applies action 4 (player left or is no longer visible).
func (m *PlayerListManager) Remove(id uuid.UUID) {
	delete(m.players, id)
}

// Get returns the tracked info for id, if any.
func (m *PlayerListManager) Get(id uuid.UUID) (PlayerInfo, bool) {
	p, ok := m.players[id]
	if !ok {
		return PlayerInfo{}, false
	}
	return *p, true
}

// Names returns the usernames currently online, in no defined order.
func (m *PlayerListManager) Names() []string {
	names := make([]string, 0, len(m.players))
	for _, p := range m.players {
		names = append(names, p.Name)
	}
	return names
}

// Len reports how many players are currently tracked.
func (m *PlayerListManager) Len() int {
	return len(m.players)
}
