package packetproc

import (
	"time"

	"github.com/google/uuid"

	"github.com/pcrc-go/pcrc/protover"
)

// Options configures the inspector chain (spec §4.5, recognized options
// listed in spec §6: minimal_packets, remove_items, remove_bats,
// remove_phantoms, afk_ignore_spectator, daytime, weather).
type Options struct {
	MinimalPackets     bool
	RemoveItems        bool
	RemoveBats         bool
	RemovePhantoms     bool
	AfkIgnoreSpectator bool

	// Daytime, when non-nil and within [0, 24000), freezes the sun at
	// |*Daytime| by rewriting the first Time Update after Recording/
	// Respawn to carry -*Daytime, then dropping every subsequent one
	// until the next Respawn (spec §4.5 step 3).
	Daytime *int64
	// Weather disabled (false) drops weather-change notifications (spec
	// §4.5 step 4).
	Weather bool
}

// Decision is the outcome the inspector chain reaches for one packet:
// keep it (possibly rewritten), or drop it.
type Decision struct {
	Keep bool
	Body []byte // rewritten body, only meaningful when Keep is true
}

// Change Game State reason codes the weather inspector acts on (spec
// §4.5 step 4): begin/end rain and the two fade notifications that
// accompany a weather transition.
const (
	GameStateBeginRaining = 1
	GameStateEndRaining   = 2
	GameStateRainFadeValue = 7
	GameStateRainFadeTime  = 8
)

var weatherReasons = map[byte]bool{
	GameStateBeginRaining:  true,
	GameStateEndRaining:    true,
	GameStateRainFadeValue: true,
	GameStateRainFadeTime:  true,
}

// Processor runs the ten-step clientbound packet inspector chain (spec
// §4.5) for a single connection. It owns all the cross-packet
// bookkeeping the chain needs: entity->type and entity->player-uuid
// maps, the player-uuid insertion-ordered set, the blocked-entity set,
// per-player last-movement timestamps, and the time latch.
// Mirrors pcrc/recording/packet_processor.py's PacketProcessor class.
type Processor struct {
	version protover.Version
	pre114  bool

	entityType          map[int32]int32      // entity id -> mob/object type id
	entityIDToPlayerUUID map[int32]uuid.UUID  // entity id -> player uuid, for Spawn Player
	playerUUIDOrder     []uuid.UUID           // insertion order, no duplicates
	playerUUIDSeen      map[uuid.UUID]bool
	blockedEntityIDs    map[int32]bool
	lastMovement        map[uuid.UUID]time.Time

	selfPosition      PlayerPositionAndLook
	recordedTimePacket bool

	Players *PlayerListManager
}

// NewProcessor builds a Processor bound to a single protocol version.
func NewProcessor(v protover.Version) *Processor {
	return &Processor{
		version:              v,
		pre114:               protover.IsPre114(v.Label),
		entityType:           make(map[int32]int32),
		entityIDToPlayerUUID: make(map[int32]uuid.UUID),
		playerUUIDSeen:       make(map[uuid.UUID]bool),
		blockedEntityIDs:     make(map[int32]bool),
		lastMovement:         make(map[uuid.UUID]time.Time),
		Players:              NewPlayerListManager(),
	}
}

// SelfPosition returns the last latched PlayerPositionAndLook (step 2),
// used by client for the !!PCRC pos command.
func (p *Processor) SelfPosition() PlayerPositionAndLook {
	return p.selfPosition
}

// PlayerUUIDs returns the insertion-ordered, duplicate-free set of
// player uuids seen via Spawn Player.
func (p *Processor) PlayerUUIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(p.playerUUIDOrder))
	copy(out, p.playerUUIDOrder)
	return out
}

// LastMovement reports when id last moved (refreshed by step 8), for
// AFK accounting (spec §4.8).
func (p *Processor) LastMovement(id uuid.UUID) (time.Time, bool) {
	t, ok := p.lastMovement[id]
	return t, ok
}

// LatestMovement returns the most recent timestamp across every
// tracked player, the single global "is anyone moving" signal
// record.Recorder needs for AFK accounting (spec §4.8). Mirrors
// Recorder.last_player_movement, which the original refreshes from the
// same two call sites (Spawn Player, entity-id-first packets) but keeps
// as one field rather than one per player; zero time if nobody has been
// tracked yet.
func (p *Processor) LatestMovement() time.Time {
	var latest time.Time
	for _, t := range p.lastMovement {
		if t.After(latest) {
			latest = t
		}
	}
	return latest
}

func (p *Processor) rememberPlayerUUID(id uuid.UUID) {
	if !p.playerUUIDSeen[id] {
		p.playerUUIDSeen[id] = true
		p.playerUUIDOrder = append(p.playerUUIDOrder, id)
	}
}

// Process runs np through the inspector chain and returns whether to
// keep it (and the replacement body, if rewritten). now is the time
// used to refresh per-player movement timestamps. AFK suppression of
// non-important packets (spec §4.8) is not this chain's concern: it is
// decided by the recorder, which is the only place record_packets_when_afk
// and the AFK latch itself live.
func (p *Processor) Process(np NamedPacket, opts Options, now time.Time) Decision {
	// Step 1: bad/useless filter.
	if BadPackets[np.Name] {
		return Decision{Keep: false}
	}
	if opts.MinimalPackets && UselessPackets[np.Name] {
		return Decision{Keep: false}
	}

	// Step 2: self-position latch.
	if np.Name == "Player Position And Look" {
		if pos, err := DecodePlayerPositionAndLook(np.Body); err == nil {
			p.selfPosition = pos
		}
	}

	// Step 3: time latch. Only the first Time Update after Recording (or
	// after the latch was reset by Respawn, step 9) is kept, rewritten to
	// freeze the sun at the configured daytime; every one after that is
	// dropped until the latch resets.
	if np.Name == "Time Update" {
		if opts.Daytime != nil && *opts.Daytime >= 0 && *opts.Daytime < 24000 {
			if p.recordedTimePacket {
				return Decision{Keep: false}
			}
			worldAge, _, err := DecodeTimeUpdate(np.Body)
			if err == nil {
				p.recordedTimePacket = true
				return Decision{Keep: true, Body: EncodeTimeUpdate(worldAge, -*opts.Daytime)}
			}
		}
	}

	// Step 4: weather.
	if np.Name == "Change Game State" && !opts.Weather {
		if cgs, err := DecodeChangeGameState(np.Body); err == nil && weatherReasons[cgs.Reason] {
			return Decision{Keep: false}
		}
	}

	// Step 5: Spawn Player identity bookkeeping.
	if np.Name == "Spawn Player" {
		if sp, err := DecodeSpawnPlayer(np.Body, p.pre114); err == nil {
			p.entityIDToPlayerUUID[sp.EntityID] = sp.PlayerID
			p.rememberPlayerUUID(sp.PlayerID)
			p.lastMovement[sp.PlayerID] = now
		}
	}

	// Steps 6-7: Spawn Object / Spawn Living Entity type bookkeeping and
	// removal.
	if np.Name == "Spawn Object" || np.Name == "Spawn Living Entity" {
		se, err := DecodeSpawnEntity(np.Body, p.pre114)
		if err == nil {
			p.entityType[se.EntityID] = se.Type
			if p.shouldRemoveType(np.Name, se.Type, opts) {
				p.blockedEntityIDs[se.EntityID] = true
				return Decision{Keep: false}
			}
		}
	}

	// Step 7 (cont'd): Destroy Entities removes ids from both the
	// blocked set and the player-id map.
	if np.Name == "Destroy Entities" {
		if ids, err := DecodeDestroyEntities(np.Body); err == nil {
			for _, id := range ids {
				delete(p.blockedEntityIDs, id)
				delete(p.entityIDToPlayerUUID, id)
				delete(p.entityType, id)
			}
		}
	}

	// Step 8: entity-id-first packets.
	if EntityIDFirstPackets[np.Name] {
		id, _, err := DecodeEntityIDFirst(np.Body)
		if err == nil {
			if p.blockedEntityIDs[id] {
				return Decision{Keep: false}
			}
			if playerID, ok := p.entityIDToPlayerUUID[id]; ok {
				if !p.isSpectator(playerID) || !opts.AfkIgnoreSpectator {
					p.lastMovement[playerID] = now
				}
			}
		}
	}

	// Step 9: Respawn resets the time latch.
	if np.Name == "Respawn" {
		p.recordedTimePacket = false
	}

	// Step 10: Player List Item bookkeeping always runs and the packet
	// is always kept, even while AFK, so the tab list never drifts
	// across an AFK gap.
	if np.Name == "Player List Item" {
		action, entries, err := DecodePlayerListItem(np.Body)
		if err == nil {
			p.applyPlayerList(action, entries)
		}
		return Decision{Keep: true, Body: np.Body}
	}

	return Decision{Keep: true, Body: np.Body}
}

func (p *Processor) shouldRemoveType(packetName string, t int32, opts Options) bool {
	if opts.RemoveItems && packetName == "Spawn Object" && t == p.version.EntityTypeItem {
		return true
	}
	if opts.RemoveBats && t == p.version.EntityTypeBat {
		return true
	}
	if opts.RemovePhantoms && p.version.EntityTypePhantom >= 0 && t == p.version.EntityTypePhantom {
		return true
	}
	return false
}

func (p *Processor) isSpectator(id uuid.UUID) bool {
	info, ok := p.Players.Get(id)
	return ok && info.Gamemode == 3
}

func (p *Processor) applyPlayerList(action int32, entries []PlayerListEntry) {
	for _, e := range entries {
		switch action {
		case 0:
			p.Players.Add(e.PlayerID, e.Name, e.Gamemode, e.Ping, e.DisplayName)
		case 1:
			p.Players.UpdateGamemode(e.PlayerID, e.Gamemode)
		case 2:
			p.Players.UpdateLatency(e.PlayerID, e.Ping)
		case 3:
			p.Players.UpdateDisplayName(e.PlayerID, e.DisplayName)
		case 4:
			p.Players.Remove(e.PlayerID)
		}
	}
}
