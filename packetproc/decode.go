package packetproc

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcrc-go/pcrc/wire"
)

// reader wraps a packet body for field-by-field decoding.
func reader(body []byte) *wire.Reader {
	return wire.NewReader(bytes.NewReader(body))
}

// DecodeEntityIDFirst reads the leading VarInt entity id shared by every
// packet in EntityIDFirstPackets (spec §4.5 step 8) and returns it along
// with the remaining, not-yet-parsed body.
func DecodeEntityIDFirst(body []byte) (entityID int32, rest []byte, err error) {
	br := bytes.NewReader(body)
	id, err := wire.ReadVarInt(br)
	if err != nil {
		return 0, nil, fmt.Errorf("packetproc: entity id: %w", err)
	}
	tail := make([]byte, br.Len())
	_, _ = br.Read(tail)
	return id, tail, nil
}

// DecodeDestroyEntities reads the VarInt-count-prefixed VarInt array
// layout Destroy Entities used across every version this project tracks
// (1.17 later switched to a single un-counted id, which is out of scope
// here since no version in protover.Versions needs it).
func DecodeDestroyEntities(body []byte) ([]int32, error) {
	br := bytes.NewReader(body)
	count, err := wire.ReadVarInt(br)
	if err != nil {
		return nil, fmt.Errorf("packetproc: destroy entities count: %w", err)
	}
	ids := make([]int32, 0, count)
	for i := int32(0); i < count; i++ {
		id, err := wire.ReadVarInt(br)
		if err != nil {
			return nil, fmt.Errorf("packetproc: destroy entities[%d]: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SpawnPlayer is the subset of Spawn Player's fields the recorder cares
// about: identity and initial position. Metadata bytes that follow are
// intentionally left undecoded; they pass through unmodified.
type SpawnPlayer struct {
	EntityID  int32
	PlayerID  uuid.UUID
	X, Y, Z   float64
	Yaw, Pitch int8
}

// DecodeSpawnPlayer decodes Spawn Player. pre114 selects the legacy
// string-encoded UUID layout (protover.IsPre114); 1.14+ servers send a
// raw 16-byte UUID instead.
func DecodeSpawnPlayer(body []byte, pre114 bool) (SpawnPlayer, error) {
	r := reader(body)
	var sp SpawnPlayer
	var err error
	if sp.EntityID, err = wire.ReadVarInt(r); err != nil {
		return sp, fmt.Errorf("packetproc: spawn player entity id: %w", err)
	}
	if pre114 {
		s, err := r.ReadString(36)
		if err != nil {
			return sp, fmt.Errorf("packetproc: spawn player uuid string: %w", err)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return sp, fmt.Errorf("packetproc: spawn player uuid parse: %w", err)
		}
		sp.PlayerID = id
	} else {
		id, err := r.ReadUUID()
		if err != nil {
			return sp, fmt.Errorf("packetproc: spawn player uuid: %w", err)
		}
		sp.PlayerID = id
	}
	if sp.X, err = r.ReadDouble(); err != nil {
		return sp, err
	}
	if sp.Y, err = r.ReadDouble(); err != nil {
		return sp, err
	}
	if sp.Z, err = r.ReadDouble(); err != nil {
		return sp, err
	}
	yaw, err := r.ReadByte()
	if err != nil {
		return sp, fmt.Errorf("packetproc: spawn player yaw: %w", err)
	}
	pitch, err := r.ReadByte()
	if err != nil {
		return sp, fmt.Errorf("packetproc: spawn player pitch: %w", err)
	}
	sp.Yaw = int8(yaw)
	sp.Pitch = int8(pitch)
	return sp, nil
}

// SpawnEntity covers both Spawn Object and Spawn Living Entity, whose
// only structural difference pre-1.14 vs 1.14+ is the object/mob type
// field width (byte vs VarInt) and whether the packet carries a raw
// entity UUID (1.14+ only).
type SpawnEntity struct {
	EntityID int32
	ObjectID uuid.UUID
	Type     int32
	X, Y, Z  float64
}

// DecodeSpawnEntity decodes Spawn Object / Spawn Living Entity.
func DecodeSpawnEntity(body []byte, pre114 bool) (SpawnEntity, error) {
	r := reader(body)
	var se SpawnEntity
	var err error
	if se.EntityID, err = wire.ReadVarInt(r); err != nil {
		return se, fmt.Errorf("packetproc: spawn entity id: %w", err)
	}
	if !pre114 {
		if se.ObjectID, err = r.ReadUUID(); err != nil {
			return se, fmt.Errorf("packetproc: spawn entity uuid: %w", err)
		}
	}
	if pre114 {
		b, err := r.ReadByte()
		if err != nil {
			return se, fmt.Errorf("packetproc: spawn entity type byte: %w", err)
		}
		se.Type = int32(int8(b))
	} else {
		t, err := wire.ReadVarInt(r)
		if err != nil {
			return se, fmt.Errorf("packetproc: spawn entity type varint: %w", err)
		}
		se.Type = t
	}
	if se.X, err = r.ReadDouble(); err != nil {
		return se, err
	}
	if se.Y, err = r.ReadDouble(); err != nil {
		return se, err
	}
	if se.Z, err = r.ReadDouble(); err != nil {
		return se, err
	}
	return se, nil
}

// PlayerPositionAndLook is the subset of fields the recorder tracks for
// !!PCRC pos and for teleport-confirm bookkeeping in conn.
type PlayerPositionAndLook struct {
	X, Y, Z          float64
	Yaw, Pitch       float32
	Flags            byte
	TeleportID       int32
}

// DecodePlayerPositionAndLook decodes the clientbound Player Position
// And Look packet.
func DecodePlayerPositionAndLook(body []byte) (PlayerPositionAndLook, error) {
	r := reader(body)
	var p PlayerPositionAndLook
	var err error
	if p.X, err = r.ReadDouble(); err != nil {
		return p, err
	}
	if p.Y, err = r.ReadDouble(); err != nil {
		return p, err
	}
	if p.Z, err = r.ReadDouble(); err != nil {
		return p, err
	}
	yaw, err := r.ReadFloat()
	if err != nil {
		return p, err
	}
	pitch, err := r.ReadFloat()
	if err != nil {
		return p, err
	}
	p.Yaw, p.Pitch = yaw, pitch
	flags, err := r.ReadByte()
	if err != nil {
		return p, err
	}
	p.Flags = flags
	id, err := wire.ReadVarInt(r)
	if err != nil {
		return p, fmt.Errorf("packetproc: player position teleport id: %w", err)
	}
	p.TeleportID = id
	return p, nil
}

// DecodeTimeUpdate decodes Time Update, used by the daytime-lock
// inspector (spec §4.5 step 3) to read and, when rewriting, to
// recompute worldAge alongside a forced dayTime.
func DecodeTimeUpdate(body []byte) (worldAge, dayTime int64, err error) {
	r := reader(body)
	if worldAge, err = r.ReadLong(); err != nil {
		return 0, 0, err
	}
	if dayTime, err = r.ReadLong(); err != nil {
		return 0, 0, err
	}
	return worldAge, dayTime, nil
}

// EncodeTimeUpdate re-serializes a (possibly rewritten) Time Update body.
func EncodeTimeUpdate(worldAge, dayTime int64) []byte {
	buf := make([]byte, 0, 16)
	buf = wire.PutLong(buf, worldAge)
	buf = wire.PutLong(buf, dayTime)
	return buf
}

// ChangeGameState decodes the weather/gamemode notification packet used
// by the weather-lock inspector (spec §4.5 step 4).
type ChangeGameState struct {
	Reason byte
	Value  float32
}

// DecodeChangeGameState decodes Change Game State.
func DecodeChangeGameState(body []byte) (ChangeGameState, error) {
	r := reader(body)
	var c ChangeGameState
	reasonByte, err := r.ReadByte()
	if err != nil {
		return c, err
	}
	c.Reason = reasonByte
	v, err := r.ReadFloat()
	if err != nil {
		return c, err
	}
	c.Value = v
	return c, nil
}

// Change Game State reason codes this project acts on are declared in
// processor.go (spec §4.5 step 4), alongside weatherReasons.

// PlayerListEntry is one decoded Player List Item action, keyed the same
// way as packetproc.PlayerListManager's update methods.
type PlayerListEntry struct {
	Action      int32
	PlayerID    uuid.UUID
	Name        string
	Gamemode    int32
	Ping        int32
	DisplayName string
	HasDisplay  bool
}

// DecodePlayerListItem decodes the full action-keyed Player List Item
// packet, ported from pcrc/recording/player_list.py's parsing of the
// same packet.
func DecodePlayerListItem(body []byte) (action int32, entries []PlayerListEntry, err error) {
	r := reader(body)
	action, err = wire.ReadVarInt(r)
	if err != nil {
		return 0, nil, fmt.Errorf("packetproc: player list item action: %w", err)
	}
	count, err := wire.ReadVarInt(r)
	if err != nil {
		return 0, nil, fmt.Errorf("packetproc: player list item count: %w", err)
	}
	entries = make([]PlayerListEntry, 0, count)
	for i := int32(0); i < count; i++ {
		id, err := r.ReadUUID()
		if err != nil {
			return 0, nil, fmt.Errorf("packetproc: player list item[%d] uuid: %w", i, err)
		}
		e := PlayerListEntry{Action: action, PlayerID: id}
		switch action {
		case 0: // add player
			name, err := r.ReadString(16)
			if err != nil {
				return 0, nil, err
			}
			e.Name = name
			propCount, err := wire.ReadVarInt(r)
			if err != nil {
				return 0, nil, err
			}
			for j := int32(0); j < propCount; j++ {
				if _, err := r.ReadString(32767); err != nil { // property name
					return 0, nil, err
				}
				if _, err := r.ReadString(32767); err != nil { // value
					return 0, nil, err
				}
				isSigned, err := r.ReadBool()
				if err != nil {
					return 0, nil, err
				}
				if isSigned {
					if _, err := r.ReadString(32767); err != nil { // signature
						return 0, nil, err
					}
				}
			}
			gm, err := wire.ReadVarInt(r)
			if err != nil {
				return 0, nil, err
			}
			e.Gamemode = gm
			ping, err := wire.ReadVarInt(r)
			if err != nil {
				return 0, nil, err
			}
			e.Ping = ping
			hasDisplay, err := r.ReadBool()
			if err != nil {
				return 0, nil, err
			}
			e.HasDisplay = hasDisplay
			if hasDisplay {
				dn, err := r.ReadString(32767)
				if err != nil {
					return 0, nil, err
				}
				e.DisplayName = dn
			}
		case 1: // update gamemode
			gm, err := wire.ReadVarInt(r)
			if err != nil {
				return 0, nil, err
			}
			e.Gamemode = gm
		case 2: // update latency
			ping, err := wire.ReadVarInt(r)
			if err != nil {
				return 0, nil, err
			}
			e.Ping = ping
		case 3: // update display name
			hasDisplay, err := r.ReadBool()
			if err != nil {
				return 0, nil, err
			}
			e.HasDisplay = hasDisplay
			if hasDisplay {
				dn, err := r.ReadString(32767)
				if err != nil {
					return 0, nil, err
				}
				e.DisplayName = dn
			}
		case 4: // remove player
			// no further fields
		default:
			return 0, nil, fmt.Errorf("packetproc: player list item unknown action %d", action)
		}
		entries = append(entries, e)
	}
	return action, entries, nil
}
