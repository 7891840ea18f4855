package packetproc

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcrc-go/pcrc/protover"
	"github.com/pcrc-go/pcrc/wire"
)

func mustVersion(t *testing.T, label string) protover.Version {
	t.Helper()
	v, err := protover.Lookup(label)
	require.NoError(t, err)
	return v
}

func TestProcessorDropsBadPackets(t *testing.T) {
	p := NewProcessor(mustVersion(t, "1.16.5"))
	d := p.Process(NamedPacket{Name: "Camera"}, Options{Weather: true}, time.Now())
	assert.False(t, d.Keep)
}

func TestProcessorMinimalPacketsDropsUseless(t *testing.T) {
	p := NewProcessor(mustVersion(t, "1.16.5"))
	d := p.Process(NamedPacket{Name: "Sound Effect"}, Options{MinimalPackets: true, Weather: true}, time.Now())
	assert.False(t, d.Keep)

	d = p.Process(NamedPacket{Name: "Sound Effect"}, Options{MinimalPackets: false, Weather: true}, time.Now())
	assert.True(t, d.Keep)
}

func TestProcessorLocksDaytimeThenDropsFollowups(t *testing.T) {
	p := NewProcessor(mustVersion(t, "1.16.5"))
	locked := int64(6000)
	body := EncodeTimeUpdate(100, 500)
	opts := Options{Daytime: &locked, Weather: true}

	d := p.Process(NamedPacket{Name: "Time Update", Packet: wire.Packet{Body: body}}, opts, time.Now())
	require.True(t, d.Keep)
	_, dayTime, err := DecodeTimeUpdate(d.Body)
	require.NoError(t, err)
	assert.Equal(t, -locked, dayTime)

	d = p.Process(NamedPacket{Name: "Time Update", Packet: wire.Packet{Body: body}}, opts, time.Now())
	assert.False(t, d.Keep)

	p.Process(NamedPacket{Name: "Respawn"}, opts, time.Now())
	d = p.Process(NamedPacket{Name: "Time Update", Packet: wire.Packet{Body: body}}, opts, time.Now())
	assert.True(t, d.Keep)
}

func TestProcessorDropsWeatherWhenDisabled(t *testing.T) {
	p := NewProcessor(mustVersion(t, "1.16.5"))
	var body []byte
	body = append(body, byte(GameStateBeginRaining))
	body = wire.PutFloat(body, 0)
	d := p.Process(NamedPacket{Name: "Change Game State", Packet: wire.Packet{Body: body}}, Options{Weather: false}, time.Now())
	assert.False(t, d.Keep)

	d = p.Process(NamedPacket{Name: "Change Game State", Packet: wire.Packet{Body: body}}, Options{Weather: true}, time.Now())
	assert.True(t, d.Keep)
}

func TestProcessorRemovesBatsBySpawnAndFollowup(t *testing.T) {
	v := mustVersion(t, "1.16.5")
	p := NewProcessor(v)
	opts := Options{RemoveBats: true, Weather: true}

	var spawnBody []byte
	spawnBody = wire.PutVarInt(spawnBody, 9) // entity id
	spawnBody = wire.PutUUID(spawnBody, uuid.New())
	spawnBody = wire.PutVarInt(spawnBody, v.EntityTypeBat)
	spawnBody = wire.PutDouble(spawnBody, 0)
	spawnBody = wire.PutDouble(spawnBody, 0)
	spawnBody = wire.PutDouble(spawnBody, 0)

	d := p.Process(NamedPacket{Name: "Spawn Living Entity", Packet: wire.Packet{Body: spawnBody}}, opts, time.Now())
	assert.False(t, d.Keep)

	followupBody := wire.EncodeVarInt(9)
	d = p.Process(NamedPacket{Name: "Entity Velocity", Packet: wire.Packet{Body: followupBody}}, opts, time.Now())
	assert.False(t, d.Keep)
}

func TestProcessorDestroyEntitiesUnblocks(t *testing.T) {
	v := mustVersion(t, "1.16.5")
	p := NewProcessor(v)
	opts := Options{RemoveBats: true, Weather: true}

	var spawnBody []byte
	spawnBody = wire.PutVarInt(spawnBody, 9)
	spawnBody = wire.PutUUID(spawnBody, uuid.New())
	spawnBody = wire.PutVarInt(spawnBody, v.EntityTypeBat)
	spawnBody = wire.PutDouble(spawnBody, 0)
	spawnBody = wire.PutDouble(spawnBody, 0)
	spawnBody = wire.PutDouble(spawnBody, 0)
	p.Process(NamedPacket{Name: "Spawn Living Entity", Packet: wire.Packet{Body: spawnBody}}, opts, time.Now())

	var destroyBody []byte
	destroyBody = wire.PutVarInt(destroyBody, 1)
	destroyBody = wire.PutVarInt(destroyBody, 9)
	d := p.Process(NamedPacket{Name: "Destroy Entities", Packet: wire.Packet{Body: destroyBody}}, opts, time.Now())
	assert.True(t, d.Keep)

	followupBody := wire.EncodeVarInt(9)
	d = p.Process(NamedPacket{Name: "Entity Velocity", Packet: wire.Packet{Body: followupBody}}, opts, time.Now())
	assert.True(t, d.Keep)
}

func TestProcessorKeepsPlayerListItemAndOrdinaryPackets(t *testing.T) {
	// AFK suppression of non-important packets is the recorder's
	// concern (Recorder.OnPacket), not the processor's: Process itself
	// never drops a packet just because the caller is AFK.
	p := NewProcessor(mustVersion(t, "1.16.5"))
	opts := Options{Weather: true}
	d := p.Process(NamedPacket{Name: "Chat Message (clientbound)"}, opts, time.Now())
	assert.True(t, d.Keep)

	var body []byte
	body = wire.PutVarInt(body, 4) // remove action
	body = wire.PutVarInt(body, 0) // zero entries
	d = p.Process(NamedPacket{Name: "Player List Item", Packet: wire.Packet{Body: body}}, opts, time.Now())
	assert.True(t, d.Keep)
}

func TestProcessorSpawnPlayerTracksMovement(t *testing.T) {
	p := NewProcessor(mustVersion(t, "1.16.5"))
	opts := Options{Weather: true}
	id := uuid.New()

	var spawnBody []byte
	spawnBody = wire.PutVarInt(spawnBody, 5)
	spawnBody = wire.PutUUID(spawnBody, id)
	spawnBody = wire.PutDouble(spawnBody, 0)
	spawnBody = wire.PutDouble(spawnBody, 0)
	spawnBody = wire.PutDouble(spawnBody, 0)
	spawnBody = append(spawnBody, 0, 0)
	p.Process(NamedPacket{Name: "Spawn Player", Packet: wire.Packet{Body: spawnBody}}, opts, time.Now())

	uuids := p.PlayerUUIDs()
	require.Len(t, uuids, 1)
	assert.Equal(t, id, uuids[0])

	_, ok := p.LastMovement(id)
	assert.True(t, ok)
}
