package mcpr

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordingStagesSidecarFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")
	r, err := NewRecording(dir, 1)
	require.NoError(t, err)

	for _, name := range []string{"recording.tmcpr", "markers.json", "mods.json", "metaData.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestWritePacketAccumulatesSize(t *testing.T) {
	r, err := NewRecording(filepath.Join(t.TempDir(), "work"), 1)
	require.NoError(t, err)

	require.NoError(t, r.WritePacket(0, 1, []byte("hello")))
	require.NoError(t, r.WritePacket(50, 2, []byte("world!")))
	assert.Greater(t, r.Size(), int64(0))
}

func TestWritePacketBuffersUntilThresholdThenFlushes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")
	// The limit is in MiB: with a 1 MiB limit a small packet stays in
	// memory, and a packet larger than the limit is flushed to disk.
	r, err := NewRecording(dir, 1)
	require.NoError(t, err)

	payload := make([]byte, 64)
	require.NoError(t, r.WritePacket(0, 1, payload))

	info, err := os.Stat(r.recordingPath())
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size(), "a single small packet should stay buffered, not hit disk yet")
	assert.Greater(t, r.Size(), int64(0), "Size() must still report buffered bytes")

	big := make([]byte, 2*bytePerMB)
	require.NoError(t, r.WritePacket(1, 2, big))

	info, err = os.Stat(r.recordingPath())
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "exceeding the buffer limit must flush to recording.tmcpr")

	require.NoError(t, r.SetMeta(Meta{MCVersion: "1.16.5"}))
	finalPath, err := r.Archive(filepath.Join(t.TempDir(), "buffered.mcpr"))
	require.NoError(t, err)
	require.NoError(t, ValidateFile(finalPath))
}

func TestAddAndPopMarker(t *testing.T) {
	r, err := NewRecording(filepath.Join(t.TempDir(), "work"), 1)
	require.NoError(t, err)

	m, err := r.AddMarker(1000, Position{X: 1, Y: 2, Z: 3, Yaw: 90, Pitch: 10}, "spawn")
	require.NoError(t, err)
	assert.Equal(t, "spawn", m.Value.Name)
	// ReplayMod's yaw/pitch swap relative to protocol naming.
	assert.Equal(t, float32(10), m.Value.Position.Yaw)
	assert.Equal(t, float32(90), m.Value.Position.Pitch)
	require.Len(t, r.Markers(), 1)

	popped, err := r.PopMarker(1)
	require.NoError(t, err)
	assert.Equal(t, m.RealTimestamp, popped.RealTimestamp)
	assert.Empty(t, r.Markers())

	_, err = r.PopMarker(1)
	assert.Error(t, err)
}

func TestArchiveProducesValidZip(t *testing.T) {
	r, err := NewRecording(filepath.Join(t.TempDir(), "work"), 1)
	require.NoError(t, err)
	require.NoError(t, r.WritePacket(0, 1, []byte("payload")))
	require.NoError(t, r.SetMeta(Meta{ServerName: "test", MCVersion: "1.16.5", Protocol: 754}))

	target := filepath.Join(t.TempDir(), "out.mcpr")
	finalPath, err := r.Archive(target)
	require.NoError(t, err)
	assert.Equal(t, target, finalPath)

	_, err = os.Stat(r.workDir)
	assert.True(t, os.IsNotExist(err), "working directory should be removed after archive")

	require.NoError(t, ValidateFile(finalPath))

	zr, err := zip.OpenReader(finalPath)
	require.NoError(t, err)
	defer zr.Close()
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"recording.tmcpr", "markers.json", "mods.json", "metaData.json", "recording.tmcpr.crc32"} {
		assert.True(t, names[want], want)
	}
}

func TestArchiveResolvesNameCollision(t *testing.T) {
	target := filepath.Join(t.TempDir(), "dup.mcpr")
	require.NoError(t, os.WriteFile(target, []byte("existing"), 0o644))

	r, err := NewRecording(filepath.Join(t.TempDir(), "work"), 1)
	require.NoError(t, err)
	require.NoError(t, r.SetMeta(Meta{MCVersion: "1.16.5"}))

	finalPath, err := r.Archive(target)
	require.NoError(t, err)
	assert.NotEqual(t, target, finalPath)
	assert.Equal(t, filepath.Join(filepath.Dir(target), "dup_2.mcpr"), finalPath)
}

func TestFileFormatVersionFor(t *testing.T) {
	assert.Equal(t, 6, FileFormatVersionFor("1.12"))
	assert.Equal(t, 9, FileFormatVersionFor("1.12.2"))
	assert.Equal(t, CurrentFileFormatVersion, FileFormatVersionFor("1.16.5"))
}

func TestSetMetaMarshalsPlayers(t *testing.T) {
	r, err := NewRecording(filepath.Join(t.TempDir(), "work"), 1)
	require.NoError(t, err)
	require.NoError(t, r.SetMeta(Meta{Players: []string{"a", "b"}, MCVersion: "1.16.5"}))

	b, err := os.ReadFile(r.file("metaData.json"))
	require.NoError(t, err)
	var decoded Meta
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, []string{"a", "b"}, decoded.Players)
	assert.Equal(t, "PCRC", decoded.Generator)
}
