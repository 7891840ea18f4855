package protover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownVersions(t *testing.T) {
	for _, label := range []string{"1.12", "1.12.2", "1.16.5", "1.18.2"} {
		v, err := Lookup(label)
		require.NoError(t, err)
		assert.Equal(t, label, v.Label)
		assert.Greater(t, v.Protocol, int32(0))
	}
}

func TestLookupUnsupportedVersionRefuses(t *testing.T) {
	_, err := Lookup("1.20")
	require.Error(t, err)
	var e *ErrUnsupportedVersion
	require.ErrorAs(t, err, &e)
}

func TestFileFormatVersionMatchesSpec(t *testing.T) {
	v112, _ := Lookup("1.12")
	v1122, _ := Lookup("1.12.2")
	v16, _ := Lookup("1.16.5")
	assert.Equal(t, 6, v112.FileFormatVersion)
	assert.Equal(t, 9, v1122.FileFormatVersion)
	assert.Equal(t, 14, v16.FileFormatVersion)
}

func TestByProtocolRoundTrip(t *testing.T) {
	v, err := Lookup("1.16.5")
	require.NoError(t, err)
	got, err := ByProtocol(v.Protocol)
	require.NoError(t, err)
	assert.Equal(t, int32(754), got.Protocol)
}

func TestPacketTableForEachVersion(t *testing.T) {
	for label := range Versions {
		tab, err := PacketTableFor(label)
		require.NoError(t, err, label)
		id, ok := tab.IDOf("Time Update")
		require.True(t, ok, label)
		name, ok := tab.NameOf(id)
		require.True(t, ok)
		assert.Equal(t, "Time Update", name)
	}
}
