package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTripUncompressed(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	body := []byte{1, 2, 3, 4, 5}
	require.NoError(t, w.WritePacket(0x26, body))

	r := NewFrameReader(&buf)
	pkt, err := r.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, int32(0x26), pkt.ID)
	assert.Equal(t, body, pkt.Body)
}

func TestFrameRoundTripCompressed(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	w.SetCompression(4)

	big := bytes.Repeat([]byte{0xAB}, 1024)
	small := []byte{0x01}

	require.NoError(t, w.WritePacket(1, big))
	require.NoError(t, w.WritePacket(2, small))

	r := NewFrameReader(&buf)
	r.SetCompression(4)

	p1, err := r.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, int32(1), p1.ID)
	assert.Equal(t, big, p1.Body)

	p2, err := r.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, int32(2), p2.ID)
	assert.Equal(t, small, p2.Body)
}

func TestFramePreservesRawBytes(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	body := []byte("hello world")
	require.NoError(t, w.WritePacket(7, body))

	r := NewFrameReader(&buf)
	pkt, err := r.ReadPacket()
	require.NoError(t, err)

	expected := PutVarInt(nil, 7)
	expected = append(expected, body...)
	assert.Equal(t, expected, pkt.Raw)
}
