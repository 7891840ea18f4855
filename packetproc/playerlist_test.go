package packetproc

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPlayerListManagerLifecycle(t *testing.T) {
	m := NewPlayerListManager()
	id := uuid.New()

	m.Add(id, "Steve", 0, 10, "")
	p, ok := m.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "Steve", p.Name)
	assert.Equal(t, 1, m.Len())

	m.UpdateGamemode(id, 1)
	p, _ = m.Get(id)
	assert.Equal(t, int32(1), p.Gamemode)

	m.UpdateLatency(id, 42)
	p, _ = m.Get(id)
	assert.Equal(t, int32(42), p.Ping)

	m.UpdateDisplayName(id, "<Steve>")
	p, _ = m.Get(id)
	assert.Equal(t, "<Steve>", p.DisplayName)

	m.Remove(id)
	_, ok = m.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}
