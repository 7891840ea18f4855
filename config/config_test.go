package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg, wasMissing, err := Load(path)
	require.NoError(t, err)
	assert.True(t, wasMissing)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)
}

func TestLoadRoundTripsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg := Default()
	cfg.ServerName = "my server"
	cfg.Port = 25577
	require.NoError(t, Save(path, cfg))

	loaded, wasMissing, err := Load(path)
	require.NoError(t, err)
	assert.False(t, wasMissing)
	assert.Equal(t, "my server", loaded.ServerName)
	assert.EqualValues(t, 25577, loaded.Port)
}

func TestLoadFillsMissingOptionsFromPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"server_name":"partial"}`), 0o644))

	cfg, wasMissing, err := Load(path)
	require.NoError(t, err)
	assert.False(t, wasMissing)
	assert.Equal(t, "partial", cfg.ServerName)
	assert.Equal(t, Default().CommandPrefix, cfg.CommandPrefix)
}

func TestSaveProducesIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n    \"language\"")
}

func TestIsSettable(t *testing.T) {
	assert.True(t, IsSettable("server_name"))
	assert.True(t, IsSettable("daytime"))
	assert.False(t, IsSettable("username"))
	assert.False(t, IsSettable("password"))
	assert.False(t, IsSettable("not_a_real_option"))
}
