package pcrclog

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultsLevelAndHook(t *testing.T) {
	log := New(Options{FilePath: filepath.Join(t.TempDir(), "pcrc.log")})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Len(t, log.Hooks[logrus.InfoLevel], 1)
}

func TestNewDebugLevel(t *testing.T) {
	log := New(Options{Debug: true, FilePath: filepath.Join(t.TempDir(), "pcrc.log")})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewWritesLogLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcrc.log")
	log := New(Options{FilePath: path})
	log.Info("hello")
	assert.FileExists(t, path)
}
