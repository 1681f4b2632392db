// internal/storage/factory_test.go
package storage_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelmark/reelmark/internal/config"
	"github.com/reelmark/reelmark/internal/storage"
)

func TestNewBackend_Memory(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{
		Backend: "memory",
		Memory:  config.MemoryConfig{OutputDir: t.TempDir()},
	}, zerolog.Nop())

	require.NoError(t, err)
	require.NotNil(t, b)

	// The memory backend produces an uploadable snapshot file.
	_, ok := b.(storage.Uploadable)
	assert.True(t, ok)
}

func TestNewBackend_Gorm(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{Backend: "gorm"}, zerolog.Nop())

	require.NoError(t, err)
	require.NotNil(t, b)

	// Not initialized here: Init would connect a database.
	_, ok := b.(storage.Uploadable)
	assert.False(t, ok)
}

func TestNewBackend_Websocket(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{
		Backend:   "websocket",
		Websocket: config.WebsocketConfig{URL: "ws://localhost:1/feed"},
	}, zerolog.Nop())

	require.NoError(t, err)
	require.NotNil(t, b)
}

func TestNewBackend_None(t *testing.T) {
	for _, name := range []string{"none", ""} {
		b, err := storage.NewBackend(config.StorageConfig{Backend: name}, zerolog.Nop())
		require.NoError(t, err)
		assert.Nil(t, b)
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{Backend: "carrier-pigeon"}, zerolog.Nop())

	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrUnknownBackend))
	assert.Contains(t, err.Error(), "carrier-pigeon")
	assert.Nil(t, b)
}
