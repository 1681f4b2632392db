// internal/storage/factory.go
package storage

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reelmark/reelmark/internal/config"
	"github.com/reelmark/reelmark/internal/database"
	gormstorage "github.com/reelmark/reelmark/internal/storage/gorm"
	"github.com/reelmark/reelmark/internal/storage/memory"
	"github.com/reelmark/reelmark/internal/storage/websocket"
)

// ErrUnknownBackend is returned when the configured backend name does not
// match any implementation.
var ErrUnknownBackend = errors.New("unknown storage backend")

// NewBackend creates a storage backend based on configuration.
// Backend "none" (or empty) disables archival entirely and returns nil.
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Backend {
	case "memory":
		return memory.New(cfg.Memory), nil
	case "gorm":
		return gormstorage.New(gormstorage.Dependencies{
			Manager:       database.NewManager(log),
			FlushInterval: cfg.Gorm.FlushInterval,
			QueueSize:     cfg.Gorm.QueueSize,
			Logger:        log,
		}), nil
	case "websocket":
		return websocket.New(websocket.Config{
			URL:        cfg.Websocket.URL,
			Token:      cfg.Websocket.Token,
			SendBuffer: cfg.Websocket.SendBuffer,
		}, log), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
