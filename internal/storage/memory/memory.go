// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/reelmark/reelmark/internal/config"
	"github.com/reelmark/reelmark/pkg/core"
)

// Backend accumulates review data in memory and exports a JSON snapshot
// when the review ends. It is the default backend: no server, no schema,
// one portable artifact per review.
type Backend struct {
	cfg config.MemoryConfig

	review  core.ReviewInfo
	endedAt time.Time
	streams []core.StreamInfo
	marks   []core.MarkedFrame
	started bool

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:     cfg,
		streams: make([]core.StreamInfo, 0),
		marks:   make([]core.MarkedFrame, 0),
	}
}

// Init ensures the output directory exists so a misconfigured path fails
// at startup instead of at review end.
func (b *Backend) Init() error {
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartReview begins accumulating a new review, discarding any prior state.
func (b *Backend) StartReview(info core.ReviewInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.review = info
	b.endedAt = time.Time{}
	b.streams = make([]core.StreamInfo, 0)
	b.marks = make([]core.MarkedFrame, 0)
	b.started = true
	b.lastExportPath = ""

	return nil
}

// EndReview finalizes the review and writes the snapshot file.
func (b *Backend) EndReview() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		return fmt.Errorf("no review in progress")
	}
	b.endedAt = time.Now()

	return b.exportJSON()
}

// AddStream registers a stream loaded into the review.
func (b *Backend) AddStream(info core.StreamInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.streams = append(b.streams, info)
	return nil
}

// RecordMark appends one captured frame. Order is preserved: the snapshot
// lists marks exactly as the ledger recorded them.
func (b *Backend) RecordMark(frame core.MarkedFrame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.marks = append(b.marks, frame)
	return nil
}

// GetExportedFilePath returns the path of the last written snapshot, or ""
// if no review has been exported yet.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
