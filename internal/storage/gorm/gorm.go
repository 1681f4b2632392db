// internal/storage/gorm/gorm.go

// Package gormstorage archives review activity to a relational database
// through the shared database manager. Reviews and streams are written
// synchronously because they are low-volume and later rows reference them;
// marks are buffered in a queue and drained in batches by a background
// writer.
package gormstorage

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/reelmark/reelmark/internal/database"
	"github.com/reelmark/reelmark/internal/model"
	"github.com/reelmark/reelmark/internal/model/convert"
	"github.com/reelmark/reelmark/internal/queue"
	"github.com/reelmark/reelmark/pkg/core"
)

const (
	defaultFlushInterval = 3 * time.Second
	defaultQueueSize     = 256
)

// Dependencies holds everything the backend needs injected. A nil Manager
// puts the backend in queue-only mode: marks accumulate but nothing is
// written, which is how the unit tests exercise the queueing paths.
type Dependencies struct {
	Manager       *database.Manager
	FlushInterval time.Duration
	QueueSize     int
	Logger        zerolog.Logger
}

// Backend implements storage.Backend on top of GORM.
type Backend struct {
	deps  Dependencies
	marks *queue.Queue[model.Mark]

	// DB primary key of the active review row; stamped onto queued marks
	// at drain time, mirrored from StartReview.
	reviewPK atomic.Uint64

	stopChan  chan struct{}
	flushChan chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates the backend. Zero FlushInterval and QueueSize fall back to
// the package defaults.
func New(deps Dependencies) *Backend {
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = defaultFlushInterval
	}
	if deps.QueueSize <= 0 {
		deps.QueueSize = defaultQueueSize
	}
	return &Backend{
		deps:  deps,
		marks: queue.New[model.Mark](),
	}
}

// Init connects the database manager, migrates the archive schema and
// starts the background writer. Queue-only mode skips all of that.
func (b *Backend) Init() error {
	if b.deps.Manager == nil {
		return nil
	}

	if err := b.deps.Manager.Connect(); err != nil {
		return fmt.Errorf("failed to connect archive database: %w", err)
	}
	if err := b.deps.Manager.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate archive schema: %w", err)
	}

	b.stopChan = make(chan struct{})
	b.flushChan = make(chan struct{}, 1)

	b.wg.Add(1)
	go b.writerLoop()

	return nil
}

// Close stops the writer, flushes what is left and releases the database.
// Safe to call more than once.
func (b *Backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if b.stopChan != nil {
			close(b.stopChan)
			b.wg.Wait()
		}
		if b.deps.Manager != nil {
			err = b.deps.Manager.Close()
		}
	})
	return err
}

// StartReview inserts the review row and remembers its primary key for the
// writer goroutine.
func (b *Backend) StartReview(info core.ReviewInfo) error {
	db := b.db()
	if db == nil {
		return nil
	}

	row := convert.CoreToReview(info)
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	b.reviewPK.Store(uint64(row.ID))

	b.deps.Logger.Debug().Str("reviewId", info.ID).Uint("pk", row.ID).Msg("Archive review started")
	return nil
}

// EndReview drains the mark queue and stamps the review row's end time.
func (b *Backend) EndReview() error {
	db := b.db()
	if db == nil {
		return nil
	}

	b.writeMarks()

	pk := uint(b.reviewPK.Load())
	if pk == 0 {
		return nil
	}
	if err := db.Model(&model.Review{}).Where("id = ?", pk).Update("ended_at", time.Now()).Error; err != nil {
		return fmt.Errorf("failed to close review row: %w", err)
	}
	return nil
}

// AddStream inserts the stream row synchronously.
func (b *Backend) AddStream(info core.StreamInfo) error {
	db := b.db()
	if db == nil {
		return nil
	}

	row := convert.CoreToStream(uint(b.reviewPK.Load()), info)
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert stream: %w", err)
	}
	return nil
}

// RecordMark pushes the mark to the write queue. A full queue nudges the
// writer instead of blocking the mark path.
func (b *Backend) RecordMark(frame core.MarkedFrame) error {
	b.marks.Push(convert.CoreToMark(0, frame))

	if b.marks.Len() >= b.deps.QueueSize {
		select {
		case b.flushChan <- struct{}{}:
		default:
		}
	}
	return nil
}

func (b *Backend) db() *gorm.DB {
	if b.deps.Manager == nil {
		return nil
	}
	return b.deps.Manager.DB
}

// writerLoop drains the mark queue on a ticker, on demand when the queue
// fills, and once more on shutdown.
func (b *Backend) writerLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			b.writeMarks()
			return
		case <-b.flushChan:
			b.writeMarks()
		case <-ticker.C:
			b.writeMarks()
		}
	}
}

// writeMarks writes one batch of queued marks, stamping the current review
// key. A failed batch is logged and dropped: the in-memory ledger stays
// authoritative and the export path never depends on the archive.
func (b *Backend) writeMarks() {
	if b.marks.Empty() {
		return
	}
	db := b.db()
	if db == nil {
		return
	}

	items := b.marks.Drain()
	reviewPK := uint(b.reviewPK.Load())
	for i := range items {
		items[i].ReviewID = reviewPK
	}

	if err := db.Create(&items).Error; err != nil {
		b.deps.Logger.Error().Err(err).Int("count", len(items)).Msg("Failed to archive mark batch")
		return
	}
	b.deps.Logger.Debug().Int("count", len(items)).Msg("Archived mark batch")
}
