// internal/storage/storage.go
package storage

import "github.com/reelmark/reelmark/pkg/core"

// Backend is the interface all archival implementations must satisfy.
// Arguments are plain value snapshots: the review context owns identity
// assignment, so backends never write IDs back.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Review management
	StartReview(info core.ReviewInfo) error
	EndReview() error

	// Stream registration
	AddStream(info core.StreamInfo) error

	// Mark recording
	RecordMark(frame core.MarkedFrame) error
}

// Uploadable is an optional interface for storage backends that produce
// a local artifact suitable for upload to a review hub.
type Uploadable interface {
	GetExportedFilePath() string
}
