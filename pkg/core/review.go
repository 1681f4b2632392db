// pkg/core/review.go
package core

import "time"

// ReviewInfo identifies one review session. It travels with every archival
// and streaming record so marks from different sittings never mix.
type ReviewInfo struct {
	ID        string // uuid, assigned when the review context is created
	Title     string
	StartedAt time.Time
}

// StreamInfo is a plain snapshot of one loaded stream, handed to storage and
// streaming layers so they never need to touch a live session.
type StreamInfo struct {
	ID            uint
	DisplayName   string
	AspectRatio   float64
	PlaybackSpeed float64
}
