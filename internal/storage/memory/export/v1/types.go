// Package v1 contains the v1 snapshot format for archived reviews. A
// snapshot is self-contained: everything a reader needs to replay the
// review's marks is in the one file.
package v1

import (
	"encoding/json"
	"time"
)

// Snapshot is the root JSON structure for the v1 format.
type Snapshot struct {
	Version   int       `json:"version"`
	ReviewID  string    `json:"reviewId"`
	Title     string    `json:"title"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Streams   []Stream  `json:"streams"`
	Marks     []Mark    `json:"marks"`
}

// Stream is one video registered in the review.
type Stream struct {
	ID            uint    `json:"id"`
	DisplayName   string  `json:"displayName"`
	AspectRatio   float64 `json:"aspectRatio"`
	PlaybackSpeed float64 `json:"playbackSpeed"`
}

// Mark is one captured frame. Annotations embeds the stroke list verbatim
// as nested JSON rather than a quoted string.
type Mark struct {
	StreamID    uint            `json:"streamId"`
	TimeSeconds float64         `json:"timeSeconds"`
	Annotations json.RawMessage `json:"annotations"`
}
