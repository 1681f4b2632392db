package v1

import (
	"encoding/json"
	"time"

	"github.com/reelmark/reelmark/pkg/core"
)

// SchemaVersion is stamped into every snapshot this package builds.
const SchemaVersion = 1

// ReviewData contains all the data needed to build a snapshot.
type ReviewData struct {
	Review  core.ReviewInfo
	EndedAt time.Time
	Streams []core.StreamInfo
	Marks   []core.MarkedFrame
}

// Build creates a Snapshot from accumulated review data. Streams and marks
// keep their recorded order.
func Build(data *ReviewData) Snapshot {
	snapshot := Snapshot{
		Version:   SchemaVersion,
		ReviewID:  data.Review.ID,
		Title:     data.Review.Title,
		StartedAt: data.Review.StartedAt,
		EndedAt:   data.EndedAt,
		Streams:   make([]Stream, 0, len(data.Streams)),
		Marks:     make([]Mark, 0, len(data.Marks)),
	}

	for _, s := range data.Streams {
		snapshot.Streams = append(snapshot.Streams, Stream{
			ID:            s.ID,
			DisplayName:   s.DisplayName,
			AspectRatio:   s.AspectRatio,
			PlaybackSpeed: s.PlaybackSpeed,
		})
	}

	for _, m := range data.Marks {
		snapshot.Marks = append(snapshot.Marks, Mark{
			StreamID:    m.StreamID,
			TimeSeconds: m.TimeSeconds,
			Annotations: annotationsRaw(m.Annotations),
		})
	}

	return snapshot
}

// annotationsRaw embeds the serialized stroke list as nested JSON. An empty
// payload becomes the empty stroke list rather than invalid JSON.
func annotationsRaw(payload string) json.RawMessage {
	if payload == "" {
		return json.RawMessage("[]")
	}
	return json.RawMessage(payload)
}
