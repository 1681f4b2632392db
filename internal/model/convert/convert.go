// Package convert provides functions to convert between GORM models and
// core models
package convert

import (
	"github.com/reelmark/reelmark/internal/model"
	"github.com/reelmark/reelmark/pkg/core"
)

// ReviewToCore converts a GORM Review to a core.ReviewInfo.
func ReviewToCore(r model.Review) core.ReviewInfo {
	return core.ReviewInfo{
		ID:        r.ReviewID,
		Title:     r.Title,
		StartedAt: r.StartedAt,
	}
}

// StreamToCore converts a GORM Stream to a core.StreamInfo.
func StreamToCore(s model.Stream) core.StreamInfo {
	return core.StreamInfo{
		ID:            s.StreamID,
		DisplayName:   s.DisplayName,
		AspectRatio:   s.AspectRatio,
		PlaybackSpeed: s.PlaybackSpeed,
	}
}

// MarkToCore converts a GORM Mark to a core.MarkedFrame. The annotation
// payload travels as raw JSON text in both representations.
func MarkToCore(m model.Mark) core.MarkedFrame {
	return core.MarkedFrame{
		StreamID:    m.StreamID,
		TimeSeconds: m.TimeSeconds,
		Annotations: string(m.Annotations),
	}
}
