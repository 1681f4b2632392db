// Package convert provides functions to convert between GORM models and
// core models
package convert

import (
	"github.com/reelmark/reelmark/internal/model"
	"github.com/reelmark/reelmark/pkg/core"
	"gorm.io/datatypes"
)

// annotationsToJSON wraps the payload text as a JSON column value. An empty
// payload archives as the empty stroke rather than invalid JSON.
func annotationsToJSON(payload string) datatypes.JSON {
	if payload == "" {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(payload)
}

// CoreToReview converts a core.ReviewInfo to a GORM model.Review.
func CoreToReview(info core.ReviewInfo) model.Review {
	return model.Review{
		ReviewID:  info.ID,
		Title:     info.Title,
		StartedAt: info.StartedAt,
	}
}

// CoreToStream converts a core.StreamInfo to a GORM model.Stream.
// reviewPK is the database primary key of the owning review row.
func CoreToStream(reviewPK uint, info core.StreamInfo) model.Stream {
	return model.Stream{
		ReviewID:      reviewPK,
		StreamID:      info.ID,
		DisplayName:   info.DisplayName,
		AspectRatio:   info.AspectRatio,
		PlaybackSpeed: info.PlaybackSpeed,
	}
}

// CoreToMark converts a core.MarkedFrame to a GORM model.Mark.
func CoreToMark(reviewPK uint, frame core.MarkedFrame) model.Mark {
	return model.Mark{
		ReviewID:    reviewPK,
		StreamID:    frame.StreamID,
		TimeSeconds: frame.TimeSeconds,
		Annotations: annotationsToJSON(frame.Annotations),
	}
}
