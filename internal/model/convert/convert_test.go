package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reelmark/reelmark/internal/model"
	"github.com/reelmark/reelmark/pkg/core"
)

func TestCoreToMarkAndBack(t *testing.T) {
	frame := core.MarkedFrame{
		StreamID:    2,
		TimeSeconds: 12.34,
		Annotations: `[{"x":1,"y":2},null]`,
	}

	m := CoreToMark(7, frame)
	assert.Equal(t, uint(7), m.ReviewID)
	assert.Equal(t, uint(2), m.StreamID)
	assert.Equal(t, 12.34, m.TimeSeconds)
	assert.Equal(t, `[{"x":1,"y":2},null]`, string(m.Annotations))

	back := MarkToCore(m)
	assert.Equal(t, frame, back)
}

func TestCoreToMark_EmptyAnnotations(t *testing.T) {
	m := CoreToMark(1, core.MarkedFrame{StreamID: 1, TimeSeconds: 0})
	assert.Equal(t, "[]", string(m.Annotations), "empty payload must archive as valid JSON")
}

func TestCoreToStreamAndBack(t *testing.T) {
	info := core.StreamInfo{
		ID:            3,
		DisplayName:   "cam_rear.mp4",
		AspectRatio:   16.0 / 9.0,
		PlaybackSpeed: 0.5,
	}

	s := CoreToStream(9, info)
	assert.Equal(t, uint(9), s.ReviewID)
	assert.Equal(t, uint(3), s.StreamID)
	assert.Equal(t, "cam_rear.mp4", s.DisplayName)

	assert.Equal(t, info, StreamToCore(s))
}

func TestCoreToReviewAndBack(t *testing.T) {
	started := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	info := core.ReviewInfo{
		ID:        "4b82e6cb-0000-4000-8000-000000000001",
		Title:     "sprint demo",
		StartedAt: started,
	}

	r := CoreToReview(info)
	assert.Equal(t, info.ID, r.ReviewID)
	assert.Equal(t, "sprint demo", r.Title)
	assert.Equal(t, started, r.StartedAt)

	assert.Equal(t, info, ReviewToCore(r))
}

func TestMarkToCore_KeepsPayloadVerbatim(t *testing.T) {
	m := model.Mark{
		StreamID:    1,
		TimeSeconds: 59.999,
		Annotations: []byte(`[{"x":0.5,"y":0.25},{"x":1,"y":1},null,{"x":2,"y":2},null]`),
	}

	frame := MarkToCore(m)
	assert.Equal(t, `[{"x":0.5,"y":0.25},{"x":1,"y":1},null,{"x":2,"y":2},null]`, frame.Annotations)
}
