package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reelmark/reelmark/pkg/core"
)

func TestRecorderSingleDrag(t *testing.T) {
	r := NewRecorder()

	r.PointerDown(core.Point2D{X: 1, Y: 1})
	r.PointerMove(core.Point2D{X: 2, Y: 2})
	r.PointerMove(core.Point2D{X: 3, Y: 3})
	r.PointerUp()

	s := r.Stroke()
	assert.Len(t, s, 4)
	assert.Equal(t, 3, s.PointCount())
	assert.Nil(t, s[3], "drag must end with a break")

	segs := s.Segments()
	assert.Len(t, segs, 1)
	assert.Equal(t, []core.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}, segs[0])
}

func TestRecorderSeparateDragsStaySeparate(t *testing.T) {
	r := NewRecorder()

	r.PointerDown(core.Point2D{X: 1, Y: 1})
	r.PointerUp()
	r.PointerDown(core.Point2D{X: 5, Y: 5})
	r.PointerMove(core.Point2D{X: 6, Y: 6})
	r.PointerUp()

	segs := r.Stroke().Segments()
	assert.Len(t, segs, 2)
	assert.Equal(t, []core.Point2D{{X: 1, Y: 1}}, segs[0])
	assert.Equal(t, []core.Point2D{{X: 5, Y: 5}, {X: 6, Y: 6}}, segs[1])
}

func TestRecorderUnterminatedDragGetsBreakOnNextDown(t *testing.T) {
	r := NewRecorder()

	// No PointerUp between drags.
	r.PointerDown(core.Point2D{X: 1, Y: 1})
	r.PointerMove(core.Point2D{X: 2, Y: 2})
	r.PointerDown(core.Point2D{X: 9, Y: 9})

	segs := r.Stroke().Segments()
	assert.Len(t, segs, 2, "segments must never merge across a new pointer-down")
}

func TestRecorderIgnoresMoveAndUpWithoutDown(t *testing.T) {
	r := NewRecorder()

	r.PointerMove(core.Point2D{X: 1, Y: 1})
	r.PointerUp()
	assert.True(t, r.IsEmpty())
	assert.Len(t, r.Stroke(), 0)
}

func TestRecorderClear(t *testing.T) {
	r := NewRecorder()
	r.PointerDown(core.Point2D{X: 1, Y: 1})
	r.PointerUp()

	r.Clear()
	assert.True(t, r.IsEmpty())

	// Capture still works after a clear.
	r.PointerDown(core.Point2D{X: 2, Y: 2})
	assert.Equal(t, 1, r.Stroke().PointCount())
}

func TestRecorderOutOfBoundsAcceptedAsIs(t *testing.T) {
	r := NewRecorder()
	r.PointerDown(core.Point2D{X: -100, Y: 1e9})
	r.PointerUp()

	segs := r.Stroke().Segments()
	assert.Equal(t, []core.Point2D{{X: -100, Y: 1e9}}, segs[0])
}

func TestRecorderSnapshotIndependence(t *testing.T) {
	r := NewRecorder()
	r.PointerDown(core.Point2D{X: 1, Y: 1})

	snap := r.Stroke()
	r.PointerMove(core.Point2D{X: 2, Y: 2})

	assert.Equal(t, 1, snap.PointCount(), "snapshot must not grow with the recorder")
}
