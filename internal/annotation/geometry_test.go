package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelmark/reelmark/pkg/core"
)

func strokeOf(points ...*core.Point2D) core.Stroke { return core.Stroke(points) }

func TestMultiLineString(t *testing.T) {
	p := func(x, y float64) *core.Point2D { return &core.Point2D{X: x, Y: y} }

	s := strokeOf(
		p(0, 0), p(3, 0), p(3, 4), core.Break(), // two-edge segment
		p(9, 9), core.Break(), // single point, no ink
		p(0, 0), p(1, 0), // open drag
	)

	mls := MultiLineString(s)
	assert.Equal(t, 2, mls.NumLineStrings(), "single-point runs carry no ink")
}

func TestInkLength(t *testing.T) {
	p := func(x, y float64) *core.Point2D { return &core.Point2D{X: x, Y: y} }

	s := strokeOf(p(0, 0), p(3, 0), p(3, 4), core.Break(), p(0, 0), p(0, 2))
	assert.InDelta(t, 9.0, InkLength(s), 1e-9)

	assert.Equal(t, 0.0, InkLength(core.Stroke{}))
	assert.Equal(t, 0.0, InkLength(strokeOf(p(5, 5))))
}

func TestBoundingBox(t *testing.T) {
	p := func(x, y float64) *core.Point2D { return &core.Point2D{X: x, Y: y} }

	min, max, ok := BoundingBox(strokeOf(p(3, -1), core.Break(), p(-2, 7), p(5, 0)))
	require.True(t, ok)
	assert.Equal(t, core.Point2D{X: -2, Y: -1}, min)
	assert.Equal(t, core.Point2D{X: 5, Y: 7}, max)

	_, _, ok = BoundingBox(strokeOf(core.Break()))
	assert.False(t, ok)
}

func TestNormalizeDenormalize(t *testing.T) {
	p := func(x, y float64) *core.Point2D { return &core.Point2D{X: x, Y: y} }

	s := strokeOf(p(192, 54), core.Break(), p(960, 1080))

	n := Normalize(s, 1920, 1080)
	require.Equal(t, 2, n.PointCount())
	assert.InDelta(t, 0.1, n[0].X, 1e-9)
	assert.InDelta(t, 0.05, n[0].Y, 1e-9)
	assert.Nil(t, n[1])
	assert.InDelta(t, 0.5, n[2].X, 1e-9)
	assert.InDelta(t, 1.0, n[2].Y, 1e-9)

	back := Denormalize(n, 1920, 1080)
	for i := range s {
		if s[i] == nil {
			assert.Nil(t, back[i])
			continue
		}
		assert.InDelta(t, s[i].X, back[i].X, 1e-9)
		assert.InDelta(t, s[i].Y, back[i].Y, 1e-9)
	}

	// Degenerate bounds leave the axis untouched.
	same := Normalize(s, 0, -10)
	assert.Equal(t, s[0].X, same[0].X)
	assert.Equal(t, s[0].Y, same[0].Y)
}
