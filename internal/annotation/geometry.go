package annotation

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/reelmark/reelmark/pkg/core"
)

// MultiLineString converts a stroke's drawable runs into simplefeatures
// geometry, one LineString per drag segment. Runs of fewer than two points
// carry no ink and are skipped.
func MultiLineString(s core.Stroke) geom.MultiLineString {
	var lines []geom.LineString
	for _, seg := range s.Segments() {
		if len(seg) < 2 {
			continue
		}
		flat := make([]float64, 0, len(seg)*2)
		for _, p := range seg {
			flat = append(flat, p.X, p.Y)
		}
		lines = append(lines, geom.NewLineString(geom.NewSequence(flat, geom.DimXY)))
	}
	return geom.NewMultiLineString(lines)
}

// InkLength is the summed length of every drawable segment, in capture
// units.
func InkLength(s core.Stroke) float64 {
	return MultiLineString(s).Length()
}

// BoundingBox returns the min and max corners covering every captured point,
// breaks excluded. ok is false for a stroke with no points.
func BoundingBox(s core.Stroke) (min, max core.Point2D, ok bool) {
	for _, p := range s {
		if p == nil {
			continue
		}
		if !ok {
			min, max = *p, *p
			ok = true
			continue
		}
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max, ok
}

// Normalize maps a pixel-space stroke onto the 0-1 unit square for the given
// capture bounds. Capture itself stays in pixel space; consumers that need
// display-size independence opt in through this helper. Zero or negative
// bounds leave coordinates untouched on that axis.
func Normalize(s core.Stroke, width, height float64) core.Stroke {
	return scale(s, safeInv(width), safeInv(height))
}

// Denormalize is the inverse of Normalize for the given target bounds.
func Denormalize(s core.Stroke, width, height float64) core.Stroke {
	sx, sy := 1.0, 1.0
	if width > 0 {
		sx = width
	}
	if height > 0 {
		sy = height
	}
	return scale(s, sx, sy)
}

func safeInv(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return 1 / v
}

func scale(s core.Stroke, sx, sy float64) core.Stroke {
	out := make(core.Stroke, len(s))
	for i, p := range s {
		if p == nil {
			continue
		}
		out[i] = &core.Point2D{X: p.X * sx, Y: p.Y * sy}
	}
	return out
}
