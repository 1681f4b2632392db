// pkg/core/types.go
package core

// Point2D is a single annotation point in stream-local pixel coordinates,
// captured as-is from the pointer device. The JSON form is the on-wire
// representation used inside annotation payloads.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is the full point history of one stream's drawing overlay. A nil
// element is a break sentinel: it terminates one continuous pen-down drag,
// and points on either side of it must never be connected. A stroke with
// zero points renders nothing; adjacent breaks are permitted no-ops.
type Stroke []*Point2D

// Break returns the break sentinel. Appending Break() to a stroke ends the
// current drag segment.
func Break() *Point2D { return nil }

// PointCount returns the number of actual points, excluding breaks.
func (s Stroke) PointCount() int {
	n := 0
	for _, p := range s {
		if p != nil {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the stroke contains no points at all. A stroke
// holding only break sentinels is still empty for rendering purposes.
func (s Stroke) IsEmpty() bool {
	return s.PointCount() == 0
}

// Segments splits the stroke on break sentinels into its continuous drag
// runs, in capture order. Runs are never empty; adjacent breaks produce no
// run at all.
func (s Stroke) Segments() [][]Point2D {
	var segs [][]Point2D
	var cur []Point2D
	for _, p := range s {
		if p == nil {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, *p)
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

// Clone returns a deep copy. Mutating the copy (or the points it holds)
// never affects the original.
func (s Stroke) Clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	for i, p := range s {
		if p == nil {
			continue
		}
		c := *p
		out[i] = &c
	}
	return out
}
