// Package annotation captures freehand drawing input for one stream and
// handles the serialized payload form that marked frames carry.
package annotation

import (
	"sync"

	"github.com/reelmark/reelmark/pkg/core"
)

// Recorder folds a stream's pointer-drag events into its stroke list. One
// recorder belongs to exactly one stream session. Drags separated by
// pointer-up stay visually separate segments within the same stroke list;
// only Clear empties the list.
type Recorder struct {
	mu     sync.Mutex
	stroke core.Stroke
	down   bool
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// PointerDown begins a drag with its first point. If the previous drag was
// never terminated, a break is inserted first so the two segments cannot
// merge.
func (r *Recorder) PointerDown(p core.Point2D) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.stroke); n > 0 && r.stroke[n-1] != nil {
		r.stroke = append(r.stroke, core.Break())
	}
	pt := p
	r.stroke = append(r.stroke, &pt)
	r.down = true
}

// PointerMove appends a point to the active drag. Moves arriving with no
// drag active are ignored.
func (r *Recorder) PointerMove(p core.Point2D) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.down {
		return
	}
	pt := p
	r.stroke = append(r.stroke, &pt)
}

// PointerUp terminates the active drag with a break sentinel.
func (r *Recorder) PointerUp() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.down {
		return
	}
	r.stroke = append(r.stroke, core.Break())
	r.down = false
}

// Clear irreversibly empties the stroke list and abandons any active drag.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stroke = nil
	r.down = false
}

// Stroke returns a snapshot of the stroke list. The snapshot is independent
// of later recorder mutations.
func (r *Recorder) Stroke() core.Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stroke.Clone()
}

// IsEmpty reports whether any points have been captured since the last Clear.
func (r *Recorder) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stroke.IsEmpty()
}
