// Package ledger holds the append-only history of marked frames for one
// review session.
package ledger

import (
	"sync"

	"github.com/reelmark/reelmark/pkg/core"
)

// Ledger records every mark taken during a review in insertion order, which
// is mark order: not time order, not stream order. Entries are never
// reordered or edited; the only destructive operation is a wholesale Clear.
type Ledger struct {
	mu     sync.Mutex
	frames []core.MarkedFrame
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		frames: make([]core.MarkedFrame, 0),
	}
}

// Append adds one frame at the end. No deduplication: two marks with
// identical stream, time and payload stay two distinct entries.
func (l *Ledger) Append(f core.MarkedFrame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, f)
}

// All returns a copy of every frame in insertion order. Mutating the copy
// never affects the ledger.
func (l *Ledger) All() []core.MarkedFrame {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.MarkedFrame, len(l.frames))
	copy(out, l.frames)
	return out
}

// IsEmpty reports whether no marks have been recorded.
func (l *Ledger) IsEmpty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames) == 0
}

// Len returns the number of recorded marks.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

// Clear empties the ledger. Single historical entries can never be removed.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = l.frames[:0]
}
