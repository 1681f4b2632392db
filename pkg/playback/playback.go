// Package playback defines the control surface a video playback engine has
// to expose to the review core, plus a synthetic clock-driven implementation
// used by tests and the demo pipeline. The core never decodes video itself;
// it only drives handles.
package playback

import (
	"context"
	"errors"
	"io"
)

// ErrInitialization marks a source that could not be turned into a playable
// handle. Batch loaders skip the file and keep going; no partial stream is
// ever registered for it.
var ErrInitialization = errors.New("playback: handle initialization failed")

// ErrClosed is returned by every operation on a handle that has already
// been released.
var ErrClosed = errors.New("playback: handle closed")

// Handle is the opaque per-stream control surface. Implementations must be
// fully initialized (playback-ready) before they are handed to the core.
type Handle interface {
	Play() error
	Pause() error

	// SetPlaybackSpeed forwards a rate multiplier to the engine. The core
	// stores and forwards whatever it is given; range policy lives with
	// the caller.
	SetPlaybackSpeed(v float64) error

	// CurrentPositionSeconds reports the playback position in seconds
	// from stream start.
	CurrentPositionSeconds() (float64, error)

	AspectRatio() float64
	IsPlaying() bool

	// Close releases the engine resources behind the handle. Callers
	// release a handle exactly once.
	Close() error
}

// Opener is the file-intake collaborator: it turns one named byte source
// into an initialized Handle, or fails with an error wrapping
// ErrInitialization.
type Opener interface {
	Open(ctx context.Context, name string, src io.Reader) (Handle, error)
}
