// Package session models the per-stream state of a review: one loaded
// video, its playback handle, its annotation recorder, and the registry
// that owns them all.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/reelmark/reelmark/internal/annotation"
	"github.com/reelmark/reelmark/pkg/core"
	"github.com/reelmark/reelmark/pkg/playback"
)

// ErrDisposed is returned by every operation on a session whose handle has
// already been released. Hitting it is a logic fault in the caller, not a
// user-facing condition.
var ErrDisposed = errors.New("session disposed")

// StreamSession binds one loaded stream: its stable 1-based id, display
// name, playback handle, annotation recorder and playback rate. Sessions
// are created by Registry.AddStream and released exactly once, either
// individually or by Registry.CloseAll.
type StreamSession struct {
	mu       sync.Mutex
	id       uint
	name     string
	handle   playback.Handle
	recorder *annotation.Recorder
	speed    float64
	aspect   float64
	disposed bool
}

func newSession(id uint, name string, handle playback.Handle) (*StreamSession, error) {
	if handle == nil {
		return nil, fmt.Errorf("stream %q has no playable handle: %w", name, playback.ErrInitialization)
	}
	return &StreamSession{
		id:       id,
		name:     name,
		handle:   handle,
		recorder: annotation.NewRecorder(),
		speed:    1.0,
		aspect:   handle.AspectRatio(),
	}, nil
}

// ID returns the 1-based id, stable for the review lifetime.
func (s *StreamSession) ID() uint { return s.id }

// DisplayName returns the name the stream was loaded under.
func (s *StreamSession) DisplayName() string { return s.name }

// Speed returns the last playback rate stored by SetSpeed.
func (s *StreamSession) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// IsPlaying reports the handle's playback state; false once disposed.
func (s *StreamSession) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return false
	}
	return s.handle.IsPlaying()
}

// Info returns a plain snapshot for storage and streaming layers.
func (s *StreamSession) Info() core.StreamInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.StreamInfo{
		ID:            s.id,
		DisplayName:   s.name,
		AspectRatio:   s.aspect,
		PlaybackSpeed: s.speed,
	}
}

// Play starts playback. Already playing is a no-op.
func (s *StreamSession) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	return s.handle.Play()
}

// Pause halts playback. Already paused is a no-op.
func (s *StreamSession) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	return s.handle.Pause()
}

// SetSpeed stores the rate and forwards it to the handle. The session
// accepts whatever it is given; the [0.1, 2.0] policy window is enforced by
// callers (see parser.ParseSpeed).
func (s *StreamSession) SetSpeed(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	s.speed = v
	return s.handle.SetPlaybackSpeed(v)
}

// Mark snapshots the current playback position together with the current
// annotation state. Strokes are NOT cleared: a stream may be marked many
// times with the same or an evolving drawing. The caller owns appending the
// frame to the ledger.
func (s *StreamSession) Mark() (core.MarkedFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return core.MarkedFrame{}, ErrDisposed
	}

	pos, err := s.handle.CurrentPositionSeconds()
	if err != nil {
		return core.MarkedFrame{}, fmt.Errorf("mark stream %d: read position: %w", s.id, err)
	}
	if pos < 0 {
		pos = 0
	}

	payload, err := annotation.EncodePayload(s.recorder.Stroke())
	if err != nil {
		return core.MarkedFrame{}, fmt.Errorf("mark stream %d: %w", s.id, err)
	}

	return core.MarkedFrame{
		StreamID:    s.id,
		TimeSeconds: pos,
		Annotations: payload,
	}, nil
}

// Position reports the current playback position in seconds.
func (s *StreamSession) Position() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return 0, ErrDisposed
	}
	return s.handle.CurrentPositionSeconds()
}

// ClearDrawing irreversibly empties the stream's strokes.
func (s *StreamSession) ClearDrawing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	s.recorder.Clear()
	return nil
}

// PointerDown forwards a drag start to the recorder.
func (s *StreamSession) PointerDown(p core.Point2D) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	s.recorder.PointerDown(p)
	return nil
}

// PointerMove forwards a drag point to the recorder.
func (s *StreamSession) PointerMove(p core.Point2D) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	s.recorder.PointerMove(p)
	return nil
}

// PointerUp terminates the active drag.
func (s *StreamSession) PointerUp() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	s.recorder.PointerUp()
	return nil
}

// Stroke returns a snapshot of the current annotation state.
func (s *StreamSession) Stroke() core.Stroke {
	return s.recorder.Stroke()
}

// Close releases the handle. Exactly-once: the first call wins, every later
// operation (including Close) reports ErrDisposed.
func (s *StreamSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	s.disposed = true
	if err := s.handle.Close(); err != nil {
		return fmt.Errorf("release stream %d handle: %w", s.id, err)
	}
	return nil
}
