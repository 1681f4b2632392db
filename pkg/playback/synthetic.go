package playback

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Synthetic is a Handle backed by a wall clock instead of a decoder: while
// playing, its position advances by speed times elapsed time, clamped to
// the stream duration. Tests and the demo pipeline use it in place of a
// real engine.
type Synthetic struct {
	mu       sync.Mutex
	duration float64
	aspect   float64
	speed    float64
	playing  bool
	position float64 // accumulated seconds as of the last state change
	since    time.Time
	closed   bool
	now      func() time.Time
}

// NewSynthetic returns a paused handle at position zero with speed 1.0.
// A zero duration means unbounded.
func NewSynthetic(durationSeconds, aspectRatio float64) *Synthetic {
	return &Synthetic{
		duration: durationSeconds,
		aspect:   aspectRatio,
		speed:    1.0,
		now:      time.Now,
	}
}

func (s *Synthetic) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.playing {
		return nil
	}
	s.playing = true
	s.since = s.now()
	return nil
}

func (s *Synthetic) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.playing {
		return nil
	}
	s.position = s.positionLocked()
	s.playing = false
	return nil
}

func (s *Synthetic) SetPlaybackSpeed(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if v <= 0 {
		return fmt.Errorf("playback: speed must be positive, got %v", v)
	}
	// Settle the position under the old rate before switching.
	s.position = s.positionLocked()
	if s.playing {
		s.since = s.now()
	}
	s.speed = v
	return nil
}

func (s *Synthetic) CurrentPositionSeconds() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.positionLocked(), nil
}

// SeekTo moves the position to the given second. Synthetic-only; the Handle
// contract does not require seeking.
func (s *Synthetic) SeekTo(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if seconds < 0 {
		seconds = 0
	}
	s.position = seconds
	if s.playing {
		s.since = s.now()
	}
	return nil
}

func (s *Synthetic) AspectRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aspect
}

func (s *Synthetic) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing && !s.closed
}

func (s *Synthetic) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.position = s.positionLocked()
	s.playing = false
	s.closed = true
	return nil
}

func (s *Synthetic) positionLocked() float64 {
	pos := s.position
	if s.playing {
		pos += s.now().Sub(s.since).Seconds() * s.speed
	}
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	return pos
}

// SyntheticOpener fabricates Synthetic handles for tests and the demo.
// Sources whose name appears in Reject fail with ErrInitialization, which
// is how callers exercise partial batch failures.
type SyntheticOpener struct {
	Duration    float64 // seconds per fabricated handle, 0 = unbounded
	AspectRatio float64 // 0 = 16:9
	Reject      map[string]string
}

func (o *SyntheticOpener) Open(ctx context.Context, name string, src io.Reader) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if reason, ok := o.Reject[name]; ok {
		return nil, fmt.Errorf("open %q: %s: %w", name, reason, ErrInitialization)
	}
	if src != nil {
		if _, err := io.Copy(io.Discard, src); err != nil {
			return nil, fmt.Errorf("open %q: read source: %w", name, ErrInitialization)
		}
	}
	aspect := o.AspectRatio
	if aspect == 0 {
		aspect = 16.0 / 9.0
	}
	return NewSynthetic(o.Duration, aspect), nil
}
