package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/reelmark/reelmark/pkg/core"
	"github.com/reelmark/reelmark/pkg/playback"
)

// Registry is the ordered collection of loaded streams. It exclusively owns
// every session and the playback handles behind them. Sessions are never
// replaced, reordered or removed; ids run 1..N in registration order for
// the registry's whole lifetime.
type Registry struct {
	mu       sync.Mutex
	sessions []*StreamSession
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make([]*StreamSession, 0),
	}
}

// AddStream registers a successfully loaded stream under the next 1-based
// id. A nil handle means initialization failed upstream; nothing is
// registered and the id is not consumed.
func (r *Registry) AddStream(name string, handle playback.Handle) (*StreamSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := newSession(uint(len(r.sessions)+1), name, handle)
	if err != nil {
		return nil, err
	}
	r.sessions = append(r.sessions, s)
	return s, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id uint) (*StreamSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 1 || int(id) > len(r.sessions) {
		return nil, false
	}
	return r.sessions[id-1], true
}

// Size returns the number of registered streams, disposed ones included.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sessions returns the registration-ordered view.
func (r *Registry) Sessions() []*StreamSession {
	return r.snapshot()
}

// Infos returns plain snapshots of every stream in registration order.
func (r *Registry) Infos() []core.StreamInfo {
	sessions := r.snapshot()
	infos := make([]core.StreamInfo, len(sessions))
	for i, s := range sessions {
		infos[i] = s.Info()
	}
	return infos
}

// PlayAll starts playback on every session in registration order. Best
// effort, not atomic: a failing handle never stops the remaining sessions
// from being attempted; failures come back joined.
func (r *Registry) PlayAll() error {
	var errs []error
	for _, s := range r.snapshot() {
		if err := s.Play(); err != nil {
			errs = append(errs, fmt.Errorf("play stream %d: %w", s.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// PauseAll halts playback on every session in registration order, with the
// same best-effort contract as PlayAll.
func (r *Registry) PauseAll() error {
	var errs []error
	for _, s := range r.snapshot() {
		if err := s.Pause(); err != nil {
			errs = append(errs, fmt.Errorf("pause stream %d: %w", s.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// CloseAll disposes every session in registration order. Sessions already
// released individually are skipped, keeping handle release exactly-once on
// every exit path.
func (r *Registry) CloseAll() error {
	var errs []error
	for _, s := range r.snapshot() {
		if err := s.Close(); err != nil && !errors.Is(err, ErrDisposed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) snapshot() []*StreamSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*StreamSession, len(r.sessions))
	copy(out, r.sessions)
	return out
}
