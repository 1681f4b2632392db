// Package review owns one sitting: the loaded streams, the mark ledger and
// the collaborators observing them. It replaces scattered per-widget state
// with one explicit context that every command flows through.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelmark/reelmark/internal/channel"
	"github.com/reelmark/reelmark/internal/export"
	"github.com/reelmark/reelmark/internal/ledger"
	"github.com/reelmark/reelmark/internal/logging"
	"github.com/reelmark/reelmark/internal/metrics"
	"github.com/reelmark/reelmark/internal/parser"
	"github.com/reelmark/reelmark/internal/session"
	"github.com/reelmark/reelmark/internal/storage"
	"github.com/reelmark/reelmark/pkg/core"
	"github.com/reelmark/reelmark/pkg/playback"
)

// ErrClosed is returned by every operation on a context that has been shut
// down. Handles are released exactly once; there is no reopen.
var ErrClosed = errors.New("review closed")

// ErrUnknownStream is returned when a command targets a stream id that was
// never registered.
var ErrUnknownStream = errors.New("unknown stream id")

// Dependencies holds all collaborators for a review context. Backend,
// Metrics and Sink are optional; a nil value disables that concern.
type Dependencies struct {
	LogManager *logging.Manager
	Parser     *parser.Parser
	Opener     playback.Opener  // serves the :LOAD: command
	Backend    storage.Backend  // archival / live feed
	Metrics    *metrics.Manager // activity points
	Sink       export.Sink      // default :EXPORT: destination
}

// Context is one review sitting. All mutations arrive as discrete
// operations and are applied in call order; the dispatcher feeds them from
// a single goroutine, and internal locks keep direct embedding safe too.
type Context struct {
	deps     Dependencies
	registry *session.Registry
	ledger   *ledger.Ledger
	encoder  *export.Encoder

	mu          sync.Mutex
	info        core.ReviewInfo
	subscribers []channel.Channel[core.MarkedFrame]
	began       bool
	closed      bool
}

// NewContext creates a review context with a fresh review id. No
// collaborator is touched until Begin.
func NewContext(title string, deps Dependencies) *Context {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewManager()
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(deps.LogManager.Logger())
	}

	return &Context{
		deps:     deps,
		registry: session.NewRegistry(),
		ledger:   ledger.New(),
		encoder:  export.NewEncoder(),
		info: core.ReviewInfo{
			ID:        uuid.NewString(),
			Title:     title,
			StartedAt: time.Now(),
		},
	}
}

func (c *Context) logger() *slog.Logger {
	return c.deps.LogManager.Logger()
}

// Info returns a snapshot of the review identity.
func (c *Context) Info() core.ReviewInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

// SetTitle renames the review. Effective for every record written after
// the call; typically set once by :INIT: before any stream is loaded.
func (c *Context) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.info.Title = title
}

// Begin announces the review to the archival backend. Archival is optional:
// a failing backend is logged and the review carries on without it.
func (c *Context) Begin() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.began {
		c.mu.Unlock()
		return fmt.Errorf("review %s already begun", c.info.ID)
	}
	c.began = true
	info := c.info
	c.mu.Unlock()

	if c.deps.Backend != nil {
		if err := c.deps.Backend.StartReview(info); err != nil {
			c.logger().Error("failed to start review in storage backend", "error", err)
		}
	}

	c.logger().Info("review begun", "reviewId", info.ID, "title", info.Title)
	return nil
}

// LoadFailure records one file that could not become a playable stream.
type LoadFailure struct {
	Name string
	Err  error
}

// LoadReport is the outcome of one batch intake: which files became
// streams (in registration order) and which were skipped.
type LoadReport struct {
	Loaded []core.StreamInfo
	Failed []LoadFailure
}

// Err joins the per-file failures, nil when every file loaded.
func (r *LoadReport) Err() error {
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = fmt.Errorf("load %q: %w", f.Name, f.Err)
	}
	return errors.Join(errs...)
}

// LoadFiles opens each named source through the opener and registers the
// successes in order. Per-file failures are isolated: they are logged,
// collected in the report, consume no stream id, and never stop the batch.
// The opener receives only the name; byte-source acquisition is its
// business.
func (c *Context) LoadFiles(ctx context.Context, files []string, opener playback.Opener) *LoadReport {
	report := &LoadReport{}

	for _, name := range files {
		if c.isClosed() {
			report.Failed = append(report.Failed, LoadFailure{Name: name, Err: ErrClosed})
			continue
		}

		handle, err := opener.Open(ctx, name, nil)
		if err != nil {
			c.logger().Error("failed to load stream", "name", name, "error", err)
			report.Failed = append(report.Failed, LoadFailure{Name: name, Err: err})
			continue
		}

		s, err := c.registry.AddStream(name, handle)
		if err != nil {
			c.logger().Error("failed to register stream", "name", name, "error", err)
			report.Failed = append(report.Failed, LoadFailure{Name: name, Err: err})
			continue
		}

		info := s.Info()
		report.Loaded = append(report.Loaded, info)
		c.logger().Info("stream loaded", "streamId", info.ID, "name", info.DisplayName)

		if c.deps.Backend != nil {
			if err := c.deps.Backend.AddStream(info); err != nil {
				c.logger().Error("failed to archive stream", "streamId", info.ID, "error", err)
			}
		}
	}

	return report
}

// Mark snapshots the stream's playback position and annotation state,
// appends the frame to the ledger and fans it out to subscribers, the
// backend and metrics. The frame is in the ledger before any observer
// sees it; observer failures never undo it.
func (c *Context) Mark(streamID uint) (core.MarkedFrame, error) {
	s, err := c.session(streamID)
	if err != nil {
		return core.MarkedFrame{}, err
	}

	frame, err := s.Mark()
	if err != nil {
		return core.MarkedFrame{}, err
	}

	c.ledger.Append(frame)

	c.mu.Lock()
	subscribers := make([]channel.Channel[core.MarkedFrame], len(c.subscribers))
	copy(subscribers, c.subscribers)
	reviewID := c.info.ID
	c.mu.Unlock()

	for _, sub := range subscribers {
		if !sub.TrySend(frame) {
			c.logger().Debug("subscriber full, mark dropped from feed",
				"streamId", frame.StreamID, "timeSeconds", frame.TimeSeconds)
		}
	}

	if c.deps.Backend != nil {
		if err := c.deps.Backend.RecordMark(frame); err != nil {
			c.logger().Error("failed to archive mark", "streamId", frame.StreamID, "error", err)
		}
	}

	if c.deps.Metrics != nil {
		if err := c.deps.Metrics.WriteMark(context.Background(), reviewID, frame); err != nil {
			c.logger().Debug("failed to write mark metric", "error", err)
		}
	}

	c.logger().Info("mark recorded",
		"streamId", frame.StreamID,
		"timeSeconds", frame.TimeSeconds,
		"marks", c.ledger.Len())

	return frame, nil
}

// Subscribe returns a bounded feed of future marks. A subscriber that
// stops draining loses records instead of stalling the mark path.
func (c *Context) Subscribe(size int) channel.Receiver[core.MarkedFrame] {
	ch := channel.New[core.MarkedFrame](size)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		ch.Close()
		return ch
	}
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Export encodes the ledger and hands the bytes to the sink. An empty
// ledger is refused before any encoding or I/O happens. A rejecting sink
// surfaces as ErrEncoding with the ledger untouched, so the export can be
// retried.
func (c *Context) Export(ctx context.Context, sink export.Sink) (string, error) {
	if c.isClosed() {
		return "", ErrClosed
	}
	if sink == nil {
		sink = c.deps.Sink
	}
	if sink == nil {
		return "", errors.New("no export sink configured")
	}

	if c.ledger.IsEmpty() {
		return "", export.ErrEmptyLedger
	}

	data, err := c.encoder.EncodeLedger(c.ledger)
	if err != nil {
		return "", err
	}

	info := c.Info()
	filename := export.SuggestedFilename(info.Title, info.StartedAt)

	if err := sink.Deliver(ctx, filename, data); err != nil {
		return "", fmt.Errorf("%w: %w", export.ErrEncoding, err)
	}

	c.logger().Info("export delivered",
		"filename", filename,
		"bytes", len(data),
		"marks", c.ledger.Len())

	return filename, nil
}

// Play starts playback on one stream.
func (c *Context) Play(streamID uint) error {
	s, err := c.session(streamID)
	if err != nil {
		return err
	}
	if err := s.Play(); err != nil {
		return err
	}
	c.writePlaybackMetric(s, "play")
	return nil
}

// Pause halts playback on one stream.
func (c *Context) Pause(streamID uint) error {
	s, err := c.session(streamID)
	if err != nil {
		return err
	}
	if err := s.Pause(); err != nil {
		return err
	}
	c.writePlaybackMetric(s, "pause")
	return nil
}

// PlayAll starts every stream in registration order, best effort.
func (c *Context) PlayAll() error {
	if c.isClosed() {
		return ErrClosed
	}
	return c.registry.PlayAll()
}

// PauseAll halts every stream in registration order, best effort.
func (c *Context) PauseAll() error {
	if c.isClosed() {
		return ErrClosed
	}
	return c.registry.PauseAll()
}

// SetSpeed stores and forwards a playback rate. Range policy lives with
// the parser; the context passes through whatever it is given.
func (c *Context) SetSpeed(streamID uint, speed float64) error {
	s, err := c.session(streamID)
	if err != nil {
		return err
	}
	if err := s.SetSpeed(speed); err != nil {
		return err
	}
	c.writePlaybackMetric(s, "speed")
	return nil
}

// Draw replays a full drag gesture: pen down on the first point, moves
// through the rest, pen up.
func (c *Context) Draw(streamID uint, points []core.Point2D) error {
	if len(points) == 0 {
		return fmt.Errorf("%w: draw needs at least one point", parser.ErrMalformedArgs)
	}
	s, err := c.session(streamID)
	if err != nil {
		return err
	}
	if err := s.PointerDown(points[0]); err != nil {
		return err
	}
	for _, p := range points[1:] {
		if err := s.PointerMove(p); err != nil {
			return err
		}
	}
	return s.PointerUp()
}

// PointerDown forwards a drag start to one stream's recorder.
func (c *Context) PointerDown(streamID uint, p core.Point2D) error {
	s, err := c.session(streamID)
	if err != nil {
		return err
	}
	return s.PointerDown(p)
}

// PointerMove forwards a drag point to one stream's recorder.
func (c *Context) PointerMove(streamID uint, p core.Point2D) error {
	s, err := c.session(streamID)
	if err != nil {
		return err
	}
	return s.PointerMove(p)
}

// PointerUp terminates the active drag on one stream.
func (c *Context) PointerUp(streamID uint) error {
	s, err := c.session(streamID)
	if err != nil {
		return err
	}
	return s.PointerUp()
}

// ClearDrawing irreversibly empties one stream's strokes. Marks already in
// the ledger keep the payloads they were recorded with.
func (c *Context) ClearDrawing(streamID uint) error {
	s, err := c.session(streamID)
	if err != nil {
		return err
	}
	return s.ClearDrawing()
}

// StreamCount returns the number of registered streams.
func (c *Context) StreamCount() int {
	return c.registry.Size()
}

// MarkCount returns the number of ledger entries.
func (c *Context) MarkCount() int {
	return c.ledger.Len()
}

// Streams returns plain snapshots of every stream in registration order.
func (c *Context) Streams() []core.StreamInfo {
	return c.registry.Infos()
}

// Marks returns a copy of the ledger in append order.
func (c *Context) Marks() []core.MarkedFrame {
	return c.ledger.All()
}

// StatusReport is the :STATUS: result.
type StatusReport struct {
	Review  core.ReviewInfo
	Streams []core.StreamInfo
	Marks   int
}

// Status returns a point-in-time view of the review.
func (c *Context) Status() StatusReport {
	return StatusReport{
		Review:  c.Info(),
		Streams: c.registry.Infos(),
		Marks:   c.ledger.Len(),
	}
}

// Close shuts the review down: playback paused, backend review ended,
// every handle released exactly once, subscriber feeds closed. The second
// call reports ErrClosed without touching anything.
func (c *Context) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closed = true
	subscribers := c.subscribers
	c.subscribers = nil
	began := c.began
	c.mu.Unlock()

	var errs []error

	if err := c.registry.PauseAll(); err != nil {
		errs = append(errs, err)
	}

	if began && c.deps.Backend != nil {
		if err := c.deps.Backend.EndReview(); err != nil {
			errs = append(errs, fmt.Errorf("end review in storage backend: %w", err))
		}
	}

	if err := c.registry.CloseAll(); err != nil {
		errs = append(errs, err)
	}

	for _, sub := range subscribers {
		sub.Close()
	}

	c.logger().Info("review closed",
		"reviewId", c.info.ID,
		"streams", c.registry.Size(),
		"marks", c.ledger.Len())

	return errors.Join(errs...)
}

func (c *Context) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// session resolves a stream id, with the closed check every command path
// shares.
func (c *Context) session(streamID uint) (*session.StreamSession, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	s, ok := c.registry.Get(streamID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStream, streamID)
	}
	return s, nil
}

// writePlaybackMetric records a playback action point. Metrics are a side
// effect: failures are logged, never surfaced.
func (c *Context) writePlaybackMetric(s *session.StreamSession, action string) {
	if c.deps.Metrics == nil {
		return
	}
	pos, err := s.Position()
	if err != nil {
		return
	}
	info := s.Info()
	if err := c.deps.Metrics.WritePlayback(
		context.Background(), c.Info().ID, info.ID, action, pos, info.PlaybackSpeed,
	); err != nil {
		c.logger().Debug("failed to write playback metric", "error", err)
	}
}
