package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/reelmark/reelmark/internal/logging"

	"go.opentelemetry.io/otel/metric"
)

const statusFileName = "status.txt"

// Snapshot is a point-in-time view of the engine supplied by the review
// layer. A zero ReviewID means no review is loaded.
type Snapshot struct {
	Time       time.Time `json:"time"`
	ReviewID   string    `json:"reviewId"`
	Streams    int       `json:"streams"`
	Marks      int       `json:"marks"`
	QueueDepth int       `json:"queueDepth"`
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager *logging.Manager
	Snapshot   func() Snapshot
	StatusDir  string        // status.txt lands here; empty disables the file
	Interval   time.Duration // defaults to one second
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}

	streamsGauge metric.Int64ObservableGauge
	marksGauge   metric.Int64ObservableGauge
}

// NewService creates a new monitor service and registers its gauges on the
// global meter provider. The per-command queue gauge already lives in the
// dispatcher, so the monitor only logs the total depth.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	if deps.Snapshot == nil {
		deps.Snapshot = func() Snapshot { return Snapshot{} }
	}
	if deps.LogManager == nil {
		deps.LogManager = logging.NewManager()
	}

	s := &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}

	m := meter()

	var err error

	s.streamsGauge, err = m.Int64ObservableGauge(
		"reelmark.review.streams",
		metric.WithDescription("Streams loaded in the current review"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating streams gauge: %w", err)
	}

	s.marksGauge, err = m.Int64ObservableGauge(
		"reelmark.review.marks",
		metric.WithDescription("Marks recorded in the current review"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating marks gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			snap := s.deps.Snapshot()
			o.ObserveInt64(s.streamsGauge, int64(snap.Streams))
			o.ObserveInt64(s.marksGauge, int64(snap.Marks))
			return nil
		},
		s.streamsGauge, s.marksGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering status callback: %w", err)
	}

	return s, nil
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Status returns the current snapshot plus its status-file rendering.
func (s *Service) Status() (output []string, snap Snapshot) {
	snap = s.deps.Snapshot()
	snap.Time = time.Now()

	rendered, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		rendered = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
	}
	return []string{string(rendered)}, snap
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	go s.run(stop)

	return nil
}

// run owns the status file and the ticker. It holds the stop channel it was
// started with so a Stop/Start pair cannot strand it.
func (s *Service) run(stop chan struct{}) {
	logger := s.deps.LogManager.Logger()
	logger.Debug("starting status monitor", "interval", s.deps.Interval.String())

	var statusFile *os.File
	if s.deps.StatusDir != "" {
		var err error
		statusFile, err = os.Create(filepath.Join(s.deps.StatusDir, statusFileName))
		if err != nil {
			logger.Error("creating status file", "error", err)
		}
	}
	defer statusFile.Close()

	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			lines, snap := s.Status()
			if snap.ReviewID == "" {
				continue
			}

			if statusFile != nil {
				statusFile.Truncate(0)
				statusFile.Seek(0, 0)
				for _, line := range lines {
					statusFile.WriteString(line + "\n")
				}
			}

			logger.Debug("review status",
				"reviewId", snap.ReviewID,
				"streams", snap.Streams,
				"marks", snap.Marks,
				"queueDepth", snap.QueueDepth,
			)
		}
	}
}

// Stop stops the status monitor. Safe to call twice; Start may be called
// again afterwards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
}
