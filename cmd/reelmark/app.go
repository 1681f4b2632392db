package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"

	"github.com/reelmark/reelmark/internal/api"
	"github.com/reelmark/reelmark/internal/config"
	"github.com/reelmark/reelmark/internal/dispatcher"
	"github.com/reelmark/reelmark/internal/export"
	"github.com/reelmark/reelmark/internal/logging"
	"github.com/reelmark/reelmark/internal/metrics"
	"github.com/reelmark/reelmark/internal/monitor"
	intOtel "github.com/reelmark/reelmark/internal/otel"
	"github.com/reelmark/reelmark/internal/review"
	"github.com/reelmark/reelmark/internal/storage"
	"github.com/reelmark/reelmark/pkg/playback"
)

// appContext carries the persistent flags and loads configuration exactly
// once, however many subcommands end up asking for it.
type appContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce  sync.Once
	configErr   error
	configFound bool

	sessionStart time.Time
}

func newAppContext(configFlag, logLevelFlag *string, jsonFlag *bool) *appContext {
	return &appContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
		sessionStart: time.Now(),
	}
}

// ensureConfig loads the config file. A missing file is not an error:
// defaults are already in place, the caller just gets configFound=false.
func (a *appContext) ensureConfig() error {
	a.configOnce.Do(func() {
		err := config.Load(*a.configFlag)
		if err != nil && !config.IsNotFound(err) {
			a.configErr = err
			return
		}
		a.configFound = err == nil
	})
	return a.configErr
}

func (a *appContext) logLevel() string {
	if *a.logLevelFlag != "" {
		return *a.logLevelFlag
	}
	return config.GetLogConfig().Level
}

// runtime is one fully wired review session: dispatcher, review context,
// storage, metrics, monitor and the export sink. Built by bootstrap, torn
// down by shutdown.
type runtime struct {
	app        *appContext
	logManager *logging.Manager
	logFile    *os.File
	zlog       zerolog.Logger

	dispatcher *dispatcher.Dispatcher
	review     *review.Context
	backend    storage.Backend
	metrics    *metrics.Manager
	otel       *intOtel.Provider
	monitor    *monitor.Service
	hub        *api.Client
}

// bootstrap wires up a full review session. Optional collaborators that
// fail to come up (storage, metrics, monitor, hub) are logged and skipped;
// the review itself runs regardless.
func (a *appContext) bootstrap(title string) (*runtime, error) {
	if err := a.ensureConfig(); err != nil {
		return nil, err
	}

	rt := &runtime{app: a}

	logCfg := config.GetLogConfig()
	if err := os.MkdirAll(logCfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}

	logPath := logging.LogFilePath(logCfg.Dir, "reelmark", a.sessionStart)
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	rt.logFile = logFile

	var gelfWriter io.Writer
	if gl := config.GetGraylogConfig(); gl.Enabled {
		w, err := gelf.NewWriter(gl.Address())
		if err != nil {
			fmt.Fprintf(os.Stderr, "gelf writer unavailable: %v\n", err)
		} else {
			gelfWriter = w
		}
	}

	rt.logManager = logging.NewManager()
	rt.logManager.Setup(logging.Options{
		Level:       a.logLevel(),
		Console:     !*a.jsonFlag,
		ConsoleJSON: *a.jsonFlag,
		File:        logFile,
		Gelf:        gelfWriter,
		Context: func() []slog.Attr {
			if rt.review == nil {
				return nil
			}
			return []slog.Attr{slog.String("reviewId", rt.review.Info().ID)}
		},
	})
	logger := rt.logManager.Logger()
	if !a.configFound {
		logger.Warn("no config file found, using defaults")
	}
	logger.Info("starting up", "version", Version, "logFile", logPath)

	rt.zlog = zerolog.New(logFile).With().Timestamp().Logger()

	// The meter provider must exist before the dispatcher creates its
	// instruments, or they bind to the global no-op.
	if otelCfg := config.GetOTelConfig(); otelCfg.Enabled {
		provider, err := intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			logger.Error("failed to initialize otel provider", "error", err)
		} else {
			rt.otel = provider
			logger.Info("otel provider initialized")
		}
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(rt.zlog))
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}
	rt.dispatcher = d

	backend, err := storage.NewBackend(config.GetStorageConfig(), rt.zlog)
	if err != nil {
		logger.Error("failed to create storage backend", "error", err)
	} else if backend != nil {
		if err := backend.Init(); err != nil {
			logger.Error("storage backend failed to initialize, archival disabled", "error", err)
			backend = nil
		} else {
			logger.Info("storage backend initialized", "backend", config.GetStorageConfig().Backend)
		}
	}
	rt.backend = backend

	if config.GetInfluxConfig().Enabled {
		m := metrics.NewManager(rt.zlog, filepath.Join(logCfg.Dir, "metrics_backup.gz"))
		if err := m.Connect(); err != nil {
			logger.Error("activity metrics disabled", "error", err)
		} else {
			rt.metrics = m
			go func() {
				for err := range m.Errs() {
					logger.Warn("metrics write failed", "error", err)
				}
			}()
		}
	}

	exportCfg := config.GetExportConfig()
	var sink export.Sink = &export.FileSink{Dir: exportCfg.Dir, Compress: exportCfg.Compress}
	if hub := config.GetHubConfig(); hub.URL != "" {
		rt.hub = api.New(hub.URL, hub.Token)
		sink = rt.hub
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := rt.hub.Healthcheck(ctx); err != nil {
				logger.Info("review hub is offline", "url", hub.URL)
			} else {
				logger.Info("review hub is online", "url", hub.URL)
			}
		}()
	}

	rc := review.NewContext(title, review.Dependencies{
		LogManager: rt.logManager,
		Opener:     &playback.SyntheticOpener{},
		Backend:    rt.backend,
		Metrics:    rt.metrics,
		Sink:       sink,
	})
	rc.RegisterHandlers(d)
	rt.review = rc

	rt.monitor, err = monitor.NewService(monitor.Dependencies{
		LogManager: rt.logManager,
		StatusDir:  logCfg.Dir,
		Snapshot: func() monitor.Snapshot {
			st := rc.Status()
			return monitor.Snapshot{
				ReviewID:   st.Review.ID,
				Streams:    len(st.Streams),
				Marks:      st.Marks,
				QueueDepth: d.QueueDepth(),
			}
		},
	})
	if err != nil {
		logger.Error("failed to create status monitor", "error", err)
	} else if err := rt.monitor.Start(); err != nil {
		logger.Error("failed to start status monitor", "error", err)
	}

	return rt, nil
}

// dispatch routes one command through the dispatcher.
func (rt *runtime) dispatch(command string, args ...string) (any, error) {
	return rt.dispatcher.Dispatch(dispatcher.Event{
		Command:   command,
		Args:      args,
		Timestamp: time.Now(),
	})
}

// shutdown tears the session down in reverse dependency order. Safe to call
// after the script already issued :SHUTDOWN:.
func (rt *runtime) shutdown() {
	logger := rt.logManager.Logger()

	if err := rt.review.Close(); err != nil && !errors.Is(err, review.ErrClosed) {
		logger.Error("error closing review", "error", err)
	}

	if rt.monitor != nil {
		rt.monitor.Stop()
	}
	rt.dispatcher.Stop()

	if rt.backend != nil {
		if err := rt.backend.Close(); err != nil {
			logger.Error("error closing storage backend", "error", err)
		}
	}
	if rt.metrics != nil {
		rt.metrics.Close()
	}

	if rt.otel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.otel.Flush(ctx); err != nil {
			logger.Warn("failed to flush otel data", "error", err)
		}
		if err := rt.otel.Shutdown(ctx); err != nil {
			logger.Warn("failed to shut down otel provider", "error", err)
		}
	}

	logger.Info("session ended")
	_ = rt.logFile.Close()
}
