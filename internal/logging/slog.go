package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// osStdout is swapped by tests that capture console output.
var osStdout io.Writer = os.Stdout

// ContextProvider returns dynamic attributes appended to every record.
type ContextProvider func() []slog.Attr

// Options selects the sinks Setup builds the logger from. With no sink set
// the logger discards everything.
type Options struct {
	Level       string
	Console     bool      // human-readable records on stdout
	ConsoleJSON bool      // JSON records on stdout, wins over Console
	File        io.Writer // JSON records, usually the session log file
	Gelf        io.Writer // GELF transport, one record per write
	Context     ContextProvider
}

// Manager owns the configured application logger.
type Manager struct {
	logger *slog.Logger
}

// NewManager creates an empty logging manager. Call Setup before Logger.
func NewManager() *Manager {
	return &Manager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the logger from the configured sinks. Times are rendered
// RFC3339 UTC so file and GELF records sort the same everywhere.
func (m *Manager) Setup(opts Options) {
	lvl := parseLevel(opts.Level)

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	switch {
	case opts.ConsoleJSON:
		handlers = append(handlers, slog.NewJSONHandler(osStdout, handlerOpts))
	case opts.Console:
		handlers = append(handlers, slog.NewTextHandler(osStdout, handlerOpts))
	}

	if opts.File != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.File, handlerOpts))
	}

	if opts.Gelf != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.Gelf, handlerOpts))
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if opts.Context != nil {
		handler = NewContextHandler(handler, opts.Context)
	}

	m.logger = slog.New(handler)
	m.logger.Info("logging initialized", "level", lvl.String())
}

// Logger returns the configured slog.Logger, or slog.Default() before Setup.
func (m *Manager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
