package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapStdout replaces the console sink with a buffer for the test's duration.
func swapStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := osStdout
	osStdout = &buf
	t.Cleanup(func() { osStdout = orig })
	return &buf
}

func TestSetup_FileOnly_NoConsole(t *testing.T) {
	console := swapStdout(t)

	var fileBuf bytes.Buffer
	m := NewManager()
	m.Setup(Options{Level: "info", File: &fileBuf})
	m.Logger().Info("hello file")

	assert.Contains(t, fileBuf.String(), "hello file")
	assert.Empty(t, console.String(), "console should stay clean when only a file sink is configured")
}

func TestSetup_ConsoleText(t *testing.T) {
	console := swapStdout(t)

	m := NewManager()
	m.Setup(Options{Level: "info", Console: true})
	m.Logger().Info("hello console")

	assert.Contains(t, console.String(), "hello console")
}

func TestSetup_ConsoleJSON(t *testing.T) {
	console := swapStdout(t)

	m := NewManager()
	m.Setup(Options{Level: "info", ConsoleJSON: true})
	m.Logger().Info("structured", "marks", 3)

	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	assert.Equal(t, "structured", entry["msg"])
	assert.Equal(t, float64(3), entry["marks"])
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager()
	m.Setup(Options{Level: "info", File: &buf})

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	output := buf.String()
	assert.NotContains(t, output, "should be filtered")
	assert.Contains(t, output, "should appear")
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager()
	m.Setup(Options{Level: "debug", File: &buf})

	m.Logger().Debug("debug msg")
	m.Logger().Info("info msg")

	output := buf.String()
	assert.Contains(t, output, "debug msg")
	assert.Contains(t, output, "info msg")
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewManager()

	m.Setup(Options{Level: "info", File: &buf1})
	m.Logger().Info("first")

	m.Setup(Options{Level: "info", File: &buf2})
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second", "old file should not receive new logs")
	assert.Contains(t, buf2.String(), "second")
}

func TestSetup_ContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	marks := 0

	m := NewManager()
	m.Setup(Options{
		Level: "info",
		File:  &buf,
		Context: func() []slog.Attr {
			return []slog.Attr{
				slog.String("review", "r-1"),
				slog.Int("marks", marks),
			}
		},
	})

	marks = 7
	buf.Reset()
	m.Logger().Info("with context")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "r-1", entry["review"])
	assert.Equal(t, float64(7), entry["marks"], "provider should be consulted at log time")
}

func TestSetup_GelfSinkReceivesRecords(t *testing.T) {
	var file, gelf bytes.Buffer
	m := NewManager()
	m.Setup(Options{Level: "info", File: &file, Gelf: &gelf})

	m.Logger().Info("forwarded")

	assert.Contains(t, file.String(), "forwarded")
	assert.Contains(t, gelf.String(), "forwarded")
}

func TestSetup_TimeIsRFC3339UTC(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager()
	m.Setup(Options{Level: "info", File: &buf})

	buf.Reset()
	m.Logger().Info("stamped")

	var entry map[string]string
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))

	parsed, err := time.Parse(time.RFC3339, entry["time"])
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewManager()
	assert.Equal(t, slog.Default(), m.Logger())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestLogFilePath(t *testing.T) {
	start := time.Date(2025, 6, 1, 14, 30, 5, 0, time.UTC)
	got := LogFilePath("/var/log/reelmark", "reelmark", start)
	assert.Equal(t, filepath.Join("/var/log/reelmark", "reelmark.20250601_143005.log"), got)
}
