package export

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelmark/reelmark/internal/ledger"
	"github.com/reelmark/reelmark/pkg/core"
)

func TestEncodeRefusesEmptyLedger(t *testing.T) {
	_, err := NewEncoder().Encode(nil)
	assert.ErrorIs(t, err, ErrEmptyLedger)

	_, err = NewEncoder().Encode([]core.MarkedFrame{})
	assert.ErrorIs(t, err, ErrEmptyLedger)
}

func TestEncodeSingleMarkScenario(t *testing.T) {
	// Stream "a.mp4" (id=1) marked at 12.3456s with a three-point stroke.
	frames := []core.MarkedFrame{
		{
			StreamID:    1,
			TimeSeconds: 12.3456,
			Annotations: `[{"x":1,"y":2},{"x":3,"y":4},{"x":5,"y":6},null]`,
		},
	}

	out, err := NewEncoder().Encode(frames)
	require.NoError(t, err)

	want := "Video,Time (sec),Annotations\n" +
		`1,12.35,"[{"x":1,"y":2},{"x":3,"y":4},{"x":5,"y":6},null]"` + "\n"
	assert.Equal(t, want, string(out))
}

func TestEncodePreservesLedgerOrder(t *testing.T) {
	l := ledger.New()
	l.Append(core.MarkedFrame{StreamID: 2, TimeSeconds: 99, Annotations: "[]"})
	l.Append(core.MarkedFrame{StreamID: 1, TimeSeconds: 1, Annotations: "[]"})

	out, err := NewEncoder().EncodeLedger(l)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2,99.00,"), "mark order, not stream order: %q", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "1,1.00,"))
}

func TestEncodeIsDeterministic(t *testing.T) {
	frames := []core.MarkedFrame{
		{StreamID: 1, TimeSeconds: 0, Annotations: "[]"},
		{StreamID: 3, TimeSeconds: 4.125, Annotations: `[{"x":0.5,"y":0.25},null]`},
	}

	a, err := NewEncoder().Encode(frames)
	require.NoError(t, err)
	b, err := NewEncoder().Encode(frames)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeTimeRounding(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0.00"},
		{7.5, "7.50"},
		{12.3456, "12.35"},
		{59.999, "60.00"},
	}

	for _, tt := range tests {
		out, err := NewEncoder().Encode([]core.MarkedFrame{
			{StreamID: 1, TimeSeconds: tt.seconds, Annotations: "[]"},
		})
		require.NoError(t, err)
		assert.Contains(t, string(out), "1,"+tt.want+",")
	}
}

func TestEncodeRFC4180Mode(t *testing.T) {
	frames := []core.MarkedFrame{
		{StreamID: 1, TimeSeconds: 2, Annotations: `[{"x":1,"y":2},null]`},
	}

	out, err := NewEncoder(WithRFC4180()).Encode(frames)
	require.NoError(t, err)

	// Strict readers must be able to parse the escaped form.
	r := csv.NewReader(strings.NewReader(string(out)))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Video", "Time (sec)", "Annotations"}, records[0])
	assert.Equal(t, `[{"x":1,"y":2},null]`, records[1][2])
}

func TestSuggestedFilename(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 30, 45, 0, time.UTC)

	assert.Equal(t, "review_marks_20260314_153045.csv", SuggestedFilename("", ts))
	assert.Equal(t, "scrim_vs_blue_marks_20260314_153045.csv", SuggestedFilename("scrim vs blue", ts))
	assert.Equal(t, "cut_12_00_marks_20260314_153045.csv", SuggestedFilename("cut 12:00", ts))
}

func TestFileSinkDeliver(t *testing.T) {
	dir := t.TempDir()
	sink := &FileSink{Dir: filepath.Join(dir, "exports")}

	data := []byte("Video,Time (sec),Annotations\n")
	require.NoError(t, sink.Deliver(context.Background(), "out.csv", data))

	got, err := os.ReadFile(filepath.Join(dir, "exports", "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFileSinkDeliverGzip(t *testing.T) {
	dir := t.TempDir()
	sink := &FileSink{Dir: dir, Compress: true}

	data := []byte("Video,Time (sec),Annotations\n1,0.00,\"[]\"\n")
	require.NoError(t, sink.Deliver(context.Background(), "out.csv", data))

	f, err := os.Open(filepath.Join(dir, "out.csv.gz"))
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	got, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFileSinkHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &FileSink{Dir: t.TempDir()}
	err := sink.Deliver(ctx, "out.csv", []byte("x"))
	assert.True(t, errors.Is(err, context.Canceled))
}
