package parser

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelmark/reelmark/pkg/core"
)

func newTestParser() *Parser {
	return NewParser(slog.Default())
}

func TestParseStreamID(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		arg     string
		want    uint
		wantErr error
	}{
		{name: "integer", arg: "1", want: 1},
		{name: "float form", arg: "3.0", want: 3},
		{name: "zero rejected", arg: "0", wantErr: ErrMalformedArgs},
		{name: "negative rejected", arg: "-2", wantErr: ErrMalformedArgs},
		{name: "fractional rejected", arg: "1.5", wantErr: ErrMalformedArgs},
		{name: "garbage rejected", arg: "one", wantErr: ErrMalformedArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseStreamID(tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSpeed(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		arg     string
		want    float64
		wantErr error
	}{
		{name: "lower bound", arg: "0.1", want: 0.1},
		{name: "upper bound", arg: "2.0", want: 2.0},
		{name: "mid", arg: "1.5", want: 1.5},
		{name: "below range", arg: "0.05", wantErr: ErrSpeedOutOfRange},
		{name: "above range", arg: "2.5", wantErr: ErrSpeedOutOfRange},
		{name: "not a number", arg: "fast", wantErr: ErrMalformedArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseSpeed(tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLoadArgs(t *testing.T) {
	p := newTestParser()

	names, err := p.ParseLoadArgs([]string{`"a.mp4"`, `"b roll.mp4"`, "c.mp4"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp4", "b roll.mp4", "c.mp4"}, names)

	_, err = p.ParseLoadArgs(nil)
	assert.ErrorIs(t, err, ErrMalformedArgs)

	_, err = p.ParseLoadArgs([]string{`""`})
	assert.ErrorIs(t, err, ErrMalformedArgs)
}

func TestParsePoint(t *testing.T) {
	p := newTestParser()

	pt, err := p.ParsePoint("[12.5,40.25]")
	require.NoError(t, err)
	assert.Equal(t, core.Point2D{X: 12.5, Y: 40.25}, pt)

	pt, err = p.ParsePoint(`"[1,2]"`)
	require.NoError(t, err)
	assert.Equal(t, core.Point2D{X: 1, Y: 2}, pt)

	for _, bad := range []string{"[1]", "[]", "1,2", "[a,b]"} {
		_, err := p.ParsePoint(bad)
		assert.ErrorIs(t, err, ErrMalformedArgs, "input %q", bad)
	}
}

func TestParsePointList(t *testing.T) {
	p := newTestParser()

	points, err := p.ParsePointList("[[0,0],[3,0],[3,4]]")
	require.NoError(t, err)
	assert.Equal(t, []core.Point2D{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}}, points)

	for _, bad := range []string{"[]", "[[1]]", "nope", "[[1,2],[3]]"} {
		_, err := p.ParsePointList(bad)
		assert.ErrorIs(t, err, ErrMalformedArgs, "input %q", bad)
	}
}

func TestParseDrawArgs(t *testing.T) {
	p := newTestParser()

	id, points, err := p.ParseDrawArgs([]string{"2", "[[1,1],[2,2]]"})
	require.NoError(t, err)
	assert.Equal(t, uint(2), id)
	assert.Len(t, points, 2)

	_, _, err = p.ParseDrawArgs([]string{"2"})
	assert.ErrorIs(t, err, ErrMalformedArgs)

	_, _, err = p.ParseDrawArgs([]string{"x", "[[1,1]]"})
	assert.ErrorIs(t, err, ErrMalformedArgs)
}

func TestParsePointerArgs(t *testing.T) {
	p := newTestParser()

	id, pt, err := p.ParsePointerArgs([]string{"1", "[4,5]"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
	assert.Equal(t, core.Point2D{X: 4, Y: 5}, pt)

	_, _, err = p.ParsePointerArgs([]string{"1"})
	assert.ErrorIs(t, err, ErrMalformedArgs)
}

func TestParseSpeedArgs(t *testing.T) {
	p := newTestParser()

	id, speed, err := p.ParseSpeedArgs([]string{"1", "0.5"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
	assert.Equal(t, 0.5, speed)

	_, _, err = p.ParseSpeedArgs([]string{"1", "9"})
	assert.ErrorIs(t, err, ErrSpeedOutOfRange)

	_, _, err = p.ParseSpeedArgs([]string{"1"})
	assert.ErrorIs(t, err, ErrMalformedArgs)
}
