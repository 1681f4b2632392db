package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimQuotes(t *testing.T) {
	assert.Equal(t, "a.mp4", TrimQuotes(`"a.mp4"`))
	assert.Equal(t, "plain", TrimQuotes("plain"))
	assert.Equal(t, "", TrimQuotes(`""`))
}

func TestFixEscapeQuotes(t *testing.T) {
	assert.Equal(t, `say "cut"`, FixEscapeQuotes(`say ""cut""`))
	assert.Equal(t, "untouched", FixEscapeQuotes("untouched"))
}

func TestUnquoteArg(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"b roll.mp4"`, "b roll.mp4"},
		{`  "angle ""two"".mp4"  `, `angle "two".mp4`},
		{"bare", "bare"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UnquoteArg(tt.in), "input %q", tt.in)
	}
}

func TestFormatStreamLabel(t *testing.T) {
	assert.Equal(t, "#1 a.mp4", FormatStreamLabel(1, "a.mp4", 1.0))
	assert.Equal(t, "#2 b.mp4 (0.5x)", FormatStreamLabel(2, "b.mp4", 0.5))
	assert.Equal(t, "#3", FormatStreamLabel(3, "", 0))
}
