// Package parser converts raw script/command arguments into typed values
// for the review handlers. It is pure []string -> value conversion with no
// dependency beyond a logger.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

// Playback speed policy window. The session core stores whatever it is
// given; this boundary is where out-of-range rates are rejected.
const (
	MinPlaybackSpeed = 0.1
	MaxPlaybackSpeed = 2.0
)

// ErrMalformedArgs is returned when command arguments cannot be parsed.
var ErrMalformedArgs = errors.New("malformed command arguments")

// ErrSpeedOutOfRange is returned for playback rates outside the policy
// window.
var ErrSpeedOutOfRange = fmt.Errorf("playback speed outside [%v, %v]", MinPlaybackSpeed, MaxPlaybackSpeed)

// Parser converts command argument strings into typed values.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser with only a logger dependency.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseStreamID parses a 1-based stream id. Script sources with no integer
// type may serialize ids as floats ("2.0"), which is accepted.
func (p *Parser) ParseStreamID(arg string) (uint, error) {
	v, err := parseUintFromFloat(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: stream id %q: %v", ErrMalformedArgs, arg, err)
	}
	if v < 1 {
		return 0, fmt.Errorf("%w: stream id must be >= 1, got %q", ErrMalformedArgs, arg)
	}
	return uint(v), nil
}

// ParseSpeed parses a playback rate and enforces the policy window.
func (p *Parser) ParseSpeed(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: speed %q: %v", ErrMalformedArgs, arg, err)
	}
	if v < MinPlaybackSpeed || v > MaxPlaybackSpeed {
		return 0, fmt.Errorf("%w: got %v", ErrSpeedOutOfRange, v)
	}
	return v, nil
}

// parseUintFromFloat parses a string that may be an integer ("3") or a float
// ("3.0") into uint64.
func parseUintFromFloat(s string) (uint64, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(uint64(f)) {
		return 0, fmt.Errorf("%q is not a whole non-negative number", s)
	}
	return uint64(f), nil
}
