package parser

import (
	"fmt"

	"github.com/reelmark/reelmark/internal/util"
)

// ParseLoadArgs parses a :LOAD: argument list into display names. Each
// argument is one quoted name; quoting is undone and blanks are rejected.
func (p *Parser) ParseLoadArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: load needs at least one stream name", ErrMalformedArgs)
	}

	names := make([]string, 0, len(args))
	for i, arg := range args {
		name := util.UnquoteArg(arg)
		if name == "" {
			return nil, fmt.Errorf("%w: load argument %d is blank", ErrMalformedArgs, i)
		}
		names = append(names, name)
	}
	return names, nil
}

// ParseSpeedArgs parses a :SPEED: argument list: stream id, then rate.
func (p *Parser) ParseSpeedArgs(args []string) (uint, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: speed needs [id rate], got %d args", ErrMalformedArgs, len(args))
	}
	id, err := p.ParseStreamID(args[0])
	if err != nil {
		return 0, 0, err
	}
	speed, err := p.ParseSpeed(args[1])
	if err != nil {
		return 0, 0, err
	}
	return id, speed, nil
}

// ParseStreamArg parses a single-argument command that targets one stream
// (:PLAY:, :PAUSE:, :CLEAR:, :MARK:).
func (p *Parser) ParseStreamArg(args []string) (uint, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one stream id, got %d args", ErrMalformedArgs, len(args))
	}
	return p.ParseStreamID(args[0])
}
