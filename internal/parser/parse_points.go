package parser

import (
	"encoding/json"
	"fmt"

	"github.com/reelmark/reelmark/internal/util"
	"github.com/reelmark/reelmark/pkg/core"
)

// ParsePoint parses one "[x,y]" coordinate pair.
func (p *Parser) ParsePoint(arg string) (core.Point2D, error) {
	var coord []float64
	if err := json.Unmarshal([]byte(util.UnquoteArg(arg)), &coord); err != nil {
		return core.Point2D{}, fmt.Errorf("%w: point %q: %v", ErrMalformedArgs, arg, err)
	}
	if len(coord) < 2 {
		return core.Point2D{}, fmt.Errorf("%w: point %q needs x and y", ErrMalformedArgs, arg)
	}
	return core.Point2D{X: coord[0], Y: coord[1]}, nil
}

// ParsePointList parses a "[[x1,y1],[x2,y2],...]" coordinate list into
// points, in order. At least one pair is required.
func (p *Parser) ParsePointList(arg string) ([]core.Point2D, error) {
	var coords [][]float64
	if err := json.Unmarshal([]byte(util.UnquoteArg(arg)), &coords); err != nil {
		return nil, fmt.Errorf("%w: point list %q: %v", ErrMalformedArgs, arg, err)
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: point list is empty", ErrMalformedArgs)
	}

	points := make([]core.Point2D, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, fmt.Errorf("%w: coordinate %d needs x and y", ErrMalformedArgs, i)
		}
		points[i] = core.Point2D{X: coord[0], Y: coord[1]}
	}
	return points, nil
}

// ParseDrawArgs parses a :DRAW: argument list: stream id, then a full drag
// as a point list. The handler replays it as down/moves/up.
func (p *Parser) ParseDrawArgs(args []string) (uint, []core.Point2D, error) {
	if len(args) != 2 {
		return 0, nil, fmt.Errorf("%w: draw needs [id points], got %d args", ErrMalformedArgs, len(args))
	}
	id, err := p.ParseStreamID(args[0])
	if err != nil {
		return 0, nil, err
	}
	points, err := p.ParsePointList(args[1])
	if err != nil {
		return 0, nil, err
	}
	return id, points, nil
}

// ParsePointerArgs parses :POINTER:DOWN: / :POINTER:MOVE: argument lists:
// stream id, then one point.
func (p *Parser) ParsePointerArgs(args []string) (uint, core.Point2D, error) {
	if len(args) != 2 {
		return 0, core.Point2D{}, fmt.Errorf("%w: pointer event needs [id point], got %d args", ErrMalformedArgs, len(args))
	}
	id, err := p.ParseStreamID(args[0])
	if err != nil {
		return 0, core.Point2D{}, err
	}
	point, err := p.ParsePoint(args[1])
	if err != nil {
		return 0, core.Point2D{}, err
	}
	return id, point, nil
}
