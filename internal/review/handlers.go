package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/reelmark/reelmark/internal/dispatcher"
	"github.com/reelmark/reelmark/internal/parser"
	"github.com/reelmark/reelmark/internal/util"
)

// Command names understood by a review context.
const (
	CmdInit        = ":INIT:"
	CmdLoad        = ":LOAD:"
	CmdPlay        = ":PLAY:"
	CmdPause       = ":PAUSE:"
	CmdPlayAll     = ":PLAY:ALL:"
	CmdPauseAll    = ":PAUSE:ALL:"
	CmdSpeed       = ":SPEED:"
	CmdDraw        = ":DRAW:"
	CmdPointerDown = ":POINTER:DOWN:"
	CmdPointerMove = ":POINTER:MOVE:"
	CmdPointerUp   = ":POINTER:UP:"
	CmdClear       = ":CLEAR:"
	CmdMark        = ":MARK:"
	CmdExport      = ":EXPORT:"
	CmdStatus      = ":STATUS:"
	CmdShutdown    = ":SHUTDOWN:"
)

// Commands returns every command name RegisterHandlers wires up.
func Commands() []string {
	return []string{
		CmdInit, CmdLoad,
		CmdPlay, CmdPause, CmdPlayAll, CmdPauseAll, CmdSpeed,
		CmdDraw, CmdPointerDown, CmdPointerMove, CmdPointerUp, CmdClear,
		CmdMark, CmdExport, CmdStatus, CmdShutdown,
	}
}

// RegisterHandlers registers all review commands with the dispatcher.
// Every handler is sync: a mark must capture the pointer state as of the
// instant its event arrives, so pointer moves may never be reordered past
// it in a buffered lane. Fan-out buffering lives downstream in the
// subscriber feeds and storage queues instead.
func (c *Context) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Lifecycle
	d.Register(CmdInit, c.handleInit, dispatcher.Logged())
	d.Register(CmdLoad, c.handleLoad, dispatcher.Logged())
	d.Register(CmdShutdown, c.handleShutdown, dispatcher.Logged())

	// Playback
	d.Register(CmdPlay, c.handlePlay, dispatcher.Logged())
	d.Register(CmdPause, c.handlePause, dispatcher.Logged())
	d.Register(CmdPlayAll, c.handlePlayAll, dispatcher.Logged())
	d.Register(CmdPauseAll, c.handlePauseAll, dispatcher.Logged())
	d.Register(CmdSpeed, c.handleSpeed, dispatcher.Logged())

	// Annotation
	d.Register(CmdDraw, c.handleDraw, dispatcher.Logged())
	d.Register(CmdPointerDown, c.handlePointerDown, dispatcher.Logged())
	d.Register(CmdPointerMove, c.handlePointerMove, dispatcher.Logged())
	d.Register(CmdPointerUp, c.handlePointerUp, dispatcher.Logged())
	d.Register(CmdClear, c.handleClear, dispatcher.Logged())

	// Marking and output
	d.Register(CmdMark, c.handleMark, dispatcher.Logged())
	d.Register(CmdExport, c.handleExport, dispatcher.Logged())
	d.Register(CmdStatus, c.handleStatus, dispatcher.Logged())
}

func (c *Context) handleInit(e dispatcher.Event) (any, error) {
	if title := util.UnquoteArg(strings.Join(e.Args, " ")); title != "" {
		c.SetTitle(title)
	}
	if err := c.Begin(); err != nil {
		return nil, err
	}
	return c.Info(), nil
}

func (c *Context) handleLoad(e dispatcher.Event) (any, error) {
	names, err := c.deps.Parser.ParseLoadArgs(e.Args)
	if err != nil {
		return nil, err
	}
	if c.deps.Opener == nil {
		return nil, fmt.Errorf("no stream opener configured")
	}

	report := c.LoadFiles(context.Background(), names, c.deps.Opener)
	return report, report.Err()
}

func (c *Context) handlePlay(e dispatcher.Event) (any, error) {
	id, err := c.deps.Parser.ParseStreamArg(e.Args)
	if err != nil {
		return nil, err
	}
	return nil, c.Play(id)
}

func (c *Context) handlePause(e dispatcher.Event) (any, error) {
	id, err := c.deps.Parser.ParseStreamArg(e.Args)
	if err != nil {
		return nil, err
	}
	return nil, c.Pause(id)
}

func (c *Context) handlePlayAll(e dispatcher.Event) (any, error) {
	if len(e.Args) != 0 {
		return nil, fmt.Errorf("%w: %s takes no arguments", parser.ErrMalformedArgs, CmdPlayAll)
	}
	return nil, c.PlayAll()
}

func (c *Context) handlePauseAll(e dispatcher.Event) (any, error) {
	if len(e.Args) != 0 {
		return nil, fmt.Errorf("%w: %s takes no arguments", parser.ErrMalformedArgs, CmdPauseAll)
	}
	return nil, c.PauseAll()
}

func (c *Context) handleSpeed(e dispatcher.Event) (any, error) {
	id, speed, err := c.deps.Parser.ParseSpeedArgs(e.Args)
	if err != nil {
		return nil, err
	}
	return nil, c.SetSpeed(id, speed)
}

func (c *Context) handleDraw(e dispatcher.Event) (any, error) {
	id, points, err := c.deps.Parser.ParseDrawArgs(e.Args)
	if err != nil {
		return nil, err
	}
	return nil, c.Draw(id, points)
}

func (c *Context) handlePointerDown(e dispatcher.Event) (any, error) {
	id, p, err := c.deps.Parser.ParsePointerArgs(e.Args)
	if err != nil {
		return nil, err
	}
	return nil, c.PointerDown(id, p)
}

func (c *Context) handlePointerMove(e dispatcher.Event) (any, error) {
	id, p, err := c.deps.Parser.ParsePointerArgs(e.Args)
	if err != nil {
		return nil, err
	}
	return nil, c.PointerMove(id, p)
}

func (c *Context) handlePointerUp(e dispatcher.Event) (any, error) {
	id, err := c.deps.Parser.ParseStreamArg(e.Args)
	if err != nil {
		return nil, err
	}
	return nil, c.PointerUp(id)
}

func (c *Context) handleClear(e dispatcher.Event) (any, error) {
	id, err := c.deps.Parser.ParseStreamArg(e.Args)
	if err != nil {
		return nil, err
	}
	return nil, c.ClearDrawing(id)
}

func (c *Context) handleMark(e dispatcher.Event) (any, error) {
	id, err := c.deps.Parser.ParseStreamArg(e.Args)
	if err != nil {
		return nil, err
	}
	return c.Mark(id)
}

func (c *Context) handleExport(e dispatcher.Event) (any, error) {
	if len(e.Args) != 0 {
		return nil, fmt.Errorf("%w: %s takes no arguments", parser.ErrMalformedArgs, CmdExport)
	}
	return c.Export(context.Background(), nil)
}

func (c *Context) handleStatus(e dispatcher.Event) (any, error) {
	return c.Status(), nil
}

func (c *Context) handleShutdown(e dispatcher.Event) (any, error) {
	return nil, c.Close()
}
