package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelmark/reelmark/internal/config"
	"github.com/reelmark/reelmark/internal/review"
)

func newDemoCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted demo review over synthetic streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.bootstrap("Demo Review")
			if err != nil {
				return err
			}
			defer rt.shutdown()

			return runDemo(rt, cmd.OutOrStdout())
		},
	}
}

// runDemo drives a whole review through the dispatcher: load synthetic
// streams, wander a stroke across each, mark a few frames, export. Counts
// come from the demo config section.
func runDemo(rt *runtime, out io.Writer) error {
	cfg := config.GetDemoConfig()
	demoStart := time.Now()

	demoDispatch := func(command string, args ...string) {
		result, err := rt.dispatch(command, args...)
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", command, err)
			return
		}
		printResult(out, result)
	}

	demoDispatch(review.CmdInit, `"Demo Review"`)

	names := make([]string, cfg.Streams)
	for i := range names {
		names[i] = fmt.Sprintf("demo_cam_%d.mp4", i+1)
	}
	demoDispatch(review.CmdLoad, names...)

	demoDispatch(review.CmdPlayAll)

	// Each stream gets one wandering stroke and a few marks while playing.
	for id := 1; id <= cfg.Streams; id++ {
		streamID := strconv.Itoa(id)

		x := rand.Float64() * 1920
		y := rand.Float64() * 1080
		dir := rand.Float64() * 2 * math.Pi

		demoDispatch(review.CmdPointerDown, streamID, formatPoint(x, y))
		for j := 0; j < 12; j++ {
			dir += rand.Float64() - 0.5
			x += math.Cos(dir) * 40
			y += math.Sin(dir) * 40
			demoDispatch(review.CmdPointerMove, streamID, formatPoint(x, y))
		}
		demoDispatch(review.CmdPointerUp, streamID)

		for j := 0; j < cfg.MarksPerStream; j++ {
			time.Sleep(120 * time.Millisecond)
			demoDispatch(review.CmdMark, streamID)
		}
	}

	if cfg.Streams > 1 {
		demoDispatch(review.CmdSpeed, "2", "1.5")
	}
	demoDispatch(review.CmdPauseAll)
	demoDispatch(review.CmdStatus)
	demoDispatch(review.CmdExport)
	demoDispatch(review.CmdShutdown)

	fmt.Fprintf(out, "demo finished in %s\n", time.Since(demoStart).Round(time.Millisecond))
	return nil
}

func formatPoint(x, y float64) string {
	return fmt.Sprintf("[%.1f,%.1f]", x, y)
}
