package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRunCommand(app *appContext) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute a review script",
		Long: `Execute a review script: one command per line, '#' comments.

Commands take whitespace-separated arguments; double quotes group names
containing spaces. A typical script:

    :INIT: "Grand Finals"
    :LOAD: cam_main.mp4 "side angle.mp4"
    :PLAY:ALL:
    :DRAW: 1 [[120,80],[180,95],[240,160]]
    :MARK: 1
    :EXPORT:
    :SHUTDOWN:`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.bootstrap(title)
			if err != nil {
				return err
			}
			defer rt.shutdown()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening script: %w", err)
			}
			defer f.Close()

			return runScript(rt, f, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "review title (a quoted :INIT: argument wins)")
	return cmd
}
