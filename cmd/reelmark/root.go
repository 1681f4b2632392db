package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   = "0.0.1"
	BuildDate = "unknown"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var jsonFlag bool

	app := newAppContext(&configFlag, &logLevelFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "reelmark",
		Short:         "Multi-stream video review with frame marking and CSV export",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "directory containing reelmark.cfg.json")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "emit JSON log records on stdout")

	rootCmd.AddCommand(newRunCommand(app))
	rootCmd.AddCommand(newDemoCommand(app))
	rootCmd.AddCommand(newMarksCommand(app))
	rootCmd.AddCommand(newReexportCommand(app))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build date",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reelmark %s (built %s)\n", Version, BuildDate)
		},
	}
}
