package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelmark/reelmark/internal/api"
	"github.com/reelmark/reelmark/internal/config"
	"github.com/reelmark/reelmark/internal/database"
	"github.com/reelmark/reelmark/internal/export"
	"github.com/reelmark/reelmark/internal/model"
	"github.com/reelmark/reelmark/internal/model/convert"
	"github.com/reelmark/reelmark/pkg/core"
)

func newReexportCommand(app *appContext) *cobra.Command {
	var reviewID string
	var outDir string
	var rfc4180 bool
	var upload bool

	cmd := &cobra.Command{
		Use:   "reexport <archive.db>",
		Short: "Rebuild the CSV export from an archived review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureConfig(); err != nil {
				return err
			}

			db, err := database.OpenArchive(args[0])
			if err != nil {
				return err
			}

			var rev model.Review
			q := db.Order("started_at DESC")
			if reviewID != "" {
				q = q.Where("review_id = ?", reviewID)
			}
			if err := q.First(&rev).Error; err != nil {
				return fmt.Errorf("finding review: %w", err)
			}

			var marks []model.Mark
			if err := db.Where("review_id = ?", rev.ID).
				Order("id ASC").Find(&marks).Error; err != nil {
				return fmt.Errorf("reading marks: %w", err)
			}

			frames := make([]core.MarkedFrame, len(marks))
			for i, m := range marks {
				frames[i] = convert.MarkToCore(m)
			}

			var opts []export.Option
			if rfc4180 {
				opts = append(opts, export.WithRFC4180())
			}
			data, err := export.NewEncoder(opts...).Encode(frames)
			if err != nil {
				return err
			}

			exportCfg := config.GetExportConfig()
			if outDir == "" {
				outDir = exportCfg.Dir
			}
			filename := export.SuggestedFilename(rev.Title, rev.StartedAt)

			sink := &export.FileSink{Dir: outDir, Compress: exportCfg.Compress}
			if err := sink.Deliver(cmd.Context(), filename, data); err != nil {
				return fmt.Errorf("%w: %w", export.ErrEncoding, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d marks)\n", filename, len(frames))

			if upload {
				hub := config.GetHubConfig()
				if hub.URL == "" {
					return fmt.Errorf("no hub.url configured")
				}
				client := api.New(hub.URL, hub.Token)
				if err := client.UploadExport(cmd.Context(), filename, data); err != nil {
					return fmt.Errorf("uploading export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s to %s\n", filename, hub.URL)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&reviewID, "review", "", "review id to export (default: most recent)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: configured export dir)")
	cmd.Flags().BoolVar(&rfc4180, "rfc4180", false, "escape embedded quotes per RFC 4180")
	cmd.Flags().BoolVar(&upload, "upload", false, "also upload the CSV to the review hub")

	return cmd
}
