package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reelmark/reelmark/internal/annotation"
	"github.com/reelmark/reelmark/internal/database"
	"github.com/reelmark/reelmark/internal/model"
	"github.com/reelmark/reelmark/internal/model/convert"
	"github.com/reelmark/reelmark/internal/util"
)

func newMarksCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "marks <archive.db>",
		Short: "List the marks stored in a review archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.OpenArchive(args[0])
			if err != nil {
				return err
			}

			var reviews []model.Review
			if err := db.Order("started_at ASC").Find(&reviews).Error; err != nil {
				return fmt.Errorf("reading reviews: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(reviews) == 0 {
				fmt.Fprintln(out, "archive holds no reviews")
				return nil
			}

			for _, rev := range reviews {
				var streams []model.Stream
				if err := db.Where("review_id = ?", rev.ID).
					Order("stream_id ASC").Find(&streams).Error; err != nil {
					return fmt.Errorf("reading streams: %w", err)
				}
				byID := make(map[uint]model.Stream, len(streams))
				for _, s := range streams {
					byID[s.StreamID] = s
				}

				var marks []model.Mark
				if err := db.Where("review_id = ?", rev.ID).
					Order("id ASC").Find(&marks).Error; err != nil {
					return fmt.Errorf("reading marks: %w", err)
				}

				rows := make([][]string, 0, len(marks))
				for _, m := range marks {
					frame := convert.MarkToCore(m)

					label := strconv.FormatUint(uint64(frame.StreamID), 10)
					if s, ok := byID[frame.StreamID]; ok {
						label = util.FormatStreamLabel(s.StreamID, s.DisplayName, s.PlaybackSpeed)
					}

					points, ink := "-", "-"
					if stroke, err := annotation.DecodePayload(frame.Annotations); err == nil {
						points = strconv.Itoa(stroke.PointCount())
						ink = strconv.FormatFloat(annotation.InkLength(stroke), 'f', 1, 64)
					}

					rows = append(rows, []string{
						label,
						strconv.FormatFloat(frame.TimeSeconds, 'f', 2, 64),
						points,
						ink,
					})
				}

				fmt.Fprintf(out, "review %q started %s: %d streams, %d marks\n",
					rev.Title, rev.StartedAt.Format("2006-01-02 15:04:05"), len(streams), len(marks))
				fmt.Fprintln(out, renderTable(
					[]string{"Stream", "Time (sec)", "Points", "Ink"},
					rows,
				))
			}
			return nil
		},
	}
}
