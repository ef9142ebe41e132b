package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/batch"
	"reel/internal/services/ffmpeg"
)

func newThumbsCommand(ctx *commandContext) *cobra.Command {
	var cols, rows, width, height, gap, margin int
	var noLock bool

	cmd := &cobra.Command{
		Use:   "thumbs <file>...",
		Short: "Render a tiled contact-sheet image per video file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			params := batch.SheetParamsFromConfig(cfg.Thumbs)
			flags := cmd.Flags()
			if flags.Changed("cols") {
				params.Cols = cols
			}
			if flags.Changed("rows") {
				params.Rows = rows
			}
			if flags.Changed("width") {
				params.MaxWidth = width
			}
			if flags.Changed("height") {
				params.MaxHeight = height
			}
			if flags.Changed("gap") {
				params.GapPx = gap
			}
			if flags.Changed("margin") {
				params.MarginPx = margin
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			store := ctx.openHistory(logger)
			if store != nil {
				defer store.Close()
			}

			renderer := ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Tools.FFmpegBinary))
			runner, err := batch.NewSheetRunner(cfg, params, renderer, store, logger)
			if err != nil {
				return err
			}
			runner.DisableLock = noLock

			summary, err := runner.Run(cmd.Context(), args)
			if err != nil {
				return err
			}

			renderSummary(cmd.OutOrStdout(), summary)
			if !summary.OK() {
				return fmt.Errorf("%d of %d files failed", summary.Failed(), len(summary.Results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&cols, "cols", "M", 3, "Thumbnails per row")
	cmd.Flags().IntVarP(&rows, "rows", "N", 4, "Thumbnails per column")
	cmd.Flags().IntVarP(&width, "width", "W", 320, "Maximum thumbnail width in pixels")
	cmd.Flags().IntVarP(&height, "height", "H", 180, "Maximum thumbnail height in pixels")
	cmd.Flags().IntVar(&gap, "gap", 5, "Spacing between thumbnails in pixels")
	cmd.Flags().IntVar(&margin, "margin", 5, "Outer border around the sheet in pixels")
	cmd.Flags().BoolVar(&noLock, "no-lock", false, "Skip the cross-process run lock")
	return cmd
}
