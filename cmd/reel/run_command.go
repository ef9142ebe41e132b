package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reel/internal/batch"
	"reel/internal/services/ffmpeg"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var variantFlag string
	var noLock bool

	cmd := &cobra.Command{
		Use:   "run [--variant NAME] <file>...",
		Short: "Encode files with a configured variant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, variantFlag, noLock, args)
		},
	}

	cmd.Flags().StringVarP(&variantFlag, "variant", "v", "", "Encode variant name (default: first configured)")
	cmd.Flags().BoolVar(&noLock, "no-lock", false, "Skip the cross-process run lock")
	return cmd
}

func runBatch(cmd *cobra.Command, ctx *commandContext, variantName string, noLock bool, inputs []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	variant := cfg.DefaultVariant()
	if variantName != "" {
		found, ok := cfg.VariantByName(variantName)
		if !ok {
			return fmt.Errorf("unknown variant %q (see `reel variants`)", variantName)
		}
		variant = found
	}

	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	store := ctx.openHistory(logger)
	if store != nil {
		defer store.Close()
	}

	encoder := ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Tools.FFmpegBinary))
	runner, err := batch.New(cfg, variant, encoder, store, logger)
	if err != nil {
		return err
	}
	runner.DisableLock = noLock

	summary, err := runner.Run(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	renderSummary(cmd.OutOrStdout(), summary)
	if !summary.OK() {
		return fmt.Errorf("%d of %d files failed", summary.Failed(), len(summary.Results))
	}
	return nil
}

func renderSummary(w io.Writer, summary batch.Summary) {
	if stdoutIsTerminal() {
		headers := []string{"Input", "Output", "Status", "Length", "Took"}
		rows := make([][]string, 0, len(summary.Results))
		for _, result := range summary.Results {
			rows = append(rows, []string{
				result.Input,
				result.Output,
				string(result.Status),
				formatSeconds(result.Seconds),
				result.Duration.Round(100 * time.Millisecond).String(),
			})
		}
		fmt.Fprintln(w, renderTable(headers, rows, 3, 4))
	} else {
		for _, result := range summary.Results {
			fmt.Fprintf(w, "%s -> %s [%s]", result.Input, result.Output, result.Status)
			if result.Seconds > 0 {
				fmt.Fprintf(w, " length=%s", formatSeconds(result.Seconds))
			}
			fmt.Fprintf(w, " took=%s\n", result.Duration.Round(100*time.Millisecond))
		}
	}
	fmt.Fprintf(w, "%s: %d succeeded, %d failed\n", summary.Variant, summary.Succeeded(), summary.Failed())
}

// formatSeconds renders a media duration, or "" when it is unknown.
func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
