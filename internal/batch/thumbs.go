package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"reel/internal/config"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/naming"
	"reel/internal/services"
	"reel/internal/services/ffmpeg"
)

// sheetRunVariant labels contact-sheet batches in history.
const sheetRunVariant = "thumbs"

var sheetTemplate = naming.Template{Suffix: "sheet", Container: "png"}

// SheetRunner renders a contact-sheet image per input file. It follows the
// same sequencing rules as the encode runner: strictly one file at a time,
// file-scoped failures, the input's timestamps cloned onto the output.
type SheetRunner struct {
	cfg      *config.Config
	params   ffmpeg.SheetParams
	renderer ffmpeg.SheetRenderer
	store    *history.Store
	logger   *slog.Logger

	// DisableLock skips the cross-process run lock.
	DisableLock bool
}

// NewSheetRunner constructs a sheet runner. store may be nil to skip history
// recording; logger may be nil for silent operation.
func NewSheetRunner(cfg *config.Config, params ffmpeg.SheetParams, renderer ffmpeg.SheetRenderer, store *history.Store, logger *slog.Logger) (*SheetRunner, error) {
	if cfg == nil {
		return nil, errors.New("sheet runner requires config")
	}
	if renderer == nil {
		return nil, errors.New("sheet runner requires renderer")
	}
	return &SheetRunner{
		cfg:      cfg,
		params:   params,
		renderer: renderer,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "thumbs"),
	}, nil
}

// Run renders one sheet per input in order. As with the encode runner, the
// returned error is only for batch-level conditions.
func (r *SheetRunner) Run(ctx context.Context, inputs []string) (Summary, error) {
	if len(inputs) == 0 {
		return Summary{}, errors.New("no input files")
	}

	if !r.DisableLock {
		release, err := acquireLock(r.cfg)
		if err != nil {
			return Summary{}, err
		}
		defer release()
	}

	summary := Summary{Variant: sheetRunVariant}
	summary.RunID = beginRun(ctx, r.store, r.logger, summary.Variant)

	for index, input := range inputs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		r.logger.Info("rendering sheet",
			logging.String("input", input),
			logging.Int("position", index+1),
			logging.Int("total", len(inputs)),
		)
		result := r.processSheet(ctx, input)
		summary.Results = append(summary.Results, result)
		recordRun(ctx, r.store, r.logger, summary.RunID, result)
	}

	finishRun(ctx, r.store, r.logger, summary)
	r.logger.Info("sheet batch complete",
		logging.Int("succeeded", summary.Succeeded()),
		logging.Int("failed", summary.Failed()),
	)
	return summary, nil
}

func (r *SheetRunner) processSheet(ctx context.Context, input string) Result {
	start := time.Now()
	result := Result{Input: input}

	info, err := os.Stat(input)
	if err != nil || info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is a directory", input)
		}
		result.Status = StatusInputMissing
		result.Err = services.Wrap(services.ErrNotFound, "thumbs", "stat input", "input file missing", err)
		result.Duration = time.Since(start)
		r.logger.Error("input not found", logging.String("input", input), logging.Error(err))
		return result
	}

	// Frame spacing needs the media length, so unlike the encode runner a
	// failed probe fails the file here.
	probed, err := inspectProbe(ctx, r.cfg.Tools.FFprobeBinary, input)
	if err != nil {
		result.Status = StatusRenderFailed
		result.Err = services.Wrap(services.ErrExternalTool, "thumbs", "probe input", "duration unavailable", err)
		result.Duration = time.Since(start)
		r.logger.Error("probe failed", logging.String("input", input), logging.Error(err))
		return result
	}
	duration := probed.DurationSeconds()
	if !probed.HasVideo() || duration <= 0 {
		result.Status = StatusRenderFailed
		result.Err = services.Wrap(services.ErrValidation, "thumbs", "probe input", "no usable video stream", nil)
		result.Duration = time.Since(start)
		r.logger.Error("input not renderable", logging.String("input", input))
		return result
	}
	result.Seconds = duration

	output, err := naming.Resolve(input, sheetTemplate)
	if err != nil {
		result.Status = StatusResolveFailed
		result.Err = services.Wrap(services.ErrValidation, "thumbs", "resolve output", "no usable output path", err)
		result.Duration = time.Since(start)
		r.logger.Error("output resolution failed", logging.String("input", input), logging.Error(err))
		return result
	}
	result.Output = output

	progress := func(line string) {
		r.logger.Debug("renderer", logging.String("line", line))
	}
	if err := r.renderer.Sheet(ctx, input, output, duration, r.params, progress); err != nil {
		result.Status = StatusRenderFailed
		result.Err = services.Wrap(services.ErrExternalTool, "thumbs", "render sheet", "contact sheet not produced", err)
		result.Duration = time.Since(start)
		r.logger.Error("sheet render failed", logging.String("input", input), logging.Error(err))
		return result
	}

	if err := cloneTimes(input, output); err != nil {
		result.Status = StatusTimestampFailed
		result.Err = services.Wrap(services.ErrExternalTool, "thumbs", "clone timestamps", "output keeps renderer times", err)
		result.Duration = time.Since(start)
		r.logger.Warn("timestamp copy failed", logging.String("output", output), logging.Error(err))
		return result
	}

	result.Status = StatusOK
	result.Duration = time.Since(start)
	r.logger.Info("sheet complete",
		logging.String("output", output),
		logging.Duration("took", result.Duration),
	)
	return result
}

// SheetParamsFromConfig maps the thumbs config section onto renderer
// parameters.
func SheetParamsFromConfig(t config.Thumbs) ffmpeg.SheetParams {
	return ffmpeg.SheetParams{
		Cols:      t.Cols,
		Rows:      t.Rows,
		MaxWidth:  t.MaxWidth,
		MaxHeight: t.MaxHeight,
		GapPx:     t.GapPx,
		MarginPx:  t.MarginPx,
	}
}
