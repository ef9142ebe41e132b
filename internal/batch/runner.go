package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"reel/internal/config"
	"reel/internal/fileutil"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/media/ffprobe"
	"reel/internal/naming"
	"reel/internal/services"
	"reel/internal/services/ffmpeg"
)

// inspectProbe is swappable in tests.
var inspectProbe = ffprobe.Inspect

// cloneTimes is swappable in tests.
var cloneTimes = fileutil.CloneTimes

// ErrLocked is returned when another batch holds the run lock.
var ErrLocked = errors.New("another reel run is active")

// Runner processes a batch of input files sequentially: resolve the output
// path, run both encoder passes, clone the input's timestamps onto the
// output. One file is fully processed before the next begins, which is what
// lets the path resolver rely on plain existence checks.
type Runner struct {
	cfg     *config.Config
	variant config.Variant
	encoder ffmpeg.Client
	store   *history.Store
	logger  *slog.Logger

	// DisableLock skips the cross-process run lock.
	DisableLock bool
}

// New constructs a runner. store may be nil to skip history recording;
// logger may be nil for silent operation.
func New(cfg *config.Config, variant config.Variant, encoder ffmpeg.Client, store *history.Store, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("runner requires config")
	}
	if encoder == nil {
		return nil, errors.New("runner requires encoder client")
	}
	if variant.Name == "" {
		return nil, errors.New("runner requires a variant")
	}
	return &Runner{
		cfg:     cfg,
		variant: variant,
		encoder: encoder,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "batch"),
	}, nil
}

// Run processes the inputs in order and returns the batch summary. The
// returned error is nil even when individual files fail; it is non-nil only
// for batch-level conditions (lock held, empty input list).
func (r *Runner) Run(ctx context.Context, inputs []string) (Summary, error) {
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

	summary := Summary{Variant: r.variant.Name}
	summary.RunID = beginRun(ctx, r.store, r.logger, summary.Variant)

	template := naming.Template{Suffix: r.variant.Suffix, Container: r.variant.Container}
	for index, input := range inputs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		r.logger.Info("processing input",
			logging.String("input", input),
			logging.Int("position", index+1),
			logging.Int("total", len(inputs)),
		)
		result := r.processFile(ctx, input, template)
		summary.Results = append(summary.Results, result)
		recordRun(ctx, r.store, r.logger, summary.RunID, result)
	}

	finishRun(ctx, r.store, r.logger, summary)
	r.logger.Info("batch complete",
		logging.Int("succeeded", summary.Succeeded()),
		logging.Int("failed", summary.Failed()),
	)
	return summary, nil
}

func (r *Runner) processFile(ctx context.Context, input string, template naming.Template) Result {
	start := time.Now()
	result := Result{Input: input}

	info, err := os.Stat(input)
	if err != nil || info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is a directory", input)
		}
		result.Status = StatusInputMissing
		result.Err = services.Wrap(services.ErrNotFound, "batch", "stat input", "input file missing", err)
		result.Duration = time.Since(start)
		r.logger.Error("input not found", logging.String("input", input), logging.Error(err))
		return result
	}

	if probed, probeErr := inspectProbe(ctx, r.cfg.Tools.FFprobeBinary, input); probeErr != nil {
		// The encoder gives the authoritative verdict; a probe failure
		// alone does not fail the file.
		r.logger.Warn("probe failed", logging.String("input", input), logging.Error(probeErr))
	} else {
		result.Seconds = probed.DurationSeconds()
		if !probed.HasVideo() {
			result.Status = StatusEncodeFailed
			result.Err = services.Wrap(services.ErrValidation, "batch", "probe input", "no video stream", nil)
			result.Duration = time.Since(start)
			r.logger.Error("input has no video stream", logging.String("input", input))
			return result
		}
	}

	output, err := naming.Resolve(input, template)
	if err != nil {
		result.Status = StatusResolveFailed
		result.Err = services.Wrap(services.ErrValidation, "batch", "resolve output", "no usable output path", err)
		result.Duration = time.Since(start)
		r.logger.Error("output resolution failed", logging.String("input", input), logging.Error(err))
		return result
	}
	result.Output = output
	r.logger.Info("output resolved", logging.String("output", output))

	job := ffmpeg.Job{Input: input, Output: output, Params: encoderParams(r.variant)}
	progress := func(line string) {
		r.logger.Debug("encoder", logging.String("line", line))
	}

	if err := r.encoder.Analyze(ctx, job, progress); err != nil {
		result.Status = StatusEncodeFailed
		result.Err = services.Wrap(services.ErrExternalTool, "batch", "analysis pass", "first pass failed", err)
		result.Duration = time.Since(start)
		r.logger.Error("analysis pass failed", logging.String("input", input), logging.Error(err))
		return result
	}
	if err := r.encoder.Encode(ctx, job, progress); err != nil {
		result.Status = StatusEncodeFailed
		result.Err = services.Wrap(services.ErrExternalTool, "batch", "encode pass", "second pass failed", err)
		result.Duration = time.Since(start)
		r.logger.Error("encode pass failed", logging.String("input", input), logging.Error(err))
		return result
	}

	if err := cloneTimes(input, output); err != nil {
		result.Status = StatusTimestampFailed
		result.Err = services.Wrap(services.ErrExternalTool, "batch", "clone timestamps", "output keeps encoder times", err)
		result.Duration = time.Since(start)
		r.logger.Warn("timestamp copy failed", logging.String("output", output), logging.Error(err))
		return result
	}

	result.Status = StatusOK
	result.Duration = time.Since(start)
	r.logger.Info("file complete",
		logging.String("output", output),
		logging.Duration("took", result.Duration),
	)
	return result
}

// acquireLock guards a whole batch against concurrent reel invocations,
// whose existence probes would otherwise race each other.
func acquireLock(cfg *config.Config) (func(), error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "reel.lock")
	lock := flock.New(lockPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", lockPath, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, lockPath)
	}
	return func() { _ = lock.Unlock() }, nil
}

func beginRun(ctx context.Context, store *history.Store, logger *slog.Logger, variant string) string {
	if store == nil {
		return ""
	}
	runID, err := store.BeginRun(ctx, variant)
	if err != nil {
		logger.Warn("history run not recorded", logging.Error(err))
		return ""
	}
	return runID
}

func recordRun(ctx context.Context, store *history.Store, logger *slog.Logger, runID string, result Result) {
	if store == nil || runID == "" {
		return
	}
	record := history.FileRecord{
		Input:       result.Input,
		Output:      result.Output,
		Status:      string(result.Status),
		Seconds:     result.Seconds,
		WallSeconds: result.Duration.Seconds(),
	}
	if result.Err != nil {
		record.Error = result.Err.Error()
	}
	if err := store.RecordFile(ctx, runID, record); err != nil {
		logger.Warn("history record not written", logging.Error(err))
	}
}

func finishRun(ctx context.Context, store *history.Store, logger *slog.Logger, summary Summary) {
	if store == nil || summary.RunID == "" {
		return
	}
	if err := store.FinishRun(ctx, summary.RunID, summary.Succeeded(), summary.Failed()); err != nil {
		logger.Warn("history run not finalized", logging.Error(err))
	}
}

func encoderParams(v config.Variant) ffmpeg.Params {
	return ffmpeg.Params{
		Codec:           v.Codec,
		BitrateKbps:     v.BitrateKbps,
		MaxrateKbps:     v.MaxrateKbps,
		BufsizeKbps:     v.BufsizeKbps,
		RateControl:     v.RateControl,
		Preset:          v.Preset,
		Tune:            v.Tune,
		Profile:         v.Profile,
		LookaheadFrames: v.LookaheadFrames,
		SpatialAQ:       v.SpatialAQ,
		BFrames:         v.BFrames,
	}
}
