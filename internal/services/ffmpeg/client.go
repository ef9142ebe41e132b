package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Params is the encoder parameter set shared by both passes of a job.
type Params struct {
	Codec           string
	BitrateKbps     int
	MaxrateKbps     int
	BufsizeKbps     int
	RateControl     string
	Preset          string
	Tune            string
	Profile         string
	LookaheadFrames int
	SpatialAQ       bool
	BFrames         int
}

// Job describes one two-pass encode: a source file, the final output path,
// and the parameters applied to both passes.
type Job struct {
	Input  string
	Output string
	Params Params
}

// ProgressFunc receives raw ffmpeg status lines as they are emitted.
type ProgressFunc func(line string)

// Client defines the two-pass encoder behaviour.
type Client interface {
	// Analyze runs the first pass against a null sink, producing only the
	// pass statistics the second pass consumes.
	Analyze(ctx context.Context, job Job, progress ProgressFunc) error
	// Encode runs the second pass, producing the final container at
	// job.Output with all audio and subtitle streams copied unmodified.
	Encode(ctx context.Context, job Job, progress ProgressFunc) error
}

// SheetParams describes a tiled contact-sheet render: the thumbnail grid,
// the per-thumbnail bounding box, and the spacing between tiles.
type SheetParams struct {
	Cols      int
	Rows      int
	MaxWidth  int
	MaxHeight int
	GapPx     int
	MarginPx  int
}

// SheetRenderer renders contact-sheet images for video files.
type SheetRenderer interface {
	// Sheet writes a tiled contact sheet for input at output. duration is
	// the media length in seconds and controls frame spacing.
	Sheet(ctx context.Context, input, output string, duration float64, params SheetParams, progress ProgressFunc) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Analyze implements Client.
func (c *CLI) Analyze(ctx context.Context, job Job, progress ProgressFunc) error {
	if err := validateJob(job); err != nil {
		return err
	}
	args := commonArgs(job)
	args = append(args, "-pass", "1", "-passlogfile", passLogPrefix(job))
	args = append(args, "-an", "-sn", "-f", "null", os.DevNull)
	if err := c.run(ctx, args, progress); err != nil {
		cleanupPassLogs(job)
		return fmt.Errorf("ffmpeg analysis pass: %w", err)
	}
	return nil
}

// Encode implements Client.
func (c *CLI) Encode(ctx context.Context, job Job, progress ProgressFunc) error {
	if err := validateJob(job); err != nil {
		return err
	}
	args := commonArgs(job)
	args = append(args, "-pass", "2", "-passlogfile", passLogPrefix(job))
	args = append(args, "-map", "0", "-c:a", "copy", "-c:s", "copy", job.Output)
	err := c.run(ctx, args, progress)
	cleanupPassLogs(job)
	if err != nil {
		return fmt.Errorf("ffmpeg encode pass: %w", err)
	}
	return nil
}

// Sheet implements SheetRenderer. Frames are sampled at a fixed
// duration/(cols*rows+1) spacing, which skips the very start and end of the
// video, then scaled into the thumbnail bounds and tiled in one invocation.
func (c *CLI) Sheet(ctx context.Context, input, output string, duration float64, params SheetParams, progress ProgressFunc) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(output) == "" {
		return errors.New("output path required")
	}
	if duration <= 0 {
		return errors.New("duration must be positive")
	}
	if params.Cols <= 0 || params.Rows <= 0 {
		return errors.New("grid dimensions must be positive")
	}
	if params.MaxWidth <= 0 || params.MaxHeight <= 0 {
		return errors.New("thumbnail bounds must be positive")
	}
	if params.GapPx < 0 || params.MarginPx < 0 {
		return errors.New("gap and margin must not be negative")
	}

	interval := duration / float64(params.Cols*params.Rows+1)
	step := strconv.FormatFloat(interval, 'f', 3, 64)
	filter := fmt.Sprintf("fps=1/%s,scale=%d:%d:force_original_aspect_ratio=decrease,tile=%dx%d:padding=%d:margin=%d",
		step, params.MaxWidth, params.MaxHeight, params.Cols, params.Rows, params.GapPx, params.MarginPx)
	args := []string{
		"-y", "-hide_banner", "-nostdin",
		"-ss", step,
		"-i", input,
		"-vf", filter,
		"-frames:v", "1",
		output,
	}
	if err := c.run(ctx, args, progress); err != nil {
		return fmt.Errorf("ffmpeg contact sheet: %w", err)
	}
	return nil
}

func (c *CLI) run(ctx context.Context, args []string, progress ProgressFunc) error {
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", c.binary, err)
	}

	const tailLines = 12
	tail := make([]string, 0, tailLines)
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if len(tail) == tailLines {
			tail = append(tail[:0], tail[1:]...)
		}
		tail = append(tail, line)
		if progress != nil {
			progress(line)
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read %s output: %w", c.binary, err)
	}

	if err := cmd.Wait(); err != nil {
		if len(tail) > 0 {
			return fmt.Errorf("%w: %s", err, strings.Join(tail, " | "))
		}
		return err
	}
	return nil
}

func validateJob(job Job) error {
	if strings.TrimSpace(job.Input) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(job.Output) == "" {
		return errors.New("output path required")
	}
	if strings.TrimSpace(job.Params.Codec) == "" {
		return errors.New("codec required")
	}
	if job.Params.BitrateKbps <= 0 {
		return errors.New("bitrate must be positive")
	}
	return nil
}

func commonArgs(job Job) []string {
	p := job.Params
	args := []string{
		"-y", "-hide_banner", "-nostdin",
		"-i", job.Input,
		"-c:v", p.Codec,
		"-b:v", kbps(p.BitrateKbps),
	}
	if p.MaxrateKbps > 0 {
		args = append(args, "-maxrate", kbps(p.MaxrateKbps))
	}
	if p.BufsizeKbps > 0 {
		args = append(args, "-bufsize", kbps(p.BufsizeKbps))
	}
	if p.RateControl != "" {
		args = append(args, "-rc", p.RateControl)
	}
	if p.Preset != "" {
		args = append(args, "-preset", p.Preset)
	}
	if p.Tune != "" {
		args = append(args, "-tune", p.Tune)
	}
	if p.Profile != "" {
		args = append(args, "-profile:v", p.Profile)
	}
	if p.LookaheadFrames > 0 {
		args = append(args, "-rc-lookahead", strconv.Itoa(p.LookaheadFrames))
	}
	if p.SpatialAQ {
		args = append(args, "-spatial-aq", "1")
	}
	if p.BFrames > 0 {
		args = append(args, "-bf", strconv.Itoa(p.BFrames))
	}
	return args
}

func kbps(value int) string {
	return strconv.Itoa(value) + "k"
}

// passLogPrefix keys the pass statistics to the resolved output so jobs for
// same-named siblings never share state.
func passLogPrefix(job Job) string {
	return job.Output + ".passlog"
}

func cleanupPassLogs(job Job) {
	matches, err := filepath.Glob(passLogPrefix(job) + "*")
	if err != nil {
		return
	}
	for _, match := range matches {
		_ = os.Remove(match)
	}
}

var (
	_ Client        = (*CLI)(nil)
	_ SheetRenderer = (*CLI)(nil)
)
