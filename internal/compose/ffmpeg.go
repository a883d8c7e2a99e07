package compose

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FFmpegComposer implements Service by shelling out to ffmpeg. Clip
// durations are probed with ffprobe first, since xfade offsets are absolute.
type FFmpegComposer struct {
	FFmpegPath  string
	FFprobePath string
	// runCommand executes an external command; replaceable in tests
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewFFmpegComposer creates a composer using ffmpeg/ffprobe from PATH
func NewFFmpegComposer() *FFmpegComposer {
	return &FFmpegComposer{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		runCommand:  runCombined,
	}
}

func runCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Compose merges inputs into opts.OutputPath with the configured transition
func (c *FFmpegComposer) Compose(ctx context.Context, inputs []string, opts Options) (string, error) {
	if len(inputs) == 0 {
		return "", &CompositionError{Message: "no video files provided for merging"}
	}
	for _, path := range inputs {
		if _, err := os.Stat(path); err != nil {
			return "", &CompositionError{Message: fmt.Sprintf("video file not found: %s", path), Cause: err}
		}
	}
	if opts.OutputPath == "" {
		return "", &CompositionError{Message: "output path is empty"}
	}
	if opts.Transition == "" {
		opts.Transition = TransitionCrossfade
	}
	if opts.TransitionDuration <= 0 {
		opts.TransitionDuration = DefaultTransitionDuration
	}

	// A single surviving clip needs no transition work.
	if len(inputs) == 1 {
		if err := copyFile(inputs[0], opts.OutputPath); err != nil {
			return "", &CompositionError{Message: "failed to copy single clip", Cause: err}
		}
		return opts.OutputPath, nil
	}

	durations, err := c.probeDurations(ctx, inputs)
	if err != nil {
		return "", err
	}

	args := buildMergeArgs(inputs, durations, opts)
	if out, err := c.runCommand(ctx, c.FFmpegPath, args...); err != nil {
		return "", &CompositionError{
			Message: fmt.Sprintf("ffmpeg failed: %s", truncate(string(out), 512)),
			Cause:   err,
		}
	}
	return opts.OutputPath, nil
}

// probeDurations reads each clip's duration concurrently. This is the only
// concurrency in the whole pipeline; scene processing itself stays
// sequential.
func (c *FFmpegComposer) probeDurations(ctx context.Context, inputs []string) ([]float64, error) {
	durations := make([]float64, len(inputs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, path := range inputs {
		g.Go(func() error {
			out, err := c.runCommand(gCtx, c.FFprobePath,
				"-v", "error",
				"-show_entries", "format=duration",
				"-of", "default=noprint_wrappers=1:nokey=1",
				path,
			)
			if err != nil {
				return &CompositionError{Message: fmt.Sprintf("ffprobe failed for %s", path), Cause: err}
			}
			d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
			if err != nil {
				return &CompositionError{Message: fmt.Sprintf("unparseable duration for %s", path), Cause: err}
			}
			durations[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return durations, nil
}

// buildMergeArgs assembles the full ffmpeg invocation for the transition
func buildMergeArgs(inputs []string, durations []float64, opts Options) []string {
	args := []string{"-y"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}

	var filter, outV, outA string
	switch opts.Transition {
	case TransitionFadeBlack:
		filter, outV, outA = buildFadeBlackFilter(len(inputs), durations, opts.TransitionDuration)
	case TransitionSimple:
		filter, outV, outA = buildConcatFilter(len(inputs))
	default:
		filter, outV, outA = buildCrossfadeFilter(durations, opts.TransitionDuration)
	}

	args = append(args,
		"-filter_complex", filter,
		"-map", outV,
		"-map", outA,
		"-c:v", "libx264",
		"-c:a", "aac",
		opts.OutputPath,
	)
	return args
}

// buildCrossfadeFilter chains xfade/acrossfade pairs with overlapping
// offsets, reproducing the overlapped-clip crossfade of the original merge
// routine.
func buildCrossfadeFilter(durations []float64, d float64) (filter, outV, outA string) {
	n := len(durations)
	var sb strings.Builder

	prevV, prevA := "[0:v]", "[0:a]"
	offset := 0.0
	for i := 1; i < n; i++ {
		offset += durations[i-1] - d
		curV := fmt.Sprintf("[v%d]", i)
		curA := fmt.Sprintf("[a%d]", i)

		sb.WriteString(fmt.Sprintf("%s[%d:v]xfade=transition=fade:duration=%.3f:offset=%.3f%s;",
			prevV, i, d, offset, curV))
		sb.WriteString(fmt.Sprintf("%s[%d:a]acrossfade=d=%.3f%s;", prevA, i, d, curA))

		prevV, prevA = curV, curA
	}

	filter = strings.TrimSuffix(sb.String(), ";")
	return filter, prevV, prevA
}

// buildFadeBlackFilter fades each clip out/in and concatenates, so the
// transition passes through black.
func buildFadeBlackFilter(n int, durations []float64, d float64) (filter, outV, outA string) {
	var sb strings.Builder
	var labels []string

	for i := 0; i < n; i++ {
		v := fmt.Sprintf("[fv%d]", i)
		a := fmt.Sprintf("[fa%d]", i)

		var fades []string
		if i > 0 {
			fades = append(fades, fmt.Sprintf("fade=t=in:st=0:d=%.3f", d))
		}
		if i < n-1 {
			fades = append(fades, fmt.Sprintf("fade=t=out:st=%.3f:d=%.3f", durations[i]-d, d))
		}
		if len(fades) == 0 {
			fades = append(fades, "null")
		}
		sb.WriteString(fmt.Sprintf("[%d:v]%s%s;", i, strings.Join(fades, ","), v))
		sb.WriteString(fmt.Sprintf("[%d:a]acopy%s;", i, a))
		labels = append(labels, v+a)
	}

	sb.WriteString(fmt.Sprintf("%sconcat=n=%d:v=1:a=1[outv][outa]", strings.Join(labels, ""), n))
	return sb.String(), "[outv]", "[outa]"
}

// buildConcatFilter concatenates clips with no transition
func buildConcatFilter(n int) (filter, outV, outA string) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(fmt.Sprintf("[%d:v][%d:a]", i, i))
	}
	sb.WriteString(fmt.Sprintf("concat=n=%d:v=1:a=1[outv][outa]", n))
	return sb.String(), "[outv]", "[outa]"
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
