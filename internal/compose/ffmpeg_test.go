package compose

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeClip(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("clip"), 0o644))
	return path
}

// fakeRunner records commands and fakes ffprobe durations
type fakeRunner struct {
	commands [][]string
	duration string
	ffmpegOK bool
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.commands = append(f.commands, append([]string{name}, args...))
	if name == "ffprobe" {
		return []byte(f.duration + "\n"), nil
	}
	if !f.ffmpegOK {
		return []byte("ffmpeg boom"), errors.New("exit status 1")
	}
	return nil, nil
}

func newTestComposer(runner *fakeRunner) *FFmpegComposer {
	c := NewFFmpegComposer()
	c.runCommand = runner.run
	return c
}

func TestCompose_TwoClips(t *testing.T) {
	dir := t.TempDir()
	a := writeClip(t, dir, "scene_1.mp4")
	b := writeClip(t, dir, "scene_2.mp4")
	out := filepath.Join(dir, "merged.mp4")

	runner := &fakeRunner{duration: "8.0", ffmpegOK: true}
	got, err := newTestComposer(runner).Compose(context.Background(), []string{a, b}, Options{OutputPath: out})
	require.NoError(t, err)
	assert.Equal(t, out, got)

	// Two probes plus one merge invocation.
	require.Len(t, runner.commands, 3)
	merge := runner.commands[2]
	assert.Equal(t, "ffmpeg", merge[0])

	joined := strings.Join(merge, " ")
	assert.Contains(t, joined, "xfade=transition=fade:duration=0.300:offset=7.700")
	assert.Contains(t, joined, "acrossfade=d=0.300")
	assert.Contains(t, joined, out)
}

func TestCompose_SingleClipIsCopied(t *testing.T) {
	dir := t.TempDir()
	a := writeClip(t, dir, "scene_2.mp4")
	out := filepath.Join(dir, "merged.mp4")

	runner := &fakeRunner{duration: "8.0", ffmpegOK: true}
	got, err := newTestComposer(runner).Compose(context.Background(), []string{a}, Options{OutputPath: out})
	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.FileExists(t, out)
	// No external commands for a single clip.
	assert.Empty(t, runner.commands)
}

func TestCompose_NoInputs(t *testing.T) {
	_, err := newTestComposer(&fakeRunner{}).Compose(context.Background(), nil, Options{OutputPath: "x.mp4"})
	var compErr *CompositionError
	require.True(t, errors.As(err, &compErr))
}

func TestCompose_MissingInputFile(t *testing.T) {
	_, err := newTestComposer(&fakeRunner{}).Compose(context.Background(),
		[]string{"/nonexistent/scene_1.mp4"}, Options{OutputPath: "x.mp4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCompose_FFmpegFailure(t *testing.T) {
	dir := t.TempDir()
	a := writeClip(t, dir, "a.mp4")
	b := writeClip(t, dir, "b.mp4")

	runner := &fakeRunner{duration: "8.0", ffmpegOK: false}
	_, err := newTestComposer(runner).Compose(context.Background(), []string{a, b},
		Options{OutputPath: filepath.Join(dir, "out.mp4")})

	var compErr *CompositionError
	require.True(t, errors.As(err, &compErr))
	assert.Contains(t, err.Error(), "ffmpeg boom")
}

func TestBuildCrossfadeFilter_ChainsOffsets(t *testing.T) {
	filter, outV, outA := buildCrossfadeFilter([]float64{8, 8, 8}, 0.3)

	assert.Equal(t, "[v2]", outV)
	assert.Equal(t, "[a2]", outA)
	// Second offset accumulates both prior durations minus both overlaps.
	assert.Contains(t, filter, "offset=7.700")
	assert.Contains(t, filter, "offset=15.400")
	assert.False(t, strings.HasSuffix(filter, ";"))
}

func TestBuildConcatFilter(t *testing.T) {
	filter, outV, outA := buildConcatFilter(3)
	assert.Equal(t, "[outv]", outV)
	assert.Equal(t, "[outa]", outA)
	assert.Contains(t, filter, "concat=n=3:v=1:a=1")
}

func TestBuildFadeBlackFilter(t *testing.T) {
	filter, _, _ := buildFadeBlackFilter(2, []float64{8, 8}, 0.3)
	assert.Contains(t, filter, "fade=t=out:st=7.700:d=0.300")
	assert.Contains(t, filter, "fade=t=in:st=0:d=0.300")
	assert.Contains(t, filter, "concat=n=2:v=1:a=1")
}
