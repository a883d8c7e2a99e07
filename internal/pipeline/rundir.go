package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asapstudio/video-workflow/internal/types"
)

// RunDir is the per-run output directory holding the prompt set, one clip per
// succeeded scene, the merged video if composed, and the final report.
type RunDir struct {
	ID   string
	Path string
}

// NewRunID generates a run identifier: a timestamp stamp for human-sortable
// directories plus a UUID prefix to disambiguate same-second runs.
func NewRunID(now time.Time) string {
	short := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s_%s", now.Format("20060102_150405"), short)
}

// CreateRunDir creates <outputRoot>/runs/<id> and returns its handle
func CreateRunDir(outputRoot, id string) (*RunDir, error) {
	path := filepath.Join(outputRoot, "runs", id)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return &RunDir{ID: id, Path: path}, nil
}

// ScenePath returns the clip path for a scene index
func (d *RunDir) ScenePath(scene int) string {
	return filepath.Join(d.Path, fmt.Sprintf("scene_%d.mp4", scene))
}

// PromptsPath returns the prompt set path
func (d *RunDir) PromptsPath() string {
	return filepath.Join(d.Path, "prompts.json")
}

// MergedPath returns the composed output path
func (d *RunDir) MergedPath() string {
	return filepath.Join(d.Path, "merged.mp4")
}

// ReportPath returns the run report path
func (d *RunDir) ReportPath() string {
	return filepath.Join(d.Path, "report.json")
}

// WritePrompts persists the prompt set as prompts.json
func (d *RunDir) WritePrompts(set types.ScenePromptSet) error {
	return writeJSON(d.PromptsPath(), set)
}

// WriteReport persists the run report as report.json
func (d *RunDir) WriteReport(report *types.RunReport) error {
	return writeJSON(d.ReportPath(), report)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
