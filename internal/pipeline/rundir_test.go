package pipeline

import (
	"encoding/json"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asapstudio/video-workflow/internal/types"
)

func TestNewRunID(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 15, 0, 0, time.UTC)
	id := NewRunID(now)

	assert.Regexp(t, regexp.MustCompile(`^20260825_101500_[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, NewRunID(now), "same-second runs must get distinct ids")
}

func TestRunDir_Paths(t *testing.T) {
	root := t.TempDir()
	dir, err := CreateRunDir(root, "20260825_101500_abcd1234")
	require.NoError(t, err)

	assert.DirExists(t, dir.Path)
	assert.Contains(t, dir.ScenePath(3), "scene_3.mp4")
	assert.Contains(t, dir.PromptsPath(), "prompts.json")
	assert.Contains(t, dir.MergedPath(), "merged.mp4")
	assert.Contains(t, dir.ReportPath(), "report.json")
}

func TestRunDir_WritePromptsAndReport(t *testing.T) {
	dir, err := CreateRunDir(t.TempDir(), "test_run")
	require.NoError(t, err)

	set := types.ScenePromptSet{
		BusinessInput: "a neighborhood bike shop",
		Prompts: []types.ScenePrompt{
			{Index: 1, Text: "opening shot of the storefront"},
			{Index: 2, Text: "mechanic truing a wheel"},
		},
	}
	require.NoError(t, dir.WritePrompts(set))

	data, err := os.ReadFile(dir.PromptsPath())
	require.NoError(t, err)
	var loaded types.ScenePromptSet
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, set, loaded)

	report := &types.RunReport{
		RunID:  "test_run",
		Status: types.RunStatusCompleted,
		Scenes: []types.SceneOutcome{{Index: 1, Status: types.SceneSucceeded, Cost: 0.75}},
	}
	require.NoError(t, dir.WriteReport(report))

	data, err = os.ReadFile(dir.ReportPath())
	require.NoError(t, err)
	var loadedReport types.RunReport
	require.NoError(t, json.Unmarshal(data, &loadedReport))
	assert.Equal(t, types.RunStatusCompleted, loadedReport.Status)
	require.Len(t, loadedReport.Scenes, 1)
}
