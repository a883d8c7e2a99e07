//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReport_SucceededScenes(t *testing.T) {
	report := RunReport{
		Scenes: []SceneOutcome{
			{Index: 1, Status: SceneSucceeded, ArtifactPath: "scene_1.mp4"},
			{Index: 2, Status: SceneFailed, Error: "generation failed"},
			{Index: 3, Status: SceneSucceeded, ArtifactPath: "scene_3.mp4"},
			{Index: 4, Status: SceneSkipped},
		},
	}

	got := report.SucceededScenes()
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 3, got[1].Index)
}

func TestRunReport_JSONShape(t *testing.T) {
	report := RunReport{
		RunID:          "20250101_120000_ab12cd34",
		CreatedAt:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		ElapsedSeconds: 42.5,
		Status:         RunStatusStoppedByUser,
		StopReason:     StopReasonUserStopped,
		Scenes: []SceneOutcome{
			{Index: 1, Status: SceneSucceeded, ArtifactPath: "scene_1.mp4", Cost: 0.75},
			{Index: 2, Status: SceneSkipped},
		},
		Composition: CompositionOutcome{Status: CompositionSucceeded, OutputPath: "merged.mp4"},
		TotalCost:   0.75,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status": "stopped_by_user"`)
	assert.Contains(t, string(data), `"stop_reason": "user_stopped"`)
	assert.Contains(t, string(data), `"artifact_path": "scene_1.mp4"`)

	var decoded RunReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Status, decoded.Status)
	assert.Len(t, decoded.Scenes, 2)
}

func TestRun_Terminal(t *testing.T) {
	run := Run{Status: RunStatusRunning}
	assert.False(t, run.Terminal())

	for _, s := range []RunStatus{RunStatusCompleted, RunStatusStoppedByUser, RunStatusFailed} {
		run.Status = s
		assert.True(t, run.Terminal(), string(s))
	}
}
