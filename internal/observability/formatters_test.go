package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/asapstudio/video-workflow/internal/costs"
	"github.com/asapstudio/video-workflow/internal/types"
)

func TestPrintScenePrompts(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScenePrompts([]types.ScenePrompt{
		{Index: 1, Text: "A sunlit bakery storefront with the owner greeting customers"},
		{Index: 2, Text: "Close-up of fresh bread coming out of the oven"},
	})
	output := buf.String()

	assert.Contains(t, output, "Scene Prompts (2)")
	assert.Contains(t, output, "Scene 1:")
	assert.Contains(t, output, "Scene 2:")
	assert.Contains(t, output, "sunlit bakery")
}

func TestPrintScenePrompts_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScenePrompts(nil)

	assert.Empty(t, buf.String())
}

func TestPrintCostEstimate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCostEstimate(costs.EstimateWorkflowCost("a small coffee roastery", 4))
	output := buf.String()

	assert.Contains(t, output, "Cost Estimate")
	assert.Contains(t, output, "Scenes:             4")
	assert.Contains(t, output, "Video generation:   $3.00")
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(&types.RunReport{
		RunID:          "20260825_101500_abcd1234",
		CreatedAt:      time.Now(),
		ElapsedSeconds: 312.4,
		Status:         types.RunStatusStoppedByUser,
		StopReason:     types.StopReasonUserStopped,
		Scenes: []types.SceneOutcome{
			{Index: 1, Status: types.SceneSucceeded, Cost: 0.75},
			{Index: 2, Status: types.SceneFailed, Error: "remote job failed"},
			{Index: 3, Status: types.SceneSkipped},
		},
		Composition: types.CompositionOutcome{
			Status:     types.CompositionSucceeded,
			OutputPath: "/runs/x/merged.mp4",
		},
		TotalCost: 1.5,
		Budget:    3.0,
	})
	output := buf.String()

	assert.Contains(t, output, "Workflow Report")
	assert.Contains(t, output, "stopped_by_user (user_stopped)")
	assert.Contains(t, output, "Scene 1: succeeded ($0.75)")
	assert.Contains(t, output, "Scene 2: failed - remote job failed")
	assert.Contains(t, output, "Scene 3: skipped")
	assert.Contains(t, output, "$1.50 / $3.00 budget")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(nil)

	assert.Empty(t, buf.String())
}
