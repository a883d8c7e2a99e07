package pipeline

import (
	"github.com/asapstudio/video-workflow/internal/types"
	"github.com/asapstudio/video-workflow/internal/videogen"
)

// StageResult is the uniform outcome wrapper for one pipeline stage. Stage
// failures are absorbed into results here rather than propagating as errors:
// only the prompt stage and a zero-survivor asset stage are run-fatal.
type StageResult struct {
	Stage     types.Stage
	Succeeded bool
	Err       error
}

// PromptStageResult is the all-or-nothing output of prompt generation
type PromptStageResult struct {
	StageResult
	Prompts []types.ScenePrompt
	// Cost is the estimated spend of the generation call
	Cost float64
}

// AssetStageResult is the partial-success-meaningful output of the asset
// generation loop. The stage succeeds when at least one scene succeeded,
// regardless of whether the loop exited early.
type AssetStageResult struct {
	StageResult
	// Jobs holds one entry per scene index 1..N, including scenes that were
	// never attempted (their jobs stay pending and are reported skipped).
	Jobs []*videogen.AssetJob
	// StopReason is set when the loop exited before attempting every scene
	StopReason types.StopReason
}

// SucceededPaths returns the artifact paths of succeeded jobs in scene order
func (r *AssetStageResult) SucceededPaths() []string {
	var paths []string
	for _, job := range r.Jobs {
		if job.Status == videogen.JobSucceeded {
			paths = append(paths, job.ArtifactPath)
		}
	}
	return paths
}

// SucceededCount returns the number of succeeded jobs
func (r *AssetStageResult) SucceededCount() int {
	n := 0
	for _, job := range r.Jobs {
		if job.Status == videogen.JobSucceeded {
			n++
		}
	}
	return n
}

// CompositionStageResult is the all-or-nothing output of composition. A
// failed composition never rolls back the asset results it consumed.
type CompositionStageResult struct {
	StageResult
	Outcome types.CompositionOutcome
}
