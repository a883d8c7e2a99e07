// Package types provides type definitions for structured data used throughout the video-workflow system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// SceneStatus is the final outcome of one scene in the report
type SceneStatus string

// Scene outcome values. Skipped scenes were never attempted (stop decision,
// budget exhaustion or cancellation); failed scenes exhausted their retries.
const (
	SceneSucceeded SceneStatus = "succeeded"
	SceneFailed    SceneStatus = "failed"
	SceneSkipped   SceneStatus = "skipped"
)

// CompositionStatus is the outcome of the final composition stage
type CompositionStatus string

// Composition outcome values
const (
	CompositionSucceeded CompositionStatus = "succeeded"
	CompositionSkipped   CompositionStatus = "skipped"
	CompositionFailed    CompositionStatus = "failed"
)

// SceneOutcome records what happened to a single scene
type SceneOutcome struct {
	Index        int         `json:"index"`
	Status       SceneStatus `json:"status"`
	ArtifactPath string      `json:"artifact_path,omitempty"`
	Attempts     int         `json:"attempts,omitempty"`
	Cost         float64     `json:"cost"`
	Error        string      `json:"error,omitempty"`
}

// CompositionOutcome records the result of merging the surviving scenes
type CompositionOutcome struct {
	Status     CompositionStatus `json:"status"`
	OutputPath string            `json:"output_path,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// CostEntry is one recorded charge in the run's cost ledger
type CostEntry struct {
	Scene  int       `json:"scene"`
	Amount float64   `json:"amount"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// RunReport is the final record of a pipeline run. It is created once at
// pipeline end and never mutated. A report is produced for every run,
// including failed and stopped ones.
type RunReport struct {
	RunID          string             `json:"run_id"`
	CreatedAt      time.Time          `json:"created_at"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	Status         RunStatus          `json:"status"`
	StopReason     StopReason         `json:"stop_reason,omitempty"`
	Scenes         []SceneOutcome     `json:"scenes"`
	Composition    CompositionOutcome `json:"composition"`
	TotalCost      float64            `json:"total_cost"`
	Budget         float64            `json:"budget,omitempty"`
	CostEntries    []CostEntry        `json:"cost_entries,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// SucceededScenes returns the outcomes with status succeeded, in index order
func (r *RunReport) SucceededScenes() []SceneOutcome {
	var out []SceneOutcome
	for _, s := range r.Scenes {
		if s.Status == SceneSucceeded {
			out = append(out, s)
		}
	}
	return out
}
