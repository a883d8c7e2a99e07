// Package types provides type definitions for structured data used throughout the video-workflow system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// RunStatus represents the terminal (or current) status of a pipeline run
type RunStatus string

// Run status values
const (
	RunStatusRunning       RunStatus = "running"
	RunStatusCompleted     RunStatus = "completed"
	RunStatusStoppedByUser RunStatus = "stopped_by_user"
	RunStatusFailed        RunStatus = "failed"
)

// Stage identifies a phase of the pipeline state machine
type Stage string

// Pipeline stages, in execution order
const (
	StageInit             Stage = "init"
	StagePromptGeneration Stage = "prompt_generation"
	StageAssetGeneration  Stage = "asset_generation"
	StageComposition      Stage = "composition"
	StageReporting        Stage = "reporting"
)

// StopReason records why the asset-generation loop ended early, if it did
type StopReason string

// Stop reasons. Empty means the loop ran all scenes to completion.
const (
	StopReasonNone            StopReason = ""
	StopReasonUserStopped     StopReason = "user_stopped"
	StopReasonBudgetExhausted StopReason = "budget_exhausted"
)

// Run identifies one pipeline execution. It is created by the orchestrator at
// pipeline start, mutated only by the orchestrator, and immutable once the
// status is terminal.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Budget    float64   `json:"budget"`
	Stage     Stage     `json:"stage"`
	Status    RunStatus `json:"status"`
	Dir       string    `json:"dir,omitempty"`
}

// Terminal reports whether the run has reached a terminal status
func (r *Run) Terminal() bool {
	return r.Status == RunStatusCompleted ||
		r.Status == RunStatusStoppedByUser ||
		r.Status == RunStatusFailed
}
