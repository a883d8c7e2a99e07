// Package types provides type definitions for structured data used throughout the video-workflow system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// DefaultSceneCount is the number of scene prompts generated per run unless
// the caller asks for a different count.
const DefaultSceneCount = 4

// ScenePrompt is one generated creative brief. Index is 1-based and unique
// within a run. Prompts are created by the prompt stage and read-only after.
type ScenePrompt struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ScenePromptSet is the ordered prompt set produced by the prompt stage,
// persisted as prompts.json in the run directory.
type ScenePromptSet struct {
	BusinessInput string        `json:"business_input,omitempty"`
	Prompts       []ScenePrompt `json:"prompts"`
}

// ValidatePromptSet checks that prompts are non-empty and their indices are
// contiguous 1..N. The input slice is sorted by index in place.
func ValidatePromptSet(prompts []ScenePrompt) error {
	if len(prompts) == 0 {
		return fmt.Errorf("prompt set is empty")
	}

	sort.Slice(prompts, func(i, j int) bool { return prompts[i].Index < prompts[j].Index })

	for i, p := range prompts {
		if p.Index != i+1 {
			return fmt.Errorf("prompt indices are not contiguous: expected %d, got %d", i+1, p.Index)
		}
		if p.Text == "" {
			return fmt.Errorf("prompt %d has empty text", p.Index)
		}
	}
	return nil
}

// PipelineRequest is the externally-supplied input for one pipeline run
type PipelineRequest struct {
	BusinessDescription string  `json:"business_description" validate:"required,min=1"`
	SceneCount          int     `json:"scene_count" validate:"gte=0,lte=12"`
	Budget              float64 `json:"budget" validate:"gte=0"`
}

// Validate checks the request fields and applies the default scene count
func (r *PipelineRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid pipeline request: %w", err)
	}
	if r.SceneCount == 0 {
		r.SceneCount = DefaultSceneCount
	}
	return nil
}
