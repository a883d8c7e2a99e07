package prompting

import "fmt"

// GenerationError is fatal to the run: with no prompts there are no scenes to
// attempt, so the orchestrator reports failure immediately.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("prompt generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("prompt generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
