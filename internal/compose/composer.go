// Package compose merges the surviving scene clips into one video with
// transitions. It tolerates gaps: the caller passes only the clips that
// exist, in their original scene order.
package compose

import (
	"context"
	"fmt"
)

// Transition selects the blend applied between consecutive clips
type Transition string

// Supported transitions
const (
	TransitionCrossfade Transition = "crossfade"
	TransitionFadeBlack Transition = "fade_black"
	TransitionSimple    Transition = "simple"
)

// DefaultTransitionDuration is the crossfade length in seconds
const DefaultTransitionDuration = 0.3

// Options configures one composition
type Options struct {
	OutputPath         string
	Transition         Transition
	TransitionDuration float64
}

// Service merges an ordered list of local clips into one artifact. The input
// order is preserved; missing scenes are simply absent from the list.
type Service interface {
	Compose(ctx context.Context, inputs []string, opts Options) (string, error)
}

// CompositionError is fatal to the composition stage only; it never rolls
// back the asset results it was fed.
type CompositionError struct {
	Message string
	Cause   error
}

func (e *CompositionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("composition failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("composition failed: %s", e.Message)
}

func (e *CompositionError) Unwrap() error { return e.Cause }
