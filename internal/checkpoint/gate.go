// Package checkpoint implements the human-in-the-loop decision point after
// each generated scene. The gate is an injectable decision source so the
// pipeline is testable without a human present.
package checkpoint

import "context"

// Decision is the outcome of one review
type Decision string

// Review decisions. Stop ends the asset-generation loop; it does not
// invalidate already-succeeded scenes. Retry re-runs the current scene from
// pending; its already-recorded cost stays charged. Preview re-presents the
// artifact without any state change.
const (
	DecisionContinue Decision = "continue"
	DecisionStop     Decision = "stop"
	DecisionRetry    Decision = "retry_current"
	DecisionPreview  Decision = "preview_again"
)

// ReviewRequest carries everything a reviewer needs to judge a scene
type ReviewRequest struct {
	Scene          int
	TotalScenes    int
	ArtifactPath   string
	Prompt         string
	CumulativeCost float64
	Budget         float64
}

// Gate produces a decision for a completed scene. When enabled, Review is a
// blocking suspension point with no timeout: an unattended run must not
// silently abort, so a missing decision is an operator problem, not a
// pipeline fault.
type Gate interface {
	Review(ctx context.Context, req ReviewRequest) (Decision, error)
}

// AutoGate is the disabled-gate mode: every review returns continue
// immediately with no suspension. Scene-level outcomes under AutoGate are
// identical to an enabled gate that always answers continue.
type AutoGate struct{}

// Review always returns DecisionContinue
func (AutoGate) Review(context.Context, ReviewRequest) (Decision, error) {
	return DecisionContinue, nil
}

// DecisionFunc adapts a function to the Gate interface, used for scripted
// decision sequences in tests.
type DecisionFunc func(req ReviewRequest) Decision

// Review invokes the function
func (f DecisionFunc) Review(_ context.Context, req ReviewRequest) (Decision, error) {
	return f(req), nil
}
