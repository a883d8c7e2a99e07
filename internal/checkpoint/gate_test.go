package checkpoint

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoGate_AlwaysContinues(t *testing.T) {
	gate := AutoGate{}
	for scene := 1; scene <= 4; scene++ {
		decision, err := gate.Review(context.Background(), ReviewRequest{Scene: scene, TotalScenes: 4})
		require.NoError(t, err)
		assert.Equal(t, DecisionContinue, decision)
	}
}

func TestDecisionFunc(t *testing.T) {
	gate := DecisionFunc(func(req ReviewRequest) Decision {
		if req.Scene == 2 {
			return DecisionStop
		}
		return DecisionContinue
	})

	d, err := gate.Review(context.Background(), ReviewRequest{Scene: 1})
	require.NoError(t, err)
	assert.Equal(t, DecisionContinue, d)

	d, err = gate.Review(context.Background(), ReviewRequest{Scene: 2})
	require.NoError(t, err)
	assert.Equal(t, DecisionStop, d)
}

func consoleReview(t *testing.T, input string, req ReviewRequest) (Decision, string) {
	t.Helper()
	var out bytes.Buffer
	gate := NewConsoleGate(strings.NewReader(input), &out)
	gate.openPreview = func(string) error { return nil }

	decision, err := gate.Review(context.Background(), req)
	require.NoError(t, err)
	return decision, out.String()
}

func TestConsoleGate_Continue(t *testing.T) {
	decision, out := consoleReview(t, "2\n", ReviewRequest{Scene: 1, TotalScenes: 4, Prompt: "a scene"})
	assert.Equal(t, DecisionContinue, decision)
	assert.Contains(t, out, "VIDEO REVIEW - Scene 1/4")
}

func TestConsoleGate_StopNeedsConfirmation(t *testing.T) {
	// First answer declines the stop, second choice stops for real.
	decision, _ := consoleReview(t, "3\nn\n3\ny\n", ReviewRequest{Scene: 2, TotalScenes: 4})
	assert.Equal(t, DecisionStop, decision)
}

func TestConsoleGate_RetryNeedsConfirmation(t *testing.T) {
	decision, out := consoleReview(t, "4\ny\n", ReviewRequest{Scene: 3, TotalScenes: 4})
	assert.Equal(t, DecisionRetry, decision)
	assert.Contains(t, out, "cost stays charged")
}

func TestConsoleGate_PreviewReturnsPreviewAgain(t *testing.T) {
	decision, _ := consoleReview(t, "1\n", ReviewRequest{Scene: 1, TotalScenes: 4, ArtifactPath: "/tmp/x.mp4"})
	assert.Equal(t, DecisionPreview, decision)
}

func TestConsoleGate_FullPromptAndProgressLoop(t *testing.T) {
	req := ReviewRequest{
		Scene:          2,
		TotalScenes:    4,
		Prompt:         "the full scene prompt text",
		CumulativeCost: 1.5,
		Budget:         3.0,
	}
	decision, out := consoleReview(t, "5\n6\n2\n", req)

	assert.Equal(t, DecisionContinue, decision)
	assert.Contains(t, out, "the full scene prompt text")
	assert.Contains(t, out, "Completed: 2/4 scenes")
	assert.Contains(t, out, "Budget: $3.00")
}

func TestConsoleGate_InvalidChoiceReprompts(t *testing.T) {
	decision, out := consoleReview(t, "9\n2\n", ReviewRequest{Scene: 1, TotalScenes: 4})
	assert.Equal(t, DecisionContinue, decision)
	assert.Contains(t, out, "Invalid choice")
}

func TestConsoleGate_ClosedInputStops(t *testing.T) {
	decision, _ := consoleReview(t, "", ReviewRequest{Scene: 1, TotalScenes: 4})
	assert.Equal(t, DecisionStop, decision)
}
