package costs

// Published (approximate) pricing for the services this workflow calls.
// Video generation dominates: one clip costs roughly as much as hundreds of
// prompt-generation calls.
const (
	// GeminiFlashInputPerMTokens is USD per 1M input tokens (Gemini 2.0 Flash)
	GeminiFlashInputPerMTokens = 0.075
	// GeminiFlashOutputPerMTokens is USD per 1M output tokens
	GeminiFlashOutputPerMTokens = 0.30
	// VeoCostPerVideo is the estimated USD cost of one 8-second clip
	VeoCostPerVideo = 0.75
	// StorageFlatCost is a flat estimate for storage operations per run
	StorageFlatCost = 0.05
)

// charsPerToken is the rough token estimate used for English text
const charsPerToken = 4

// EstimateTokens estimates the token count of a text
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// EstimatePromptCost estimates the Gemini cost of one prompt-generation call.
// When the generated output is not yet known, pass an empty string and the
// output is assumed to be 4x the input length.
func EstimatePromptCost(input, output string) float64 {
	inputTokens := float64(EstimateTokens(input))

	var outputTokens float64
	if output != "" {
		outputTokens = float64(EstimateTokens(output))
	} else {
		outputTokens = inputTokens * 4
	}

	inputCost := inputTokens / 1_000_000 * GeminiFlashInputPerMTokens
	outputCost := outputTokens / 1_000_000 * GeminiFlashOutputPerMTokens
	return inputCost + outputCost
}

// EstimateVideoCost estimates the Veo cost of generating n clips
func EstimateVideoCost(n int) float64 {
	return float64(n) * VeoCostPerVideo
}

// WorkflowEstimate is a pre-run cost breakdown for a complete workflow
type WorkflowEstimate struct {
	PromptGeneration float64 `json:"prompt_generation"`
	VideoGeneration  float64 `json:"video_generation"`
	Storage          float64 `json:"storage"`
	Total            float64 `json:"total"`
	SceneCount       int     `json:"scene_count"`
}

// EstimateWorkflowCost estimates the total cost of running the workflow for
// the given business description and scene count.
func EstimateWorkflowCost(input string, sceneCount int) WorkflowEstimate {
	est := WorkflowEstimate{
		PromptGeneration: EstimatePromptCost(input, ""),
		VideoGeneration:  EstimateVideoCost(sceneCount),
		Storage:          StorageFlatCost,
		SceneCount:       sceneCount,
	}
	est.Total = est.PromptGeneration + est.VideoGeneration + est.Storage
	return est
}
