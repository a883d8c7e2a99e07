// Package prompting turns a business description into an ordered set of
// interconnected video scene prompts using LLM structured output.
package prompting

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/asapstudio/video-workflow/internal/llm"
	"github.com/asapstudio/video-workflow/internal/schemas"
	"github.com/asapstudio/video-workflow/internal/types"
	rootschemas "github.com/asapstudio/video-workflow/schemas"
)

// Generator produces scene prompts from a business description
type Generator struct {
	client llm.Client
}

// NewGenerator creates a Generator backed by the given LLM client
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate produces sceneCount ordered scene prompts for the business
// description. It is all-or-nothing: any LLM, schema or index failure returns
// a *GenerationError and no prompts.
func (g *Generator) Generate(ctx context.Context, businessDescription string, sceneCount int) ([]types.ScenePrompt, error) {
	if businessDescription == "" {
		return nil, &GenerationError{Message: "business description is empty"}
	}
	if sceneCount < 1 {
		return nil, &GenerationError{Message: fmt.Sprintf("scene count must be at least 1, got %d", sceneCount)}
	}

	prompt := buildScenePromptRequest(businessDescription, sceneCount)

	responseText, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{Message: "LLM call failed", Cause: err}
	}

	prompts, err := parsePromptSet([]byte(responseText), sceneCount)
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

// GeneratePrompts is a convenience wrapper that constructs a default Gemini
// client, generates the prompt set, and closes the client.
func GeneratePrompts(ctx context.Context, businessDescription string, sceneCount int, apiKey string) ([]types.ScenePrompt, error) {
	if apiKey == "" {
		return nil, &GenerationError{Message: "API key is required"}
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, &GenerationError{Message: "failed to create LLM client", Cause: err}
	}
	defer func() { _ = client.Close() }()

	return NewGenerator(client).Generate(ctx, businessDescription, sceneCount)
}

// parsePromptSet validates the raw LLM output against the scene-prompt schema
// and decodes it into ordered ScenePrompts.
func parsePromptSet(raw []byte, sceneCount int) ([]types.ScenePrompt, error) {
	if err := schemas.ValidateBytes(rootschemas.ScenePrompts, raw); err != nil {
		return nil, &GenerationError{Message: "LLM output does not match prompt schema", Cause: err}
	}

	var set types.ScenePromptSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, &GenerationError{Message: "failed to parse LLM output", Cause: err}
	}

	if len(set.Prompts) != sceneCount {
		return nil, &GenerationError{
			Message: fmt.Sprintf("expected %d prompts, got %d", sceneCount, len(set.Prompts)),
		}
	}

	if err := types.ValidatePromptSet(set.Prompts); err != nil {
		return nil, &GenerationError{Message: "invalid prompt set", Cause: err}
	}
	return set.Prompts, nil
}

// buildScenePromptRequest constructs the generation prompt. The scene
// guidelines come from the production prompt used for Veo clips: scenes must
// be interconnected yet self-contained, since the video model is stateless.
func buildScenePromptRequest(businessDescription string, sceneCount int) string {
	return fmt.Sprintf(`You are an expert video production assistant specializing in creating detailed, professional video scene prompts for AI video generation.

USER INPUT/COMPANY DESCRIPTION:
%s

Your Task: Analyze the user's company/business information and script, then intelligently create %d DIFFERENT but INTERCONNECTED video scene prompts that together form a single, cohesive video narrative for this specific business, niche, or creative context.

Instructions:
1. Read and understand the company type, industry, niche, and user's script/message.
2. Use your expertise to determine what %d different scenes would be most effective and logical for this specific case.
3. For each scene, provide a 1-2 sentence summary of the previous scene(s) and the overall video goal, so that each prompt is self-contained and contextually aware even if processed independently.
4. Do NOT use scene numbers inside the prompt text or refer to "scene 2" or "scene 3". Instead, use natural language transitions and narrative summaries.
5. The scenes should be interconnected, with transitions or references that link them together.
6. Do NOT use a fixed template for the scenes. Let the content, order, and focus of each scene be determined by the user's input and the needs of the business or creative project.
7. Maintain a consistent visual and narrative style across all prompts.
8. Make scenes industry-appropriate, contextually relevant, and tailored to the specific business or creative context.

For each prompt, include:
- A brief natural-language summary of the narrative so far (1-2 sentences).
- Detailed setting/environment description.
- Professional presenter/character details (appearance, clothing, demeanor).
- Specific lighting setup and visual style.
- Camera movements and angles.
- Natural integration of the user's script/message.
- Duration: 8 seconds per scene.
- Photorealistic with natural micro-movements (gentle hand gestures, slight head tilts).
- Professional, modern, visually appealing aesthetic.
- Steady camera with light cinematic push-in movement.
- Continuous, natural shots without fast motion.
- No background music or fade-ins.

Return ONLY a JSON object with this exact shape:
{"prompts": [{"index": 1, "text": "<full scene prompt>"}, ..., {"index": %d, "text": "<full scene prompt>"}]}

Indices must be contiguous from 1 to %d. Each prompt must be self-contained and provide enough context for a stateless model to generate a coherent scene.`,
		businessDescription, sceneCount, sceneCount, sceneCount, sceneCount)
}
