package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asapstudio/video-workflow/internal/observability"
	"github.com/asapstudio/video-workflow/internal/prompting"
	"github.com/asapstudio/video-workflow/internal/types"
)

var promptsCommand = &cobra.Command{
	Use:   "prompts",
	Short: "Generate scene prompts only, without rendering any video",
	RunE:  runPromptsCmd,
}

var (
	promptsBusiness string
	promptsScenes   int
	promptsAPIKey   string
	promptsOut      string
)

func init() {
	promptsCommand.Flags().StringVarP(&promptsBusiness, "business", "b", "", "Business description to generate prompts for")
	promptsCommand.Flags().IntVarP(&promptsScenes, "scenes", "s", types.DefaultSceneCount, "Number of scenes to generate")
	promptsCommand.Flags().StringVar(&promptsAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	promptsCommand.Flags().StringVarP(&promptsOut, "out", "o", "", "Write the prompt set to this JSON file instead of stdout only")

	_ = promptsCommand.MarkFlagRequired("business")

	rootCmd.AddCommand(promptsCommand)
}

func runPromptsCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey := promptsAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	fmt.Printf("Generating %d scene prompts...\n", promptsScenes)
	prompts, err := prompting.GeneratePrompts(ctx, promptsBusiness, promptsScenes, apiKey)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintScenePrompts(prompts)

	if promptsOut != "" {
		set := types.ScenePromptSet{BusinessInput: promptsBusiness, Prompts: prompts}
		data, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal prompt set: %w", err)
		}
		if err := os.WriteFile(promptsOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write prompt set: %w", err)
		}
		fmt.Printf("Prompt set written to %s\n", promptsOut)
	}
	return nil
}
