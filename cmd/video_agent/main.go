// Package main provides the entry point for the AI video workflow CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "video_agent",
	Short: "AI video generation workflow",
	Long:  "video_agent turns a business description into a short promotional video: Gemini generates interconnected scene prompts, Veo renders one clip per scene with an optional review checkpoint after each, and ffmpeg merges the surviving clips.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
