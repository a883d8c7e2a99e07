package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asapstudio/video-workflow/internal/checkpoint"
	"github.com/asapstudio/video-workflow/internal/compose"
	"github.com/asapstudio/video-workflow/internal/config"
	"github.com/asapstudio/video-workflow/internal/costs"
	"github.com/asapstudio/video-workflow/internal/llm"
	"github.com/asapstudio/video-workflow/internal/pipeline"
	"github.com/asapstudio/video-workflow/internal/prompting"
	"github.com/asapstudio/video-workflow/internal/types"
	"github.com/asapstudio/video-workflow/internal/videogen"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full video generation workflow end-to-end",
	Long: `Orchestrates the entire workflow: prompt generation -> per-scene video generation with review checkpoints -> merge -> report.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runWorkflowCmd,
}

var (
	runConfigPath  string
	runBusiness    string
	runScenes      int
	runBudget      float64
	runOutput      string
	runTransition  string
	runAPIKey      string
	runVeoModel    string
	runAutoApprove bool
	runVerbose     bool
	runDatabaseURL string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runBusiness, "business", "b", "", "Business description to generate the video for")
	runCommand.Flags().IntVarP(&runScenes, "scenes", "s", 0, "Number of scenes to generate (default 4)")
	runCommand.Flags().Float64Var(&runBudget, "budget", 0, "Budget ceiling in USD (0 = unlimited)")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", "", "Output root directory (default \"output\")")
	runCommand.Flags().StringVar(&runTransition, "transition", "", "Merge transition: crossfade, fade_black or simple")
	runCommand.Flags().StringVar(&runVeoModel, "veo-model", "", "Video generation model name")
	runCommand.Flags().BoolVar(&runAutoApprove, "auto-approve", false, "Skip interactive review checkpoints")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for run/spending persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

// loadRunConfig merges the optional config file, explicitly-set flags and
// defaults into one resolved Config. Flags win over the file; defaults fill
// the rest.
func loadRunConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
		if runVerbose {
			fmt.Printf("Loaded config from: %s\n", runConfigPath)
		}
	}

	// Apply CLI overrides only for flags that were explicitly set
	if cmd.Flags().Changed("business") {
		cfg.Business = runBusiness
	}
	if cmd.Flags().Changed("scenes") {
		cfg.Scenes = runScenes
	}
	if cmd.Flags().Changed("budget") {
		cfg.Budget = runBudget
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = runOutput
	}
	if cmd.Flags().Changed("transition") {
		cfg.Transition = runTransition
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("veo-model") {
		cfg.VeoModel = runVeoModel
	}
	if cmd.Flags().Changed("auto-approve") {
		cfg.AutoApprove = runAutoApprove
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		Scenes:     types.DefaultSceneCount,
		Output:     "output",
		Transition: string(compose.TransitionCrossfade),
		VeoModel:   videogen.DefaultVeoModel,
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	if cfg.Business == "" {
		return cfg, fmt.Errorf("--business is required (via flag or config)")
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

func runWorkflowCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	llmClient, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = llmClient.Close() }()

	veo, err := videogen.NewVeoClient(videogen.VeoConfig{
		APIKey: cfg.APIKey,
		Model:  cfg.VeoModel,
	})
	if err != nil {
		return fmt.Errorf("failed to create video client: %w", err)
	}

	var gate checkpoint.Gate
	if cfg.AutoApprove {
		gate = checkpoint.AutoGate{}
	} else {
		gate = checkpoint.NewConsoleGate(os.Stdin, os.Stdout)
	}

	opts := pipeline.RunOptions{
		Request: types.PipelineRequest{
			BusinessDescription: cfg.Business,
			SceneCount:          cfg.Scenes,
			Budget:              cfg.Budget,
		},
		OutputRoot:  cfg.Output,
		DatabaseURL: cfg.DatabaseURL,
		Verbose:     cfg.Verbose,
		Prompts:     prompting.NewGenerator(llmClient),
		Assets:      veo,
		Composer:    compose.NewFFmpegComposer(),
		Gate:        gate,
		Runner:      videogen.DefaultRunnerConfig(),
		Transition:  compose.Transition(cfg.Transition),
		CostPolicy:  costs.DefaultPolicy(),
	}

	_, err = pipeline.RunPipeline(ctx, opts)
	return err
}
