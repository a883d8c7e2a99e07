// Package pipeline provides the high-level orchestration for the video
// generation workflow: prompt generation, the sequential per-scene asset
// loop with review checkpoints, composition, and the final run report.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/asapstudio/video-workflow/internal/checkpoint"
	"github.com/asapstudio/video-workflow/internal/compose"
	"github.com/asapstudio/video-workflow/internal/costs"
	"github.com/asapstudio/video-workflow/internal/db"
	"github.com/asapstudio/video-workflow/internal/observability"
	"github.com/asapstudio/video-workflow/internal/types"
	"github.com/asapstudio/video-workflow/internal/videogen"
)

// PromptService produces the ordered scene prompt set for a business
// description. Failures are all-or-nothing and fatal to the run.
type PromptService interface {
	Generate(ctx context.Context, businessDescription string, sceneCount int) ([]types.ScenePrompt, error)
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Scene    int    `json:"scene,omitempty"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Request     types.PipelineRequest
	OutputRoot  string
	DatabaseURL string
	Verbose     bool

	// Collaborators. Prompts, Assets and Composer are required; a nil Gate
	// means reviews are disabled and every checkpoint continues.
	Prompts  PromptService
	Assets   videogen.Service
	Composer compose.Service
	Gate     checkpoint.Gate

	Runner     videogen.RunnerConfig
	Transition compose.Transition
	CostPolicy costs.Policy

	OnProgress ProgressCallback
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, category string, scene int, message, runID string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Scene:    scene,
			Message:  message,
			RunID:    runID,
		})
	}
}

// RunPipeline orchestrates one full workflow run. A report is produced for
// every run that gets past request validation, including failed and stopped
// ones; the returned error is non-nil only when the run status is failed.
func RunPipeline(ctx context.Context, opts RunOptions) (*types.RunReport, error) {
	if err := opts.Request.Validate(); err != nil {
		return nil, err
	}
	if opts.Prompts == nil || opts.Assets == nil || opts.Composer == nil {
		return nil, fmt.Errorf("pipeline collaborators are not configured")
	}
	if opts.Gate == nil {
		opts.Gate = checkpoint.AutoGate{}
	}

	start := time.Now()
	runDir, err := CreateRunDir(opts.OutputRoot, NewRunID(start))
	if err != nil {
		return nil, err
	}

	printer := observability.NewPrinter(os.Stdout)
	ledger := costs.NewLedger(opts.Request.Budget)

	run := &types.Run{
		ID:        runDir.ID,
		CreatedAt: start,
		Budget:    opts.Request.Budget,
		Stage:     types.StageInit,
		Status:    types.RunStatusRunning,
		Dir:       runDir.Path,
	}

	// Initialize database connection if configured
	var database *db.DB
	var dbRunID uuid.UUID
	if opts.DatabaseURL != "" {
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
			database = nil
		} else {
			defer database.Close()
			dbRunID, err = database.CreateRun(ctx, run.ID, opts.Request.BusinessDescription,
				opts.Request.SceneCount, opts.Request.Budget)
			if err != nil {
				fmt.Printf("Warning: Failed to create database run: %v\n", err)
				database = nil
			}
		}
	}

	// Stage 1: prompt generation. All-or-nothing; failure here is run-fatal
	// since no scenes exist to attempt.
	run.Stage = types.StagePromptGeneration
	fmt.Printf("Step 1/3: Generating %d scene prompts...\n", opts.Request.SceneCount)

	promptResult := runPromptStage(ctx, &opts, ledger)
	if !promptResult.Succeeded {
		report := buildReport(run, start, &AssetStageResult{}, types.CompositionOutcome{Status: types.CompositionSkipped},
			ledger, types.RunStatusFailed, types.StopReasonNone, promptResult.Err)
		finishRun(ctx, runDir, database, dbRunID, report)
		return report, fmt.Errorf("prompt generation failed: %w", promptResult.Err)
	}

	if opts.Verbose {
		printer.PrintScenePrompts(promptResult.Prompts)
	}
	emitProgress(&opts, db.StepScenePrompts, db.CategoryPrompting, 0,
		fmt.Sprintf("Generated %d scene prompts", len(promptResult.Prompts)), run.ID)

	promptSet := types.ScenePromptSet{
		BusinessInput: opts.Request.BusinessDescription,
		Prompts:       promptResult.Prompts,
	}
	if err := runDir.WritePrompts(promptSet); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}
	if database != nil {
		_ = database.SaveArtifact(ctx, dbRunID, db.StepScenePrompts, db.CategoryPrompting, promptSet)
	}

	// Stage 2: sequential asset generation with checkpoints
	run.Stage = types.StageAssetGeneration
	assetResult := runAssetStage(ctx, &opts, runDir, ledger, database, dbRunID, run.ID, promptResult.Prompts)

	// Stage 3: composition over the succeeded subsequence, in scene order.
	// Skipped entirely when nothing survived.
	run.Stage = types.StageComposition
	var composition types.CompositionOutcome
	if assetResult.SucceededCount() == 0 {
		composition = types.CompositionOutcome{Status: types.CompositionSkipped}
	} else {
		composition = runCompositionStage(ctx, &opts, runDir, assetResult)
		if database != nil && composition.Status == types.CompositionSucceeded {
			_ = database.SaveArtifact(ctx, dbRunID, db.StepMergedVideo, db.CategoryComposition, composition)
		}
	}

	// Reporting: derive the terminal status and persist the report
	run.Stage = types.StageReporting
	status, runErr := deriveStatus(assetResult, composition)

	report := buildReport(run, start, assetResult, composition, ledger, status, assetResult.StopReason, runErr)
	finishRun(ctx, runDir, database, dbRunID, report)

	if opts.Verbose {
		printer.PrintReport(report)
	}
	fmt.Printf("Done. Run %s finished with status %s ($%.2f spent). Report: %s\n",
		run.ID, report.Status, report.TotalCost, runDir.ReportPath())

	if runErr != nil {
		return report, runErr
	}
	return report, nil
}

// runPromptStage calls the prompt service and charges the generation cost.
// The charge is keyed to scene 0 since it is not attributable to any scene.
func runPromptStage(ctx context.Context, opts *RunOptions, ledger *costs.Ledger) *PromptStageResult {
	result := &PromptStageResult{StageResult: StageResult{Stage: types.StagePromptGeneration}}

	prompts, err := opts.Prompts.Generate(ctx, opts.Request.BusinessDescription, opts.Request.SceneCount)
	if err != nil {
		result.Err = err
		return result
	}

	var output string
	for _, p := range prompts {
		output += p.Text
	}
	result.Cost = costs.EstimatePromptCost(opts.Request.BusinessDescription, output)
	ledger.Charge(0, result.Cost, "prompt generation")

	result.Succeeded = true
	result.Prompts = prompts
	return result
}

// runAssetStage drives one AssetJob per scene, strictly sequentially, and
// invokes the checkpoint gate after each succeeded job. The loop exits early
// on a stop decision, budget exhaustion or cancellation; scenes never
// attempted stay pending and are reported skipped.
func runAssetStage(ctx context.Context, opts *RunOptions, runDir *RunDir, ledger *costs.Ledger,
	database *db.DB, dbRunID uuid.UUID, runID string, prompts []types.ScenePrompt) *AssetStageResult {

	result := &AssetStageResult{StageResult: StageResult{Stage: types.StageAssetGeneration}}
	for _, p := range prompts {
		result.Jobs = append(result.Jobs, videogen.NewAssetJob(p))
	}

	runner := videogen.NewRunner(opts.Assets, opts.Runner)
	total := len(result.Jobs)

loop:
	for idx := 0; idx < total; {
		job := result.Jobs[idx]

		if ctx.Err() != nil {
			break
		}

		// Budget exhaustion is an implicit stop, checked before committing
		// to the next scene's spend.
		if ledger.WouldExceed(costs.VeoCostPerVideo) {
			result.StopReason = types.StopReasonBudgetExhausted
			fmt.Printf("Budget ceiling reached ($%.2f of $%.2f): stopping before scene %d\n",
				ledger.Total(), ledger.Budget(), job.Scene)
			break
		}

		fmt.Printf("Step 2/3: Generating video for scene %d/%d (attempt budget %d)...\n",
			job.Scene, total, 1+opts.Runner.GenerationRetries)

		runErr := runner.Run(ctx, job, runDir.ScenePath(job.Scene))

		switch job.Status {
		case videogen.JobCanceled:
			break loop

		case videogen.JobFailed:
			if opts.CostPolicy.ChargeFailed {
				ledger.Charge(job.Scene, costs.VeoCostPerVideo, "video generation (failed)")
				persistLastCharge(ctx, database, dbRunID, ledger)
			}
			fmt.Printf("Scene %d failed after %d attempt(s): %v. Continuing with remaining scenes.\n",
				job.Scene, job.Attempts, runErr)
			emitProgress(opts, db.StepSceneClip, db.CategoryGeneration, job.Scene,
				fmt.Sprintf("Scene %d failed: %v", job.Scene, runErr), runID)
			idx++

		case videogen.JobSucceeded:
			ledger.Charge(job.Scene, costs.VeoCostPerVideo, "video generation")
			persistLastCharge(ctx, database, dbRunID, ledger)
			if database != nil {
				_ = database.SaveSceneArtifact(ctx, dbRunID, job.Scene, job.ArtifactPath)
			}
			emitProgress(opts, db.StepSceneClip, db.CategoryGeneration, job.Scene,
				fmt.Sprintf("Scene %d generated", job.Scene), runID)

			decision := reviewScene(ctx, opts, ledger, job, total)
			switch decision {
			case checkpoint.DecisionStop:
				result.StopReason = types.StopReasonUserStopped
				break loop
			case checkpoint.DecisionRetry:
				// The clip is discarded but its recorded cost stays charged.
				job.Reset()
			default:
				idx++
			}
		}
	}

	result.Succeeded = result.SucceededCount() > 0
	if !result.Succeeded {
		result.Err = fmt.Errorf("no scenes were generated successfully")
	}
	return result
}

// reviewScene runs the checkpoint gate for a completed scene, re-presenting
// on preview decisions until a control-flow decision is made. A gate error
// (closed input, canceled context) is treated as a stop so completed work is
// kept.
func reviewScene(ctx context.Context, opts *RunOptions, ledger *costs.Ledger, job *videogen.AssetJob, total int) checkpoint.Decision {
	req := checkpoint.ReviewRequest{
		Scene:          job.Scene,
		TotalScenes:    total,
		ArtifactPath:   job.ArtifactPath,
		Prompt:         job.Prompt.Text,
		CumulativeCost: ledger.Total(),
		Budget:         ledger.Budget(),
	}

	for {
		decision, err := opts.Gate.Review(ctx, req)
		if err != nil {
			fmt.Printf("Warning: review aborted (%v); stopping after scene %d\n", err, job.Scene)
			return checkpoint.DecisionStop
		}
		if decision == checkpoint.DecisionPreview {
			continue
		}
		return decision
	}
}

// runCompositionStage merges the succeeded clips. A composition failure is
// recorded in the outcome; it never rolls back the asset results.
func runCompositionStage(ctx context.Context, opts *RunOptions, runDir *RunDir, assets *AssetStageResult) types.CompositionOutcome {
	inputs := assets.SucceededPaths()
	fmt.Printf("Step 3/3: Merging %d scene clip(s)...\n", len(inputs))

	output, err := opts.Composer.Compose(ctx, inputs, compose.Options{
		OutputPath: runDir.MergedPath(),
		Transition: opts.Transition,
	})
	if err != nil {
		fmt.Printf("Warning: composition failed: %v\n", err)
		return types.CompositionOutcome{Status: types.CompositionFailed, Error: err.Error()}
	}
	return types.CompositionOutcome{Status: types.CompositionSucceeded, OutputPath: output}
}

// deriveStatus maps the asset and composition outcomes to the terminal run
// status. Composition failure is a run failure even when scenes succeeded; a
// stop with at least one surviving scene and a successful merge is
// stopped_by_user, not completed.
func deriveStatus(assets *AssetStageResult, composition types.CompositionOutcome) (types.RunStatus, error) {
	if assets.SucceededCount() == 0 {
		return types.RunStatusFailed, fmt.Errorf("asset generation failed: %w", assets.Err)
	}
	if composition.Status == types.CompositionFailed {
		return types.RunStatusFailed, fmt.Errorf("composition failed: %s", composition.Error)
	}
	if assets.StopReason != types.StopReasonNone {
		return types.RunStatusStoppedByUser, nil
	}
	return types.RunStatusCompleted, nil
}

// buildReport assembles the immutable final report from the run's pieces
func buildReport(run *types.Run, start time.Time, assets *AssetStageResult,
	composition types.CompositionOutcome, ledger *costs.Ledger, status types.RunStatus,
	stopReason types.StopReason, runErr error) *types.RunReport {

	report := &types.RunReport{
		RunID:          run.ID,
		CreatedAt:      run.CreatedAt,
		ElapsedSeconds: time.Since(start).Seconds(),
		Status:         status,
		StopReason:     stopReason,
		Composition:    composition,
		TotalCost:      ledger.Total(),
		Budget:         ledger.Budget(),
		CostEntries:    ledger.Entries(),
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}

	for _, job := range assets.Jobs {
		outcome := types.SceneOutcome{
			Index:    job.Scene,
			Attempts: job.Attempts,
			Cost:     ledger.SceneCost(job.Scene),
		}
		switch job.Status {
		case videogen.JobSucceeded:
			outcome.Status = types.SceneSucceeded
			outcome.ArtifactPath = job.ArtifactPath
		case videogen.JobFailed:
			outcome.Status = types.SceneFailed
			if job.LastErr != nil {
				outcome.Error = job.LastErr.Error()
			}
		default:
			// Pending, canceled or mid-flight jobs were never completed;
			// they are skipped, never failed.
			outcome.Status = types.SceneSkipped
			if job.Status == videogen.JobCanceled {
				outcome.Error = "canceled"
			}
		}
		report.Scenes = append(report.Scenes, outcome)
	}

	run.Status = status
	return report
}

// finishRun persists the report to the run directory and, when connected,
// the database. Persistence failures are warnings only.
func finishRun(ctx context.Context, runDir *RunDir, database *db.DB, dbRunID uuid.UUID, report *types.RunReport) {
	if err := runDir.WriteReport(report); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}
	if database != nil && dbRunID != uuid.Nil {
		_ = database.SaveArtifact(ctx, dbRunID, db.StepRunReport, db.CategoryReporting, report)
		_ = database.CompleteRun(ctx, dbRunID, report.Status, report.TotalCost)
	}
}

// persistLastCharge mirrors the most recent ledger entry to the spending log
func persistLastCharge(ctx context.Context, database *db.DB, dbRunID uuid.UUID, ledger *costs.Ledger) {
	if database == nil || dbRunID == uuid.Nil {
		return
	}
	entries := ledger.Entries()
	if len(entries) == 0 {
		return
	}
	_ = database.SaveSpendingEntry(ctx, dbRunID, entries[len(entries)-1])
}
