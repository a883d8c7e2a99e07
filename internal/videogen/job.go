package videogen

import (
	"context"
	"fmt"
	"time"

	"github.com/asapstudio/video-workflow/internal/types"
)

// JobStatus is the lifecycle state of one AssetJob
type JobStatus string

// Job lifecycle states. succeeded, failed and canceled are terminal.
const (
	JobPending   JobStatus = "pending"
	JobSubmitted JobStatus = "submitted"
	JobPolling   JobStatus = "polling"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
	JobCanceled  JobStatus = "canceled"
)

// AssetJob represents one unit of remote work: generating the clip for a
// single scene. It is owned by the runner invocation that drives it; once
// succeeded, its artifact path is handed read-only to the orchestrator.
type AssetJob struct {
	Scene        int
	Prompt       types.ScenePrompt
	Handle       JobHandle
	Status       JobStatus
	ArtifactPath string
	Attempts     int
	LastErr      error
}

// NewAssetJob creates a pending job for a scene
func NewAssetJob(prompt types.ScenePrompt) *AssetJob {
	return &AssetJob{
		Scene:  prompt.Index,
		Prompt: prompt,
		Status: JobPending,
	}
}

// Terminal reports whether the job reached a terminal state
func (j *AssetJob) Terminal() bool {
	return j.Status == JobSucceeded || j.Status == JobFailed || j.Status == JobCanceled
}

// Reset returns the job to pending for a retry decision. The previous
// artifact reference is discarded; any cost already recorded for it stays
// charged.
func (j *AssetJob) Reset() {
	j.Handle = ""
	j.Status = JobPending
	j.ArtifactPath = ""
	j.Attempts = 0
	j.LastErr = nil
}

// RunnerConfig holds the retry and polling policy for asset jobs
type RunnerConfig struct {
	// PollInterval is the fixed wait between status polls
	PollInterval time.Duration
	// GenerationRetries is the number of automatic resubmissions after a
	// submission error or terminal remote failure
	GenerationRetries int
	// FetchAttempts is the total number of download attempts after the
	// remote job succeeds, independent of the generation retry budget
	FetchAttempts int
	// FetchBackoff is the base delay between download attempts, doubled
	// after each failure
	FetchBackoff time.Duration
}

// DefaultRunnerConfig mirrors the production policy: 20s polls, one
// automatic generation retry, three download attempts.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		PollInterval:      20 * time.Second,
		GenerationRetries: 1,
		FetchAttempts:     3,
		FetchBackoff:      2 * time.Second,
	}
}

// Runner drives an AssetJob to a terminal state against a Service.
//
// Cancellation is checked between poll intervals, never mid-transfer. A
// cancellation mid-poll leaves the remote job running: remote cancellation is
// best-effort only and the abandoned operation is a known resource leak risk.
type Runner struct {
	svc Service
	cfg RunnerConfig
}

// NewRunner creates a Runner with the given service and config
func NewRunner(svc Service, cfg RunnerConfig) *Runner {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultRunnerConfig().PollInterval
	}
	if cfg.FetchAttempts <= 0 {
		cfg.FetchAttempts = 1
	}
	return &Runner{svc: svc, cfg: cfg}
}

// Run drives job to a terminal state, downloading the artifact to destPath
// on success. The returned error is the job's final failure (also recorded
// in job.LastErr); a failed job is not an orchestrator-fatal condition.
func (r *Runner) Run(ctx context.Context, job *AssetJob, destPath string) error {
	maxAttempts := 1 + r.cfg.GenerationRetries

	for job.Attempts < maxAttempts {
		job.Attempts++

		err := r.runOnce(ctx, job, destPath)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			job.Status = JobCanceled
			job.LastErr = ctx.Err()
			return ctx.Err()
		}

		job.LastErr = err

		// Fetch failures have their own retry budget inside runOnce; once
		// exhausted the generation is not re-attempted, since the remote
		// job itself succeeded.
		if _, isFetch := err.(*FetchError); isFetch {
			break
		}
	}

	job.Status = JobFailed
	return job.LastErr
}

// runOnce performs one submit/poll/fetch cycle
func (r *Runner) runOnce(ctx context.Context, job *AssetJob, destPath string) error {
	handle, err := r.svc.Submit(ctx, job.Prompt.Text)
	if err != nil {
		return err
	}
	job.Handle = handle
	job.Status = JobSubmitted

	artifact, err := r.pollUntilDone(ctx, job)
	if err != nil {
		return err
	}

	if err := r.fetchWithRetry(ctx, artifact, destPath); err != nil {
		return err
	}

	job.Status = JobSucceeded
	job.ArtifactPath = destPath
	job.LastErr = nil
	return nil
}

// pollUntilDone polls at the fixed interval until the remote job reaches a
// terminal state. There is no wall-clock bound beyond the remote service's
// own timeout; a still_running response never consumes a retry.
func (r *Runner) pollUntilDone(ctx context.Context, job *AssetJob) (ArtifactRef, error) {
	job.Status = JobPolling

	for {
		result, err := r.svc.Poll(ctx, job.Handle)
		if err != nil {
			return "", err
		}

		switch result.Status {
		case PollSucceeded:
			return result.Artifact, nil
		case PollFailed:
			return "", &PollError{Message: fmt.Sprintf("remote job failed: %s", result.FailureDetail)}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.cfg.PollInterval):
		}
	}
}

// fetchWithRetry downloads the artifact with bounded retries and doubling
// backoff, independent of the generation retry budget.
func (r *Runner) fetchWithRetry(ctx context.Context, ref ArtifactRef, destPath string) error {
	var lastErr error
	backoff := r.cfg.FetchBackoff

	for attempt := 1; attempt <= r.cfg.FetchAttempts; attempt++ {
		lastErr = r.svc.Fetch(ctx, ref, destPath)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt < r.cfg.FetchAttempts && backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	if _, ok := lastErr.(*FetchError); ok {
		return lastErr
	}
	return &FetchError{Message: "download failed", Cause: lastErr}
}
