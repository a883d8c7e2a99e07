// Package videogen drives remote video generation jobs: submission, polling,
// artifact download, and the per-scene retry policy around all three.
package videogen

import "context"

// JobHandle is an opaque token identifying a submitted remote job
type JobHandle string

// ArtifactRef is an opaque reference to a generated artifact, resolvable by
// the same service's Fetch.
type ArtifactRef string

// PollStatus is the remote job state reported by one poll
type PollStatus string

// Poll statuses. StillRunning is not an error and never consumes a retry.
const (
	PollStillRunning PollStatus = "still_running"
	PollSucceeded    PollStatus = "succeeded"
	PollFailed       PollStatus = "failed"
)

// PollResult is the outcome of polling a job once
type PollResult struct {
	Status PollStatus
	// Artifact is set only when Status is PollSucceeded
	Artifact ArtifactRef
	// FailureDetail is set only when Status is PollFailed
	FailureDetail string
}

// Service is the remote generation contract. Implementations must be safe to
// call from a single goroutine; the pipeline never submits scenes in
// parallel.
type Service interface {
	// Submit starts a remote job for the prompt. Errors are *SubmissionError.
	Submit(ctx context.Context, prompt string) (JobHandle, error)
	// Poll reads the job's current state. Transport errors are *PollError;
	// a job that itself failed is reported via PollResult, not an error.
	Poll(ctx context.Context, handle JobHandle) (PollResult, error)
	// Fetch downloads the artifact to destPath. Errors are *FetchError.
	Fetch(ctx context.Context, ref ArtifactRef, destPath string) error
}
