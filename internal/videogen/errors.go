package videogen

import "fmt"

// SubmissionError means the remote service rejected or failed a job
// submission. Retryable within the generation retry budget.
type SubmissionError struct {
	Message string
	Cause   error
}

func (e *SubmissionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("submission failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("submission failed: %s", e.Message)
}

func (e *SubmissionError) Unwrap() error { return e.Cause }

// PollError means the status of a submitted job could not be read. This is a
// transport problem, distinct from the remote job itself reporting failure.
type PollError struct {
	Message string
	Cause   error
}

func (e *PollError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("poll failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("poll failed: %s", e.Message)
}

func (e *PollError) Unwrap() error { return e.Cause }

// FetchError means a generated artifact could not be downloaded. This is a
// local-infrastructure failure, not a generation failure, and is retried
// independently of the generation retry budget.
type FetchError struct {
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch failed: %s", e.Message)
}

func (e *FetchError) Unwrap() error { return e.Cause }
