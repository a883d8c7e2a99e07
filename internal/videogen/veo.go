package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Veo defaults, matching the production workflow
const (
	// DefaultVeoModel is the fast Veo tier used for 8-second clips
	DefaultVeoModel = "veo-3.1-fast-generate-001"
	// DefaultAspectRatio for generated clips
	DefaultAspectRatio = "16:9"
	// defaultVeoBaseURL is the Generative Language API endpoint
	defaultVeoBaseURL = "https://generativelanguage.googleapis.com"
)

// VeoConfig configures a VeoClient. Zero values use the defaults above.
type VeoConfig struct {
	APIKey      string
	Model       string
	AspectRatio string
	// BaseURL overrides the API endpoint (used by tests)
	BaseURL string
	// HTTPClient overrides the default client
	HTTPClient *http.Client
}

// VeoClient implements Service against the Veo long-running video API.
// Submission starts an operation, Poll reads it, Fetch downloads the
// generated file.
type VeoClient struct {
	apiKey      string
	model       string
	aspectRatio string
	baseURL     string
	httpClient  *http.Client
}

// NewVeoClient creates a Veo-backed Service
func NewVeoClient(cfg VeoConfig) (*VeoClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultVeoModel
	}
	if cfg.AspectRatio == "" {
		cfg.AspectRatio = DefaultAspectRatio
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultVeoBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &VeoClient{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		aspectRatio: cfg.AspectRatio,
		baseURL:     cfg.BaseURL,
		httpClient:  cfg.HTTPClient,
	}, nil
}

// submitRequest is the predictLongRunning request body
type submitRequest struct {
	Instances  []submitInstance `json:"instances"`
	Parameters submitParameters `json:"parameters"`
}

type submitInstance struct {
	Prompt string `json:"prompt"`
}

type submitParameters struct {
	AspectRatio string `json:"aspectRatio"`
}

// operationResponse is the long-running operation resource
type operationResponse struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Error    *operationError `json:"error,omitempty"`
	Response *videoResponse  `json:"response,omitempty"`
}

type operationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type videoResponse struct {
	GenerateVideoResponse struct {
		GeneratedSamples []struct {
			Video struct {
				URI string `json:"uri"`
			} `json:"video"`
		} `json:"generatedSamples"`
	} `json:"generateVideoResponse"`
}

// Submit starts a long-running video generation operation
func (c *VeoClient) Submit(ctx context.Context, prompt string) (JobHandle, error) {
	if prompt == "" {
		return "", &SubmissionError{Message: "prompt is empty"}
	}

	body, err := json.Marshal(submitRequest{
		Instances:  []submitInstance{{Prompt: prompt}},
		Parameters: submitParameters{AspectRatio: c.aspectRatio},
	})
	if err != nil {
		return "", &SubmissionError{Message: "failed to encode request", Cause: err}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:predictLongRunning", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &SubmissionError{Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &SubmissionError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &SubmissionError{Message: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, readErrorBody(resp.Body))}
	}

	var op operationResponse
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return "", &SubmissionError{Message: "failed to decode response", Cause: err}
	}
	if op.Name == "" {
		return "", &SubmissionError{Message: "response has no operation name"}
	}

	return JobHandle(op.Name), nil
}

// Poll reads the operation's current state
func (c *VeoClient) Poll(ctx context.Context, handle JobHandle) (PollResult, error) {
	url := fmt.Sprintf("%s/v1beta/%s", c.baseURL, string(handle))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PollResult{}, &PollError{Message: "failed to build request", Cause: err}
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PollResult{}, &PollError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return PollResult{}, &PollError{Message: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, readErrorBody(resp.Body))}
	}

	var op operationResponse
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return PollResult{}, &PollError{Message: "failed to decode response", Cause: err}
	}

	if !op.Done {
		return PollResult{Status: PollStillRunning}, nil
	}
	if op.Error != nil {
		return PollResult{Status: PollFailed, FailureDetail: op.Error.Message}, nil
	}
	if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
		return PollResult{Status: PollFailed, FailureDetail: "operation finished with no generated video"}, nil
	}

	uri := op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI
	if uri == "" {
		return PollResult{Status: PollFailed, FailureDetail: "generated video has no URI"}, nil
	}
	return PollResult{Status: PollSucceeded, Artifact: ArtifactRef(uri)}, nil
}

// Fetch downloads the generated video to destPath
func (c *VeoClient) Fetch(ctx context.Context, ref ArtifactRef, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(ref), nil)
	if err != nil {
		return &FetchError{Message: "failed to build request", Cause: err}
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return &FetchError{Message: "failed to create destination directory", Cause: err}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return &FetchError{Message: "failed to create destination file", Cause: err}
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(destPath)
		return &FetchError{Message: "download interrupted", Cause: err}
	}
	if err := out.Close(); err != nil {
		return &FetchError{Message: "failed to finalize download", Cause: err}
	}
	return nil
}

// readErrorBody reads a truncated error body for diagnostics
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return string(bytes.TrimSpace(data))
}
