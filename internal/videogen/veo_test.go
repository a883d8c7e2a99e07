package videogen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVeoClient(t *testing.T, handler http.Handler) (*VeoClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewVeoClient(VeoConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return client, server
}

func TestVeoClient_SubmitPollFetch(t *testing.T) {
	var polls atomic.Int32
	var server *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1beta/models/veo-3.1-fast-generate-001:predictLongRunning", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Instances, 1)
		assert.Equal(t, "a cinematic scene", body.Instances[0].Prompt)
		assert.Equal(t, "16:9", body.Parameters.AspectRatio)

		_ = json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-123"})
	})
	mux.HandleFunc("GET /v1beta/operations/op-123", func(w http.ResponseWriter, _ *http.Request) {
		if polls.Add(1) < 2 {
			_ = json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-123", "done": false})
			return
		}
		fmt.Fprintf(w, `{"name":"operations/op-123","done":true,"response":{"generateVideoResponse":{"generatedSamples":[{"video":{"uri":"%s/files/video-1"}}]}}}`, server.URL)
	})
	mux.HandleFunc("GET /files/video-1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mp4-bytes"))
	})

	client, srv := newTestVeoClient(t, mux)
	server = srv
	ctx := context.Background()

	handle, err := client.Submit(ctx, "a cinematic scene")
	require.NoError(t, err)
	assert.Equal(t, JobHandle("operations/op-123"), handle)

	result, err := client.Poll(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, PollStillRunning, result.Status)

	result, err = client.Poll(ctx, handle)
	require.NoError(t, err)
	require.Equal(t, PollSucceeded, result.Status)
	assert.NotEmpty(t, result.Artifact)

	dest := filepath.Join(t.TempDir(), "scene_1.mp4")
	require.NoError(t, client.Fetch(ctx, result.Artifact, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "mp4-bytes", string(data))
}

func TestVeoClient_SubmitRejected(t *testing.T) {
	client, _ := newTestVeoClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"invalid argument"}}`, http.StatusBadRequest)
	}))

	_, err := client.Submit(context.Background(), "prompt")
	require.Error(t, err)

	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.Contains(t, err.Error(), "400")
}

func TestVeoClient_SubmitEmptyPrompt(t *testing.T) {
	client, _ := newTestVeoClient(t, http.NewServeMux())

	_, err := client.Submit(context.Background(), "")
	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))
}

func TestVeoClient_PollReportsRemoteFailure(t *testing.T) {
	client, _ := newTestVeoClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":  "operations/op-1",
			"done":  true,
			"error": map[string]any{"code": 3, "message": "prompt blocked by safety policy"},
		})
	}))

	result, err := client.Poll(context.Background(), "operations/op-1")
	require.NoError(t, err)
	assert.Equal(t, PollFailed, result.Status)
	assert.Contains(t, result.FailureDetail, "safety policy")
}

func TestVeoClient_PollEmptyResponseIsFailure(t *testing.T) {
	client, _ := newTestVeoClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-1", "done": true})
	}))

	result, err := client.Poll(context.Background(), "operations/op-1")
	require.NoError(t, err)
	assert.Equal(t, PollFailed, result.Status)
}

func TestVeoClient_FetchHTTPError(t *testing.T) {
	client, server := newTestVeoClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))

	err := client.Fetch(context.Background(), ArtifactRef(server.URL+"/files/missing"), filepath.Join(t.TempDir(), "out.mp4"))
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}

func TestNewVeoClient_RequiresAPIKey(t *testing.T) {
	_, err := NewVeoClient(VeoConfig{})
	require.Error(t, err)
}
