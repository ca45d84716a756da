package brief

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPTranscriber calls a transcription endpoint that accepts
// {"project_id", "audio_url"} and answers with a Result.
type HTTPTranscriber struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPTranscriber creates a transcriber for endpoint. apiKey is sent as a bearer token when set.
func NewHTTPTranscriber(endpoint, apiKey string, timeout time.Duration) *HTTPTranscriber {
	if timeout <= 0 {
		timeout = defaultTranscriptionTimeout
	}
	return &HTTPTranscriber{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type transcribeRequest struct {
	ProjectID string `json:"project_id"`
	AudioURL  string `json:"audio_url"`
}

type transcribeResponse struct {
	Result
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, projectID, audioURL string) (*Result, error) {
	body, err := json.Marshal(transcribeRequest{ProjectID: projectID, AudioURL: audioURL})
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read transcription response: %w", err)
	}

	var out transcribeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode transcription response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return nil, fmt.Errorf("transcription failed with status %d: %s", resp.StatusCode, out.Error)
		}
		return nil, fmt.Errorf("transcription failed with status %d", resp.StatusCode)
	}
	if out.Transcript == "" {
		return nil, fmt.Errorf("transcription response has no transcript")
	}
	return &out.Result, nil
}
