package brief_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/cutroom/internal/domain/brief"
	"github.com/stretchr/testify/require"
)

func TestHTTPTranscriber_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "p1", body["project_id"])
		require.Equal(t, "http://files/brief.webm", body["audio_url"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"transcript": "make it punchier",
			"language": "en",
			"parsed": {"summary": "punchier", "instructions": [{"instruction": "cut pauses", "priority": "high"}]}
		}`))
	}))
	defer srv.Close()

	tr := brief.NewHTTPTranscriber(srv.URL, "secret", time.Second)
	res, err := tr.Transcribe(context.Background(), "p1", "http://files/brief.webm")
	require.NoError(t, err)
	require.Equal(t, "make it punchier", res.Transcript)
	require.Equal(t, "en", res.Language)
	require.Len(t, res.Parsed.Instructions, 1)
	require.Equal(t, "cut pauses", res.Parsed.Instructions[0].Instruction)
}

func TestHTTPTranscriber_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{"server error", http.StatusBadGateway, `{"success": false, "error": "whisper down"}`, "whisper down"},
		{"empty transcript", http.StatusOK, `{"success": true, "transcript": ""}`, "no transcript"},
		{"bad json", http.StatusOK, `not json`, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tr := brief.NewHTTPTranscriber(srv.URL, "", time.Second)
			_, err := tr.Transcribe(context.Background(), "p1", "http://files/a")
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
