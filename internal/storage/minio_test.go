package storage

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinioStore_PublicURL(t *testing.T) {
	s := &MinioStore{bucket: "project-files", public: "https://cdn.example.com"}

	u, err := s.URL(context.Background(), "projects/p1/raw/a.mp4", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/project-files/projects/p1/raw/a.mp4", u)
}

func TestNewMinioStore_RequiresBucket(t *testing.T) {
	_, err := NewMinioStore(context.Background(), MinioOptions{Endpoint: "localhost:9000"}, nil)
	require.Error(t, err)
}

// Runs against a real server when CUTROOM_TEST_MINIO_ENDPOINT is set.
func TestMinioStore_RoundTrip(t *testing.T) {
	endpoint := os.Getenv("CUTROOM_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("CUTROOM_TEST_MINIO_ENDPOINT not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewMinioStore(ctx, MinioOptions{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("CUTROOM_TEST_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("CUTROOM_TEST_MINIO_SECRET_KEY"),
		Bucket:    "cutroom-test",
	}, nil)
	require.NoError(t, err)

	data := []byte("frames")
	ref, err := s.Upload(ctx, Object{
		Key:         "projects/p1/raw/test.mp4",
		ContentType: "video/mp4",
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	require.NoError(t, err)

	u, err := s.URL(ctx, ref, time.Minute)
	require.NoError(t, err)
	resp, err := http.Get(u)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Delete(ctx, ref))
}
