package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions configures a MinIO or S3 compatible store.
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL, when set, is used to build unsigned URLs instead of presigning.
	PublicBaseURL string
}

// MinioStore implements ObjectStore on a single bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	public string
}

// NewMinioStore connects to the endpoint and creates the bucket when it is missing.
func NewMinioStore(ctx context.Context, opts MinioOptions, logger *slog.Logger) (*MinioStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", opts.Bucket, err)
		}
		logger.Info("created bucket", "bucket", opts.Bucket)
	}

	return &MinioStore{
		client: client,
		bucket: opts.Bucket,
		public: strings.TrimRight(opts.PublicBaseURL, "/"),
	}, nil
}

// Upload stores obj under its key and returns the key as ref.
func (s *MinioStore) Upload(ctx context.Context, obj Object) (string, error) {
	size := obj.Size
	if size == 0 {
		size = -1
	}
	_, err := s.client.PutObject(ctx, s.bucket, obj.Key, obj.Body, size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", obj.Key, err)
	}
	return obj.Key, nil
}

// URL returns a public URL when configured, otherwise a presigned GET URL.
func (s *MinioStore) URL(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	if s.public != "" {
		return s.public + "/" + s.bucket + "/" + ref, nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, ref, ClampTTL(ttl), url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", ref, err)
	}
	return u.String(), nil
}

// Delete removes the object. Removing a missing object is not an error.
func (s *MinioStore) Delete(ctx context.Context, ref string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", ref, err)
	}
	return nil
}
