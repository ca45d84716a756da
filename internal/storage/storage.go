package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound indicates the referenced object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// MaxURLTTL is the longest lifetime a signed URL may have.
const MaxURLTTL = 7 * 24 * time.Hour

// Object describes a payload to upload.
type Object struct {
	Key         string
	ContentType string
	Size        int64 // -1 when unknown
	Body        io.Reader
}

// ObjectStore holds binary files for versions and voice briefs.
// Upload returns the ref later passed to URL and Delete.
type ObjectStore interface {
	Upload(ctx context.Context, obj Object) (string, error)
	URL(ctx context.Context, ref string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, ref string) error
}

// ClampTTL bounds ttl to (0, MaxURLTTL], defaulting to an hour.
func ClampTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Hour
	}
	if ttl > MaxURLTTL {
		return MaxURLTTL
	}
	return ttl
}
