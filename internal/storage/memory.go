package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MemoryStore is an in-process ObjectStore for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

type memoryObject struct {
	contentType string
	data        []byte
}

// NewMemoryStore creates an empty store whose URLs start with baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://objects"
	}
	return &MemoryStore{
		objects: make(map[string]memoryObject),
		baseURL: baseURL,
	}
}

func (s *MemoryStore) Upload(ctx context.Context, obj Object) (string, error) {
	if obj.Key == "" {
		return "", fmt.Errorf("object key is required")
	}
	if obj.Body == nil {
		obj.Body = bytes.NewReader(nil)
	}
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read object %s: %w", obj.Key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[obj.Key] = memoryObject{contentType: obj.ContentType, data: data}
	return obj.Key, nil
}

func (s *MemoryStore) URL(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[ref]; !ok {
		return "", ErrObjectNotFound
	}
	return fmt.Sprintf("%s/%s?ttl=%d", s.baseURL, ref, int(ClampTTL(ttl).Seconds())), nil
}

func (s *MemoryStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, ref)
	return nil
}

// Get returns a copy of the stored bytes.
func (s *MemoryStore) Get(ref string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[ref]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
