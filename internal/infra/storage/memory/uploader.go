package memory

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Uploader keeps uploaded objects in memory and hands back fake public
// URLs. Used by tests and by local runs without an S3 endpoint.
type Uploader struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewUploader() *Uploader {
	return &Uploader{objects: make(map[string][]byte)}
}

func (u *Uploader) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	u.objects[key] = data
	u.mu.Unlock()
	return fmt.Sprintf("memory://uploads/%s", key), nil
}

// Object returns the stored payload for assertions in tests.
func (u *Uploader) Object(key string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	data, ok := u.objects[key]
	return data, ok
}
