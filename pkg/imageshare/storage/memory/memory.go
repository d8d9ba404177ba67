package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tendant/imageshare/pkg/imageshare"
)

type object struct {
	data         []byte
	contentType  string
	cacheControl string
	updatedAt    time.Time
}

// Backend is an in-memory implementation of the imageshare.BlobStore interface
type Backend struct {
	mu        sync.RWMutex
	objects   map[string]object
	urlPrefix string
}

// New creates a new in-memory storage backend. Put reports no URL, leaving
// URL construction to the service's URL strategy.
func New() *Backend {
	return &Backend{objects: make(map[string]object)}
}

// NewWithURLPrefix creates a backend whose Put results carry <prefix>/<key>
func NewWithURLPrefix(prefix string) *Backend {
	b := New()
	b.urlPrefix = prefix
	return b
}

// Put stores a copy of params.Data
func (b *Backend) Put(ctx context.Context, params imageshare.PutParams) (*imageshare.PutResult, error) {
	if params.ObjectKey == "" {
		return nil, errors.New("object key is required")
	}

	data := make([]byte, len(params.Data))
	copy(data, params.Data)

	b.mu.Lock()
	b.objects[params.ObjectKey] = object{
		data:         data,
		contentType:  params.ContentType,
		cacheControl: params.CacheControl,
		updatedAt:    time.Now().UTC(),
	}
	b.mu.Unlock()

	result := &imageshare.PutResult{Size: int64(len(data))}
	if b.urlPrefix != "" {
		result.URL = b.urlPrefix + "/" + params.ObjectKey
	}
	return result, nil
}

// Get returns the stored object
func (b *Backend) Get(ctx context.Context, objectKey string) (*imageshare.Blob, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, imageshare.ErrBlobNotFound
	}

	return &imageshare.Blob{
		Data:         obj.data,
		ContentType:  obj.contentType,
		CacheControl: obj.cacheControl,
		UpdatedAt:    obj.updatedAt,
	}, nil
}

// Len returns the number of stored objects
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
