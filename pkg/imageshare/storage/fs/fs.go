package fs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tendant/imageshare/pkg/imageshare"
	"github.com/tendant/imageshare/pkg/imageshare/objectkey"
)

// Backend is a filesystem implementation of the imageshare.BlobStore interface
type Backend struct {
	mu        sync.RWMutex
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // Optional URL prefix, e.g. http://localhost:3000/blobs
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	// Validate and create base directory if it doesn't exist
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: strings.TrimSuffix(config.URLPrefix, "/"),
	}, nil
}

func (b *Backend) path(objectKey string) (string, error) {
	if !objectkey.Valid(objectKey) {
		return "", fmt.Errorf("invalid object key %q", objectKey)
	}
	return filepath.Join(b.baseDir, filepath.FromSlash(objectKey)), nil
}

// Put writes params.Data to <baseDir>/<objectKey>
func (b *Backend) Put(ctx context.Context, params imageshare.PutParams) (*imageshare.PutResult, error) {
	filePath, err := b.path(params.ObjectKey)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Create directory structure if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, params.Data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	result := &imageshare.PutResult{Size: int64(len(params.Data))}
	if b.urlPrefix != "" {
		result.URL = fmt.Sprintf("%s/%s", b.urlPrefix, params.ObjectKey)
	}
	return result, nil
}

// Get reads an object back. The content type is detected from the bytes.
func (b *Backend) Get(ctx context.Context, objectKey string) (*imageshare.Blob, error) {
	filePath, err := b.path(objectKey)
	if err != nil {
		return nil, imageshare.ErrBlobNotFound
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, imageshare.ErrBlobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &imageshare.Blob{
		Data:        data,
		ContentType: http.DetectContentType(data),
		UpdatedAt:   info.ModTime(),
	}, nil
}
