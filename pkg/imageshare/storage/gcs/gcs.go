// Package gcs writes objects to a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/tendant/imageshare/pkg/imageshare"
)

// DefaultPublicHost serves publicly readable GCS objects
const DefaultPublicHost = "https://storage.googleapis.com"

// Config options for the GCS backend
type Config struct {
	Bucket          string
	CredentialsFile string // optional service account JSON, default credentials otherwise
	Endpoint        string // optional, e.g. a fake-gcs-server emulator
	PublicBaseURL   string // defaults to https://storage.googleapis.com/<bucket>
	// PublicRead applies the publicRead predefined ACL. Leave it off for
	// buckets with uniform bucket-level access.
	PublicRead bool
}

// Backend is a GCS implementation of the imageshare.BlobStore interface
type Backend struct {
	client     *storage.Client
	bucket     string
	publicBase string
	publicRead bool
}

// New creates a GCS client for config.Bucket
func New(ctx context.Context, config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &Backend{
		client:     client,
		bucket:     config.Bucket,
		publicBase: PublicBase(config),
		publicRead: config.PublicRead,
	}, nil
}

// Put streams params.Data into the bucket
func (b *Backend) Put(ctx context.Context, params imageshare.PutParams) (*imageshare.PutResult, error) {
	w := b.client.Bucket(b.bucket).Object(params.ObjectKey).NewWriter(ctx)
	w.ContentType = params.ContentType
	w.CacheControl = params.CacheControl
	if params.Public && b.publicRead {
		w.PredefinedACL = "publicRead"
	}

	if _, err := w.Write(params.Data); err != nil {
		w.Close()
		return nil, fmt.Errorf("write object %q: %w", params.ObjectKey, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize object %q: %w", params.ObjectKey, err)
	}

	return &imageshare.PutResult{
		URL:  b.publicBase + "/" + params.ObjectKey,
		Size: int64(len(params.Data)),
	}, nil
}

// Close releases the underlying client
func (b *Backend) Close() error {
	return b.client.Close()
}

// PublicBase returns the URL prefix objects are served from
func PublicBase(config Config) string {
	if config.PublicBaseURL != "" {
		return strings.TrimRight(config.PublicBaseURL, "/")
	}
	return DefaultPublicHost + "/" + config.Bucket
}
