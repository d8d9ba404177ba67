package imageshare

import (
	"context"
)

// Service is the upload and viewer API of the image host
type Service interface {
	// Validate reports ErrNotConfigured when a collaborator is missing credentials
	Validate() error

	// Upload validates, compresses and stores one image
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// ResolveImage maps a public identifier back to its image and page URLs
	ResolveImage(ctx context.Context, id string) (*Image, error)
}

// Compressor reduces the byte size of an image while keeping its format
type Compressor interface {
	Compress(ctx context.Context, data []byte, contentType string) ([]byte, error)
}

// Validator is implemented by collaborators that need credentials
type Validator interface {
	Validate() error
}

// BlobStore writes objects to public storage
type BlobStore interface {
	Put(ctx context.Context, params PutParams) (*PutResult, error)
}

// BlobReader is implemented by stores that can serve their objects back,
// such as the in-memory and filesystem stores used in development.
type BlobReader interface {
	Get(ctx context.Context, objectKey string) (*Blob, error)
}

// EventSink receives notifications about completed uploads
type EventSink interface {
	ImageUploaded(ctx context.Context, result *UploadResult) error
}
