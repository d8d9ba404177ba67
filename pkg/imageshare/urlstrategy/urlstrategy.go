// Package urlstrategy builds the externally visible URLs of the service: the
// application origin used in viewer links and the public URL of a stored
// object.
package urlstrategy

import (
	"context"
	"errors"
)

var (
	// ErrMissingBlobToken indicates the blob store read/write token is not configured
	ErrMissingBlobToken = errors.New("BLOB_READ_WRITE_TOKEN is not configured")

	// ErrInvalidBlobToken indicates the token does not carry a store id
	ErrInvalidBlobToken = errors.New("BLOB_READ_WRITE_TOKEN has an unexpected format")

	// ErrMissingBaseURL indicates a CDN/public base URL is not configured
	ErrMissingBaseURL = errors.New("public blob base URL is not configured")
)

// URLStrategy defines the interface for public object URL generation
type URLStrategy interface {
	// GenerateBlobURL returns the URL at which objectKey can be fetched.
	// Implementations must fail instead of returning a URL when required
	// configuration is missing.
	GenerateBlobURL(ctx context.Context, objectKey string) (string, error)
}
