package imageshare

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotConfigured indicates a required credential is missing
	ErrNotConfigured = errors.New("service is not configured")

	// ErrMissingFile indicates the request carried no file
	ErrMissingFile = errors.New("no file was uploaded")

	// ErrEmptyFile indicates the uploaded file has no content
	ErrEmptyFile = errors.New("uploaded file is empty")

	// ErrUnsupportedType indicates the content type is not on the allow-list
	ErrUnsupportedType = errors.New("unsupported file type, use JPEG, PNG or WEBP")

	// ErrImageNotFound indicates a public identifier does not resolve to an image
	ErrImageNotFound = errors.New("image not found")

	// ErrBlobNotFound indicates a store has no object under the key
	ErrBlobNotFound = errors.New("blob not found")
)

// UploadError represents a downstream failure while processing an upload
type UploadError struct {
	Op  string // compress, store, url
	Key string
	Err error
}

func (e *UploadError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("upload %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("upload %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
