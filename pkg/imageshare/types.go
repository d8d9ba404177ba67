package imageshare

import (
	"fmt"
	"time"
)

// DefaultCacheMaxAge is the client cache lifetime requested for stored images.
// Stored objects are never rewritten, so they are cached for a year.
const DefaultCacheMaxAge = 365 * 24 * time.Hour

// UploadRequest is a single image submitted for sharing
type UploadRequest struct {
	Data        []byte
	ContentType string
	FileName    string
}

// UploadResult is returned once per successful upload and is not stored
type UploadResult struct {
	ID           string `json:"id"`
	ObjectKey    string `json:"objectKey"`
	URL          string `json:"url"`
	BlobURL      string `json:"blobUrl"`
	Size         int64  `json:"size"`
	OriginalSize int64  `json:"originalSize"`
	ContentType  string `json:"contentType"`
}

// PutParams describes a write to a blob store
type PutParams struct {
	ObjectKey    string
	Data         []byte
	ContentType  string
	CacheControl string
	Public       bool
}

// PutResult is what a blob store reports after a successful write
type PutResult struct {
	URL  string
	Size int64
}

// Blob is an object read back from a store that can serve its own content
type Blob struct {
	Data         []byte
	ContentType  string
	CacheControl string
	UpdatedAt    time.Time
}

// Image is a resolved public identifier
type Image struct {
	ID        string
	ObjectKey string
	ImageURL  string
	PageURL   string
}

// CacheControlFor returns the Cache-Control value for immutable content
// cached for maxAge.
func CacheControlFor(maxAge time.Duration) string {
	return fmt.Sprintf("public, max-age=%d, immutable", int64(maxAge.Seconds()))
}
