package urlstrategy

import (
	"context"
	"fmt"
	"strings"
)

// CDNStrategy generates URLs that point directly at a public bucket or CDN
// fronting the blob store
type CDNStrategy struct {
	CDNBaseURL string // e.g., "https://cdn.example.com" or "http://localhost:9000/images"
}

// NewCDNStrategy creates a new CDN URL strategy
func NewCDNStrategy(cdnBaseURL string) *CDNStrategy {
	// Ensure cdnBaseURL doesn't have trailing slash
	cdnBaseURL = strings.TrimSuffix(strings.TrimSpace(cdnBaseURL), "/")
	return &CDNStrategy{CDNBaseURL: cdnBaseURL}
}

// GenerateBlobURL creates a direct CDN URL for the object
func (s *CDNStrategy) GenerateBlobURL(ctx context.Context, objectKey string) (string, error) {
	if s.CDNBaseURL == "" {
		return "", ErrMissingBaseURL
	}
	return fmt.Sprintf("%s/%s", s.CDNBaseURL, strings.TrimPrefix(objectKey, "/")), nil
}
