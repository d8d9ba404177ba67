package urlstrategy

import (
	"fmt"
)

// URLStrategyType represents the type of URL strategy
type URLStrategyType string

const (
	// Vercel Blob public store URLs derived from the read/write token
	StrategyTypeVercelBlob URLStrategyType = "vercel-blob"

	// CDN strategy for public buckets and anything served from a fixed base URL
	StrategyTypeCDN URLStrategyType = "cdn"
)

// Config holds configuration for URL strategy creation
type Config struct {
	Type       URLStrategyType
	BlobToken  string // For Vercel Blob strategy
	CDNBaseURL string // For CDN strategy
}

// NewURLStrategy creates a URL strategy based on the configuration.
// Missing credentials are not rejected here: the returned strategy reports
// them each time a URL is requested.
func NewURLStrategy(config Config) (URLStrategy, error) {
	switch config.Type {
	case StrategyTypeVercelBlob:
		return NewVercelBlobStrategy(config.BlobToken), nil
	case StrategyTypeCDN:
		return NewCDNStrategy(config.CDNBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown URL strategy type: %s", config.Type)
	}
}
