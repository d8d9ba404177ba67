package urlstrategy

import (
	"context"
	"fmt"
	"strings"
)

const (
	vercelTokenPrefix = "vercel_blob_rw_"
	vercelPublicHost  = "public.blob.vercel-storage.com"
)

// VercelBlobStrategy derives public URLs for a Vercel Blob store from its
// read/write token, which embeds the store id:
// vercel_blob_rw_<storeId>_<secret>.
type VercelBlobStrategy struct {
	Token string
}

// NewVercelBlobStrategy creates a strategy bound to token
func NewVercelBlobStrategy(token string) *VercelBlobStrategy {
	return &VercelBlobStrategy{Token: strings.TrimSpace(token)}
}

// StoreID extracts the store id from the configured token
func (s *VercelBlobStrategy) StoreID() (string, error) {
	if s.Token == "" {
		return "", ErrMissingBlobToken
	}
	rest, ok := strings.CutPrefix(s.Token, vercelTokenPrefix)
	if !ok {
		return "", ErrInvalidBlobToken
	}
	storeID, secret, ok := strings.Cut(rest, "_")
	if !ok || storeID == "" || secret == "" {
		return "", ErrInvalidBlobToken
	}
	return strings.ToLower(storeID), nil
}

// GenerateBlobURL returns https://<storeId>.public.blob.vercel-storage.com/<objectKey>
func (s *VercelBlobStrategy) GenerateBlobURL(ctx context.Context, objectKey string) (string, error) {
	storeID, err := s.StoreID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.%s/%s", storeID, vercelPublicHost, strings.TrimPrefix(objectKey, "/")), nil
}
