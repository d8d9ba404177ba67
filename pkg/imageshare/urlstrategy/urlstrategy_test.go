package urlstrategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleToken = "vercel_blob_rw_AbC123xyz_9f8e7d6c5b4a"

func TestVercelBlobStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("builds public url from token store id", func(t *testing.T) {
		s := NewVercelBlobStrategy(sampleToken)
		url, err := s.GenerateBlobURL(ctx, "uploads/2025-03-09/cat-1234.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://abc123xyz.public.blob.vercel-storage.com/uploads/2025-03-09/cat-1234.jpg", url)
	})

	t.Run("missing token", func(t *testing.T) {
		s := NewVercelBlobStrategy("  ")
		url, err := s.GenerateBlobURL(ctx, "uploads/x.png")
		assert.ErrorIs(t, err, ErrMissingBlobToken)
		assert.Empty(t, url)
	})

	t.Run("malformed token", func(t *testing.T) {
		for _, token := range []string{"abc", "vercel_blob_rw_", "vercel_blob_rw_store", "vercel_blob_rw__secret"} {
			_, err := NewVercelBlobStrategy(token).GenerateBlobURL(ctx, "uploads/x.png")
			assert.ErrorIs(t, err, ErrInvalidBlobToken, token)
		}
	})
}

func TestCDNStrategy(t *testing.T) {
	ctx := context.Background()

	s := NewCDNStrategy("https://cdn.example.com/")
	url, err := s.GenerateBlobURL(ctx, "uploads/2025-03-09/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/2025-03-09/a.png", url)

	_, err = NewCDNStrategy("").GenerateBlobURL(ctx, "uploads/a.png")
	assert.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestNewURLStrategy(t *testing.T) {
	s, err := NewURLStrategy(Config{Type: StrategyTypeVercelBlob, BlobToken: sampleToken})
	require.NoError(t, err)
	assert.IsType(t, &VercelBlobStrategy{}, s)

	s, err = NewURLStrategy(Config{Type: StrategyTypeCDN, CDNBaseURL: "http://localhost:9000/images"})
	require.NoError(t, err)
	assert.IsType(t, &CDNStrategy{}, s)

	_, err = NewURLStrategy(Config{Type: "presigned"})
	assert.Error(t, err)
}

func TestResolveAppBaseURL(t *testing.T) {
	tests := []struct {
		name       string
		publicURL  string
		deployment string
		want       string
	}{
		{"explicit url wins", "https://example.com", "my-app.vercel.app", "https://example.com"},
		{"explicit url trailing slash", "https://example.com/", "", "https://example.com"},
		{"deployment host", "", "my-app-git-main.vercel.app", "https://my-app-git-main.vercel.app"},
		{"local fallback", "", "", "http://localhost:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAppBaseURL(tt.publicURL, tt.deployment))
		})
	}
}

func TestViewerURL(t *testing.T) {
	assert.Equal(t, "https://example.com/p/dXBsb2Fkcw", ViewerURL("https://example.com/", "dXBsb2Fkcw"))
}
