package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tendant/imageshare/pkg/imageshare"
	"github.com/tendant/imageshare/pkg/imageshare/compress/local"
	"github.com/tendant/imageshare/pkg/imageshare/compress/tinify"
	fsstorage "github.com/tendant/imageshare/pkg/imageshare/storage/fs"
	gcsstorage "github.com/tendant/imageshare/pkg/imageshare/storage/gcs"
	memorystorage "github.com/tendant/imageshare/pkg/imageshare/storage/memory"
	miniostorage "github.com/tendant/imageshare/pkg/imageshare/storage/minio"
	s3storage "github.com/tendant/imageshare/pkg/imageshare/storage/s3"
	"github.com/tendant/imageshare/pkg/imageshare/storage/vercelblob"
	"github.com/tendant/imageshare/pkg/imageshare/urlstrategy"
)

// BlobsPath is where the server exposes objects of the memory and fs stores
const BlobsPath = "/blobs"

// BuildService creates a Service writing to store
func (c *Config) BuildService(store imageshare.BlobStore, logger *slog.Logger) (imageshare.Service, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	strategy, err := c.BuildURLStrategy()
	if err != nil {
		return nil, fmt.Errorf("failed to build url strategy: %w", err)
	}

	options := []imageshare.Option{
		imageshare.WithCompressor(c.BuildCompressor()),
		imageshare.WithBlobStore(store),
		imageshare.WithURLStrategy(strategy),
		imageshare.WithAppBaseURL(c.AppBaseURL()),
		imageshare.WithCacheMaxAge(time.Duration(c.CacheMaxAge) * time.Second),
		imageshare.WithLogger(logger),
	}

	if c.EnableEventLogging {
		options = append(options, imageshare.WithEventSink(imageshare.NewLoggingEventSink(logger)))
	}

	return imageshare.New(options...)
}

// BuildCompressor creates the configured compressor. The Tinify client is
// built even without a key; the service reports the missing key per request.
func (c *Config) BuildCompressor() imageshare.Compressor {
	switch c.Compressor {
	case CompressorLocal:
		return local.New(local.Config{Quality: c.LocalQuality, MaxWidth: c.LocalMaxWidth})
	case CompressorNone:
		return imageshare.NewPassthroughCompressor()
	default:
		return tinify.New(tinify.Config{APIKey: c.TinifyAPIKey, BaseURL: c.TinifyAPIURL})
	}
}

// BuildBlobStore creates the store selected by STORAGE_URL
func (c *Config) BuildBlobStore(ctx context.Context) (imageshare.BlobStore, error) {
	s := c.Storage
	switch s.Type {
	case StorageVercelBlob:
		return vercelblob.New(vercelblob.Config{Token: c.BlobToken, APIURL: c.VercelBlobAPIURL}), nil

	case StorageMemory:
		return memorystorage.New(), nil

	case StorageFS:
		return fsstorage.New(fsstorage.Config{
			BaseDir:   s.Dir,
			URLPrefix: c.publicBlobBase(),
		})

	case StorageS3:
		return s3storage.New(ctx, c.s3Config())

	case StorageMinIO:
		return miniostorage.New(ctx, c.minioConfig())

	case StorageGCS:
		return gcsstorage.New(ctx, gcsstorage.Config{
			Bucket:          s.Bucket,
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			Endpoint:        s.Endpoint,
			PublicBaseURL:   c.BlobPublicBaseURL,
			PublicRead:      s.PublicRead,
		})

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", s.Type)
	}
}

// BuildURLStrategy creates the strategy the viewer uses to rebuild blob URLs.
// It must agree with the URLs the store reports on upload.
func (c *Config) BuildURLStrategy() (urlstrategy.URLStrategy, error) {
	if c.Storage.Type == StorageVercelBlob {
		return urlstrategy.NewURLStrategy(urlstrategy.Config{
			Type:      urlstrategy.StrategyTypeVercelBlob,
			BlobToken: c.BlobToken,
		})
	}
	return urlstrategy.NewURLStrategy(urlstrategy.Config{
		Type:       urlstrategy.StrategyTypeCDN,
		CDNBaseURL: c.publicBlobBase(),
	})
}

// ServesBlobs reports whether the HTTP server should expose objects under BlobsPath
func (c *Config) ServesBlobs() bool {
	return (c.Storage.Type == StorageMemory || c.Storage.Type == StorageFS) && c.BlobPublicBaseURL == ""
}

func (c *Config) publicBlobBase() string {
	if c.BlobPublicBaseURL != "" {
		return strings.TrimSuffix(c.BlobPublicBaseURL, "/")
	}
	switch c.Storage.Type {
	case StorageS3:
		return strings.TrimSuffix(s3storage.PublicURL(c.s3Config(), ""), "/")
	case StorageMinIO:
		return miniostorage.PublicBase(c.minioConfig())
	case StorageGCS:
		return gcsstorage.PublicBase(gcsstorage.Config{Bucket: c.Storage.Bucket})
	default:
		return c.AppBaseURL() + BlobsPath
	}
}

func (c *Config) s3Config() s3storage.Config {
	region := c.Storage.Region
	if region == "" {
		region = c.AWSRegion
	}
	return s3storage.Config{
		Region:          region,
		Bucket:          c.Storage.Bucket,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
		Endpoint:        c.Storage.Endpoint,
		UsePathStyle:    c.Storage.PathStyle,
		PublicBaseURL:   c.BlobPublicBaseURL,
		PublicRead:      c.Storage.PublicRead,
	}
}

func (c *Config) minioConfig() miniostorage.Config {
	return miniostorage.Config{
		Endpoint:     c.Storage.Endpoint,
		AccessKey:    c.MinioAccessKey,
		SecretKey:    c.MinioSecretKey,
		Bucket:       c.Storage.Bucket,
		UseSSL:       c.Storage.UseSSL,
		PublicBase:   c.BlobPublicBaseURL,
		EnsureBucket: c.Storage.PublicRead,
	}
}
