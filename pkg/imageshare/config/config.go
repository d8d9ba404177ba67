package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tendant/imageshare/pkg/imageshare/urlstrategy"
)

// Storage backend types selected by STORAGE_URL
const (
	StorageVercelBlob = "vercel-blob"
	StorageMemory     = "memory"
	StorageFS         = "fs"
	StorageS3         = "s3"
	StorageMinIO      = "minio"
	StorageGCS        = "gcs"
)

// Compressor types selected by COMPRESSOR
const (
	CompressorTinify = "tinify"
	CompressorLocal  = "local"
	CompressorNone   = "none"
)

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Load constructs a Config by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		Port:               "3000",
		Environment:        "development",
		StorageURL:         StorageVercelBlob + "://",
		Storage:            StorageConfig{Type: StorageVercelBlob},
		Compressor:         CompressorTinify,
		LocalQuality:       80,
		CacheMaxAge:        31536000,
		AWSRegion:          "us-east-1",
		EnableEventLogging: true,
	}
}

// Config is the process-wide configuration. It is built once at startup and
// passed to the components that need it.
type Config struct {
	Port        string `env:"PORT" env-default:"3000"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Compression
	Compressor    string `env:"COMPRESSOR" env-default:"tinify"` // tinify, local, none
	TinifyAPIKey  string `env:"TINIFY_API_KEY"`
	TinifyAPIURL  string `env:"TINIFY_API_URL"`
	LocalQuality  int    `env:"LOCAL_JPEG_QUALITY" env-default:"80"`
	LocalMaxWidth uint   `env:"LOCAL_MAX_WIDTH"`

	// Public URLs
	PublicAppURL   string `env:"NEXT_PUBLIC_APP_URL"`
	DeploymentHost string `env:"VERCEL_URL"`

	// Storage
	StorageURL        string `env:"STORAGE_URL" env-default:"vercel-blob://"`
	Storage           StorageConfig
	BlobToken         string `env:"BLOB_READ_WRITE_TOKEN"`
	VercelBlobAPIURL  string `env:"VERCEL_BLOB_API_URL"`
	BlobPublicBaseURL string `env:"BLOB_PUBLIC_BASE_URL"`

	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `env:"AWS_REGION" env-default:"us-east-1"`
	MinioAccessKey     string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey     string `env:"MINIO_SECRET_KEY"`

	// Upload handling
	CacheMaxAge        int64 `env:"CACHE_MAX_AGE" env-default:"31536000"` // seconds
	MaxUploadBytes     int64 `env:"MAX_UPLOAD_BYTES"`                     // 0 = unlimited
	EnableEventLogging bool  `env:"EVENT_LOGGING" env-default:"true"`
}

// StorageConfig is the parsed form of STORAGE_URL
type StorageConfig struct {
	Type       string
	Bucket     string
	Dir        string
	Endpoint   string
	Region     string
	PathStyle  bool
	UseSSL     bool
	PublicRead bool
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.Compressor {
	case CompressorTinify, CompressorLocal, CompressorNone:
	default:
		return fmt.Errorf("compressor must be 'tinify', 'local' or 'none', got: %s", c.Compressor)
	}

	if c.LocalQuality < 1 || c.LocalQuality > 100 {
		return fmt.Errorf("local jpeg quality must be between 1 and 100, got: %d", c.LocalQuality)
	}
	if c.CacheMaxAge < 0 {
		return errors.New("cache max age cannot be negative")
	}
	if c.MaxUploadBytes < 0 {
		return errors.New("max upload bytes cannot be negative")
	}

	switch c.Storage.Type {
	case StorageVercelBlob, StorageMemory:
	case StorageFS:
		if c.Storage.Dir == "" {
			return errors.New("filesystem storage requires a directory")
		}
	case StorageS3, StorageMinIO, StorageGCS:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("%s storage requires a bucket", c.Storage.Type)
		}
		if c.Storage.Type == StorageMinIO && c.Storage.Endpoint == "" {
			return errors.New("minio storage requires an endpoint")
		}
	default:
		return fmt.Errorf("unsupported storage type: %q", c.Storage.Type)
	}

	return nil
}

// AppBaseURL resolves the origin viewer links are built on
func (c *Config) AppBaseURL() string {
	return urlstrategy.ResolveAppBaseURL(c.PublicAppURL, c.DeploymentHost)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// String renders the configuration with secrets masked
func (c *Config) String() string {
	return fmt.Sprintf(
		"port=%s env=%s compressor=%s tinify_key=%s storage=%s blob_token=%s app_url=%s public_blob_base=%s aws_key=%s minio_key=%s cache_max_age=%d max_upload_bytes=%d",
		c.Port, c.Environment, c.Compressor, mask(c.TinifyAPIKey), c.StorageURL, mask(c.BlobToken),
		c.AppBaseURL(), c.BlobPublicBaseURL, mask(c.AWSAccessKeyID), mask(c.MinioAccessKey),
		c.CacheMaxAge, c.MaxUploadBytes,
	)
}

func mask(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
