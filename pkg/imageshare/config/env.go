package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// WithEnv loads dotenv files (".env" when none are given; missing files are
// ignored) and then applies the process environment.
//
// Environment variable mapping:
//
// Server:
//
//	PORT - Server port (default: "3000")
//	ENVIRONMENT - Runtime environment (default: "development")
//
// Compression:
//
//	COMPRESSOR - "tinify" (default), "local" or "none"
//	TINIFY_API_KEY - Tinify API key, required for the tinify compressor
//	LOCAL_JPEG_QUALITY, LOCAL_MAX_WIDTH - local compressor tuning
//
// Storage:
//
//	STORAGE_URL - Storage connection string (one of):
//	              - "vercel-blob://" - Vercel Blob, needs BLOB_READ_WRITE_TOKEN (default)
//	              - "memory://" - In-memory storage
//	              - "file:///path/to/data" - Filesystem storage
//	              - "s3://bucket?region=us-east-1&endpoint=http://localhost:9000&path_style=true"
//	              - "minio://localhost:9000/bucket?ssl=false"
//	              - "gs://bucket"
//	BLOB_PUBLIC_BASE_URL - Public URL prefix for non-Vercel stores
//
// Public URLs:
//
//	NEXT_PUBLIC_APP_URL - Explicit application origin
//	VERCEL_URL - Deployment host, used over https when no explicit origin is set
func WithEnv(files ...string) Option {
	return func(c *Config) error {
		if len(files) == 0 {
			files = []string{".env"}
		}
		for _, file := range files {
			if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load %s: %w", file, err)
			}
		}

		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		storage, err := ParseStorageURL(c.StorageURL)
		if err != nil {
			return err
		}
		if storage.Type == StorageS3 && storage.Region == "" {
			storage.Region = c.AWSRegion
		}
		c.Storage = storage
		return nil
	}
}

// ParseStorageURL parses a STORAGE_URL value
func ParseStorageURL(raw string) (StorageConfig, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", StorageVercelBlob, StorageVercelBlob + "://":
		return StorageConfig{Type: StorageVercelBlob}, nil
	case StorageMemory, StorageMemory + "://":
		return StorageConfig{Type: StorageMemory}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return StorageConfig{}, fmt.Errorf("invalid STORAGE_URL %q: %w", raw, err)
	}
	query := u.Query()

	switch u.Scheme {
	case "file":
		// Format: file:///path/to/data or file://./relative
		dir := u.Host + u.Path
		if dir == "" {
			return StorageConfig{}, errors.New("filesystem path cannot be empty in STORAGE_URL")
		}
		return StorageConfig{Type: StorageFS, Dir: dir}, nil

	case "s3":
		// Format: s3://bucket?region=us-east-1&endpoint=http://localhost:9000
		if u.Host == "" {
			return StorageConfig{}, errors.New("S3 bucket name cannot be empty in STORAGE_URL")
		}
		pathStyle, err := parseBoolParam(query, "path_style")
		if err != nil {
			return StorageConfig{}, err
		}
		publicRead, err := parseBoolParam(query, "public_read")
		if err != nil {
			return StorageConfig{}, err
		}
		return StorageConfig{
			Type:       StorageS3,
			Bucket:     u.Host,
			Region:     query.Get("region"),
			Endpoint:   query.Get("endpoint"),
			PathStyle:  pathStyle,
			PublicRead: publicRead,
		}, nil

	case "minio":
		// Format: minio://host:port/bucket?ssl=true
		bucket := strings.Trim(u.Path, "/")
		if u.Host == "" || bucket == "" {
			return StorageConfig{}, errors.New("minio STORAGE_URL must look like minio://host:port/bucket")
		}
		useSSL, err := parseBoolParam(query, "ssl")
		if err != nil {
			return StorageConfig{}, err
		}
		return StorageConfig{
			Type:       StorageMinIO,
			Endpoint:   u.Host,
			Bucket:     bucket,
			UseSSL:     useSSL,
			PublicRead: true,
		}, nil

	case "gs":
		// Format: gs://bucket?endpoint=http://localhost:4443/storage/v1/
		if u.Host == "" {
			return StorageConfig{}, errors.New("GCS bucket name cannot be empty in STORAGE_URL")
		}
		publicRead, err := parseBoolParam(query, "public_read")
		if err != nil {
			return StorageConfig{}, err
		}
		return StorageConfig{
			Type:       StorageGCS,
			Bucket:     u.Host,
			Endpoint:   query.Get("endpoint"),
			PublicRead: publicRead,
		}, nil
	}

	return StorageConfig{}, fmt.Errorf("unsupported STORAGE_URL format: %s (use 'vercel-blob://', 'memory://', 'file://...', 's3://...', 'minio://...' or 'gs://...')", raw)
}

func parseBoolParam(query url.Values, key string) (bool, error) {
	raw := query.Get(key)
	if raw == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for STORAGE_URL parameter %s: %w", key, err)
	}
	return parsed, nil
}
