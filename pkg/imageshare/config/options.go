package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *Config) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *Config) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithStorageURL selects the blob store from a STORAGE_URL style string
func WithStorageURL(raw string) Option {
	return func(c *Config) error {
		storage, err := ParseStorageURL(raw)
		if err != nil {
			return err
		}
		if storage.Type == StorageS3 && storage.Region == "" {
			storage.Region = c.AWSRegion
		}
		c.StorageURL = raw
		c.Storage = storage
		return nil
	}
}

// WithCompressor selects the compressor: tinify, local or none
func WithCompressor(name string) Option {
	return func(c *Config) error {
		switch name {
		case CompressorTinify, CompressorLocal, CompressorNone:
			c.Compressor = name
			return nil
		default:
			return fmt.Errorf("unknown compressor: %s", name)
		}
	}
}

// WithTinifyAPIKey sets the Tinify credential
func WithTinifyAPIKey(key string) Option {
	return func(c *Config) error {
		c.TinifyAPIKey = key
		return nil
	}
}

// WithBlobToken sets the Vercel Blob read/write token
func WithBlobToken(token string) Option {
	return func(c *Config) error {
		c.BlobToken = token
		return nil
	}
}

// WithPublicAppURL sets the explicit application origin
func WithPublicAppURL(appURL string) Option {
	return func(c *Config) error {
		c.PublicAppURL = appURL
		return nil
	}
}

// WithBlobPublicBaseURL sets the URL prefix objects are served from for
// stores other than Vercel Blob
func WithBlobPublicBaseURL(baseURL string) Option {
	return func(c *Config) error {
		c.BlobPublicBaseURL = baseURL
		return nil
	}
}

// WithMaxUploadBytes limits the request body size, 0 disables the limit
func WithMaxUploadBytes(n int64) Option {
	return func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("max upload bytes cannot be negative")
		}
		c.MaxUploadBytes = n
		return nil
	}
}

// WithEventLogging toggles logging of completed uploads
func WithEventLogging(enabled bool) Option {
	return func(c *Config) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
