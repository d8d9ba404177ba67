package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/tendant/imageshare/pkg/imageshare"
)

// Config options for the S3 backend
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
	PublicBaseURL   string // Optional CDN or public bucket URL objects are served from
	PublicRead      bool   // Send the public-read canned ACL with each object
}

// Backend is an S3-compatible implementation of the imageshare.BlobStore interface
type Backend struct {
	uploader *manager.Uploader
	bucket   string
	config   Config
}

// New creates a new S3-compatible storage backend
func New(ctx context.Context, config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		// Use provided credentials
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Custom endpoint for S3-compatible services (MinIO, etc.)
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
		o.UsePathStyle = config.UsePathStyle
	})

	return &Backend{
		uploader: manager.NewUploader(client),
		bucket:   config.Bucket,
		config:   config,
	}, nil
}

// Put uploads params.Data with its content type and cache headers
func (b *Backend) Put(ctx context.Context, params imageshare.PutParams) (*imageshare.PutResult, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(params.ObjectKey),
		Body:        bytes.NewReader(params.Data),
		ContentType: aws.String(params.ContentType),
	}
	if params.CacheControl != "" {
		input.CacheControl = aws.String(params.CacheControl)
	}
	if params.Public && b.config.PublicRead {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := b.uploader.Upload(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("failed to upload to S3 (%s: %s): %w", apiErr.ErrorCode(), apiErr.ErrorMessage(), err)
		}
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &imageshare.PutResult{
		URL:  PublicURL(b.config, params.ObjectKey),
		Size: int64(len(params.Data)),
	}, nil
}

// PublicURL returns the anonymous URL of objectKey: the configured public
// base if any, otherwise the endpoint or AWS virtual-hosted URL.
func PublicURL(config Config, objectKey string) string {
	if config.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(config.PublicBaseURL, "/"), objectKey)
	}
	if config.Endpoint != "" {
		endpoint := strings.TrimSuffix(config.Endpoint, "/")
		if config.UsePathStyle {
			return fmt.Sprintf("%s/%s/%s", endpoint, config.Bucket, objectKey)
		}
		scheme, host, ok := strings.Cut(endpoint, "://")
		if !ok {
			return fmt.Sprintf("https://%s.%s/%s", config.Bucket, endpoint, objectKey)
		}
		return fmt.Sprintf("%s://%s.%s/%s", scheme, config.Bucket, host, objectKey)
	}
	region := config.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", config.Bucket, region, objectKey)
}
