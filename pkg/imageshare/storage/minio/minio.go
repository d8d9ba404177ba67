package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tendant/imageshare/pkg/imageshare"
)

// Config options for the MinIO backend
type Config struct {
	Endpoint   string // host:port
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PublicBase string // defaults to <scheme>://<endpoint>/<bucket>
	// EnsureBucket creates the bucket when missing and applies a public-read policy
	EnsureBucket bool
}

// Backend is a MinIO (or any S3-compatible) implementation of the imageshare.BlobStore interface
type Backend struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// New creates a MinIO client and, when requested, makes sure the bucket exists
// and is publicly readable.
func New(ctx context.Context, config Config) (*Backend, error) {
	if config.Endpoint == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	if config.EnsureBucket {
		if err := ensureBucket(ctx, client, config.Bucket); err != nil {
			return nil, err
		}
	}

	return &Backend{
		client:     client,
		bucket:     config.Bucket,
		publicBase: PublicBase(config),
	}, nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		slog.Info("Created bucket", "bucket", bucket)
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	return nil
}

// Put uploads params.Data under params.ObjectKey
func (b *Backend) Put(ctx context.Context, params imageshare.PutParams) (*imageshare.PutResult, error) {
	info, err := b.client.PutObject(ctx, b.bucket, params.ObjectKey, bytes.NewReader(params.Data), int64(len(params.Data)), minio.PutObjectOptions{
		ContentType:  params.ContentType,
		CacheControl: params.CacheControl,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", params.ObjectKey, err)
	}

	return &imageshare.PutResult{
		URL:  b.PublicURL(params.ObjectKey),
		Size: info.Size,
	}, nil
}

// PublicURL returns the browser-accessible URL for the given key
func (b *Backend) PublicURL(key string) string {
	return b.publicBase + "/" + key
}

// PublicBase returns the configured public base or the bucket URL on the endpoint
func PublicBase(config Config) string {
	if config.PublicBase != "" {
		return strings.TrimRight(config.PublicBase, "/")
	}
	scheme := "http"
	if config.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, config.Endpoint, config.Bucket)
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
