package imageshare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tendant/imageshare/pkg/imageshare/objectkey"
	"github.com/tendant/imageshare/pkg/imageshare/pathcodec"
	"github.com/tendant/imageshare/pkg/imageshare/urlstrategy"
)

// service implements the Service interface
type service struct {
	compressor   Compressor
	blobStore    BlobStore
	urlStrategy  urlstrategy.URLStrategy
	keyGenerator objectkey.Generator
	appBaseURL   string
	cacheMaxAge  time.Duration
	eventSink    EventSink
	logger       *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithCompressor sets the image compressor
func WithCompressor(c Compressor) Option {
	return func(s *service) {
		s.compressor = c
	}
}

// WithBlobStore sets the store compressed images are written to
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithURLStrategy sets the strategy used to build public blob URLs
func WithURLStrategy(strategy urlstrategy.URLStrategy) Option {
	return func(s *service) {
		s.urlStrategy = strategy
	}
}

// WithKeyGenerator overrides the object key generator
func WithKeyGenerator(g objectkey.Generator) Option {
	return func(s *service) {
		s.keyGenerator = g
	}
}

// WithAppBaseURL sets the origin viewer URLs are built on
func WithAppBaseURL(baseURL string) Option {
	return func(s *service) {
		s.appBaseURL = baseURL
	}
}

// WithCacheMaxAge sets the client cache lifetime requested from the store
func WithCacheMaxAge(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.cacheMaxAge = d
		}
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger used for non-fatal problems
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		keyGenerator: objectkey.NewRecommendedGenerator(),
		appBaseURL:   urlstrategy.LocalBaseURL,
		cacheMaxAge:  DefaultCacheMaxAge,
	}

	for _, option := range options {
		option(s)
	}

	if s.compressor == nil {
		return nil, fmt.Errorf("compressor is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.urlStrategy == nil {
		return nil, fmt.Errorf("url strategy is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) Validate() error {
	if v, ok := s.compressor.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
	}
	return nil
}

func (s *service) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	contentType := objectkey.NormalizeContentType(req.ContentType)
	if !objectkey.IsAllowed(contentType) {
		return nil, ErrUnsupportedType
	}
	if len(req.Data) == 0 {
		return nil, ErrEmptyFile
	}

	compressed, err := s.compressor.Compress(ctx, req.Data, contentType)
	if err != nil {
		return nil, &UploadError{Op: "compress", Err: err}
	}
	if len(compressed) == 0 {
		return nil, &UploadError{Op: "compress", Err: errors.New("compressor returned no data")}
	}

	key := s.keyGenerator.GenerateKey(&objectkey.KeyMetadata{
		FileName:    req.FileName,
		ContentType: contentType,
	})

	put, err := s.blobStore.Put(ctx, PutParams{
		ObjectKey:    key,
		Data:         compressed,
		ContentType:  contentType,
		CacheControl: CacheControlFor(s.cacheMaxAge),
		Public:       true,
	})
	if err != nil {
		return nil, &UploadError{Op: "store", Key: key, Err: err}
	}

	blobURL := put.URL
	if blobURL == "" {
		blobURL, err = s.urlStrategy.GenerateBlobURL(ctx, key)
		if err != nil {
			return nil, &UploadError{Op: "url", Key: key, Err: err}
		}
	}

	size := put.Size
	if size == 0 {
		size = int64(len(compressed))
	}

	id := pathcodec.Encode(key)
	result := &UploadResult{
		ID:           id,
		ObjectKey:    key,
		URL:          urlstrategy.ViewerURL(s.appBaseURL, id),
		BlobURL:      blobURL,
		Size:         size,
		OriginalSize: int64(len(req.Data)),
		ContentType:  contentType,
	}

	if err := s.eventSink.ImageUploaded(ctx, result); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "key", key, "error", err)
	}

	return result, nil
}

func (s *service) ResolveImage(ctx context.Context, id string) (*Image, error) {
	key, ok := pathcodec.Decode(id)
	if !ok || !objectkey.Valid(key) {
		return nil, ErrImageNotFound
	}

	imageURL, err := s.urlStrategy.GenerateBlobURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to build image url: %w", err)
	}

	return &Image{
		ID:        id,
		ObjectKey: key,
		ImageURL:  imageURL,
		PageURL:   urlstrategy.ViewerURL(s.appBaseURL, id),
	}, nil
}
