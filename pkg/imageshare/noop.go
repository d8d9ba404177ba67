package imageshare

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// ImageUploaded does nothing and returns nil
func (n *NoopEventSink) ImageUploaded(ctx context.Context, result *UploadResult) error {
	return nil
}

// LoggingEventSink is an event sink that logs events but takes no other action
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink. A nil logger uses slog.Default().
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

// ImageUploaded logs the upload
func (l *LoggingEventSink) ImageUploaded(ctx context.Context, result *UploadResult) error {
	l.logger.InfoContext(ctx, "Image uploaded",
		"key", result.ObjectKey,
		"content_type", result.ContentType,
		"size", result.Size,
		"original_size", result.OriginalSize)
	return nil
}

// PassthroughCompressor returns its input unchanged
type PassthroughCompressor struct{}

// NewPassthroughCompressor creates a compressor that does no work
func NewPassthroughCompressor() Compressor {
	return &PassthroughCompressor{}
}

// Compress returns data as is
func (p *PassthroughCompressor) Compress(ctx context.Context, data []byte, contentType string) ([]byte, error) {
	return data, nil
}
