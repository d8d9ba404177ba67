// Package local compresses images in process by re-encoding them, for
// development and deployments without a Tinify key.
package local

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

// DefaultQuality is the JPEG quality used when none is configured
const DefaultQuality = 80

// Config for the local compressor
type Config struct {
	Quality  int  // JPEG quality 1-100
	MaxWidth uint // downscale wider images, 0 keeps the original width
}

// Compressor re-encodes JPEG and PNG images. Other formats pass through.
type Compressor struct {
	quality  int
	maxWidth uint
}

// New creates a local compressor
func New(config Config) *Compressor {
	quality := config.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Compressor{quality: quality, maxWidth: config.MaxWidth}
}

// Compress never returns more bytes than it was given: if re-encoding does
// not help, or the image cannot be decoded, data is returned unchanged.
func (c *Compressor) Compress(ctx context.Context, data []byte, contentType string) ([]byte, error) {
	var (
		img image.Image
		err error
	)
	switch contentType {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	default:
		return data, nil
	}
	if err != nil {
		return data, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.maxWidth > 0 && uint(img.Bounds().Dx()) > c.maxWidth {
		// Resize the image (maintaining aspect ratio)
		img = resize.Resize(c.maxWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if contentType == "image/jpeg" {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality})
	} else {
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		err = encoder.Encode(&buf, img)
	}
	if err != nil {
		return data, nil
	}

	if buf.Len() >= len(data) {
		return data, nil
	}
	return buf.Bytes(), nil
}
