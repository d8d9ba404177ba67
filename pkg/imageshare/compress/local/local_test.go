package local

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.NoCompression}
	require.NoError(t, encoder.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressJPEG(t *testing.T) {
	original := encodeJPEG(t, gradient(256, 256), 100)

	out, err := New(Config{Quality: 50}).Compress(context.Background(), original, "image/jpeg")
	require.NoError(t, err)
	assert.Less(t, len(out), len(original))

	_, err = jpeg.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}

func TestCompressPNG(t *testing.T) {
	original := encodePNG(t, gradient(128, 128))

	out, err := New(Config{}).Compress(context.Background(), original, "image/png")
	require.NoError(t, err)
	assert.Less(t, len(out), len(original))

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 128), decoded.Bounds())
}

func TestCompressDownscales(t *testing.T) {
	original := encodeJPEG(t, gradient(400, 200), 95)

	out, err := New(Config{MaxWidth: 100}).Compress(context.Background(), original, "image/jpeg")
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestCompressNeverGrows(t *testing.T) {
	// already heavily compressed, re-encoding at quality 100 would grow it
	original := encodeJPEG(t, gradient(64, 64), 10)

	out, err := New(Config{Quality: 100}).Compress(context.Background(), original, "image/jpeg")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), len(original))
}

func TestCompressPassThrough(t *testing.T) {
	c := New(Config{})

	webp := []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
	out, err := c.Compress(context.Background(), webp, "image/webp")
	require.NoError(t, err)
	assert.Equal(t, webp, out)

	garbage := []byte("definitely not a jpeg")
	out, err = c.Compress(context.Background(), garbage, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, garbage, out)
}

func TestNewDefaults(t *testing.T) {
	assert.Equal(t, DefaultQuality, New(Config{Quality: 0}).quality)
	assert.Equal(t, DefaultQuality, New(Config{Quality: 150}).quality)
	assert.Equal(t, 60, New(Config{Quality: 60}).quality)
}
