package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/imageshare/pkg/imageshare"
	fsstorage "github.com/tendant/imageshare/pkg/imageshare/storage/fs"
)

// minimal PNG signature plus IHDR chunk header, enough for content sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestFSBackend(t *testing.T) {
	baseDir := t.TempDir()
	backend, err := fsstorage.New(fsstorage.Config{
		BaseDir:   baseDir,
		URLPrefix: "http://localhost:3000/blobs/",
	})
	require.NoError(t, err)

	ctx := context.Background()
	key := "uploads/2025-03-09/cat-1234.png"

	t.Run("Put", func(t *testing.T) {
		result, err := backend.Put(ctx, imageshare.PutParams{
			ObjectKey:   key,
			Data:        pngHeader,
			ContentType: "image/png",
			Public:      true,
		})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000/blobs/"+key, result.URL)
		assert.Equal(t, int64(len(pngHeader)), result.Size)

		onDisk, err := os.ReadFile(filepath.Join(baseDir, "uploads", "2025-03-09", "cat-1234.png"))
		require.NoError(t, err)
		assert.Equal(t, pngHeader, onDisk)
	})

	t.Run("Get", func(t *testing.T) {
		blob, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, blob.Data)
		assert.Equal(t, "image/png", blob.ContentType)
	})

	t.Run("Get missing", func(t *testing.T) {
		_, err := backend.Get(ctx, "uploads/2025-03-09/none.png")
		assert.ErrorIs(t, err, imageshare.ErrBlobNotFound)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		_, err := backend.Put(ctx, imageshare.PutParams{ObjectKey: "uploads/../../etc/passwd", Data: []byte("x")})
		assert.Error(t, err)

		_, err = backend.Get(ctx, "uploads/../secret")
		assert.ErrorIs(t, err, imageshare.ErrBlobNotFound)
	})
}

func TestFSBackendRequiresBaseDir(t *testing.T) {
	_, err := fsstorage.New(fsstorage.Config{})
	assert.Error(t, err)
}
