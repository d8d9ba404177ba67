package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/imageshare/pkg/imageshare"
	"github.com/tendant/imageshare/pkg/imageshare/pathcodec"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEncodeDecode(t *testing.T) {
	key := "uploads/2025-03-09/holiday-0b8f2c1e.jpg"

	out, err := execute(t, "encode", key)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	assert.Equal(t, pathcodec.Encode(key), id)

	out, err = execute(t, "decode", id)
	require.NoError(t, err)
	assert.Equal(t, key, strings.TrimSpace(out))
}

func TestDecodeMalformed(t *testing.T) {
	_, err := execute(t, "decode", "not*base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed id")
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		data     []byte
		expected string
	}{
		{name: "jpeg extension", path: "a.jpg", data: []byte("x"), expected: "image/jpeg"},
		{name: "upper case extension", path: "a.PNG", data: []byte("x"), expected: "image/png"},
		{name: "webp extension", path: "a.webp", data: []byte("x"), expected: "image/webp"},
		{name: "sniffed png", path: "screenshot", data: pngHeader, expected: "image/png"},
		{name: "sniffed text", path: "notes", data: []byte("hello"), expected: "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detectContentType(tt.path, tt.data))
		})
	}
}

func TestUploadCommand(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("STORAGE_URL", "file://"+dataDir)
	t.Setenv("COMPRESSOR", "none")
	t.Setenv("ENVIRONMENT", "testing")
	t.Setenv("NEXT_PUBLIC_APP_URL", "https://share.example.com")
	t.Setenv("BLOB_PUBLIC_BASE_URL", "https://cdn.example.com")

	file := filepath.Join(t.TempDir(), "diagram.png")
	require.NoError(t, os.WriteFile(file, pngHeader, 0o644))

	out, err := execute(t, "upload", "--json", file)
	require.NoError(t, err, out)

	var result imageshare.UploadResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, strings.HasPrefix(result.URL, "https://share.example.com/p/"), result.URL)
	assert.True(t, strings.HasPrefix(result.BlobURL, "https://cdn.example.com/uploads/"), result.BlobURL)
	assert.Equal(t, int64(len(pngHeader)), result.OriginalSize)

	key, ok := pathcodec.Decode(result.ID)
	require.True(t, ok)
	stored, err := os.ReadFile(filepath.Join(dataDir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestUploadCommandRejectsUnsupportedType(t *testing.T) {
	t.Setenv("STORAGE_URL", "memory://")
	t.Setenv("COMPRESSOR", "none")

	file := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o644))

	_, err := execute(t, "upload", file)
	require.Error(t, err)
	assert.ErrorIs(t, err, imageshare.ErrUnsupportedType)
}

func TestUploadCommandMissingFile(t *testing.T) {
	_, err := execute(t, "upload", filepath.Join(t.TempDir(), "absent.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
