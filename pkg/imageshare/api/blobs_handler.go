package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/imageshare/pkg/imageshare"
)

// defaultBlobCacheControl applies when a store does not remember the header
var defaultBlobCacheControl = imageshare.CacheControlFor(imageshare.DefaultCacheMaxAge)

// BlobsHandler serves objects from stores without their own public endpoint
type BlobsHandler struct {
	reader imageshare.BlobReader
	logger *slog.Logger
}

// NewBlobsHandler creates a blobs handler
func NewBlobsHandler(reader imageshare.BlobReader, logger *slog.Logger) *BlobsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlobsHandler{reader: reader, logger: logger}
}

// Get serves GET /blobs/*
func (h *BlobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	blob, err := h.reader.Get(r.Context(), key)
	if errors.Is(err, imageshare.ErrBlobNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("Failed to read blob", "key", key, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if blob.ContentType != "" {
		w.Header().Set("Content-Type", blob.ContentType)
	}
	cacheControl := blob.CacheControl
	if cacheControl == "" {
		cacheControl = defaultBlobCacheControl
	}
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")

	http.ServeContent(w, r, key, blob.UpdatedAt, bytes.NewReader(blob.Data))
}
