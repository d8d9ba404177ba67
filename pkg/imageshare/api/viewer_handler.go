package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/imageshare/pkg/imageshare"
)

// Open Graph preview image size advertised to link unfurlers
const (
	ogImageWidth  = 1200
	ogImageHeight = 630
)

// ViewerHandler renders the share page of an uploaded image
type ViewerHandler struct {
	service  imageshare.Service
	siteName string
	logger   *slog.Logger
}

type viewerPage struct {
	SiteName      string
	Title         string
	Description   string
	ImageAlt      string
	PageURL       string
	ImageURL      string
	Placeholder   string
	ImageWidth    int
	ImageHeight   int
	TwitterCard   string
	OpenGraphType string
}

type notFoundPage struct {
	SiteName string
}

// NewViewerHandler creates a viewer handler
func NewViewerHandler(service imageshare.Service, siteName string, logger *slog.Logger) *ViewerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewerHandler{service: service, siteName: siteName, logger: logger}
}

// View renders GET /p/{id}
func (h *ViewerHandler) View(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	img, err := h.service.ResolveImage(r.Context(), id)
	if errors.Is(err, imageshare.ErrImageNotFound) {
		h.render(w, http.StatusNotFound, "not_found.html", notFoundPage{SiteName: h.siteName})
		return
	}
	if err != nil {
		h.logger.Error("Failed to resolve image", "id", id, "error", err)
		http.Error(w, "Image is temporarily unavailable", http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, "viewer.html", viewerPage{
		SiteName:      h.siteName,
		Title:         "Shared image",
		Description:   "An image uploaded through the image compression service",
		ImageAlt:      "Uploaded image",
		PageURL:       img.PageURL,
		ImageURL:      img.ImageURL,
		Placeholder:   PlaceholderPath,
		ImageWidth:    ogImageWidth,
		ImageHeight:   ogImageHeight,
		TwitterCard:   "summary_large_image",
		OpenGraphType: "website",
	})
}

func (h *ViewerHandler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("Failed to render page", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
