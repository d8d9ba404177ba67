package api

import (
	"net/http"
	"strings"

	"github.com/tendant/imageshare/pkg/imageshare/objectkey"
)

type formPage struct {
	SiteName      string
	Accept        string
	UploadURL     string
	FileField     string
	MaxUploadSize int64
}

// FormHandler serves the upload form
type FormHandler struct {
	viewer         *ViewerHandler
	maxUploadBytes int64
}

// NewFormHandler creates the form handler. It shares page rendering with the viewer.
func NewFormHandler(viewer *ViewerHandler, maxUploadBytes int64) *FormHandler {
	return &FormHandler{viewer: viewer, maxUploadBytes: maxUploadBytes}
}

// Index renders GET /
func (h *FormHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.viewer.render(w, http.StatusOK, "form.html", formPage{
		SiteName:      h.viewer.siteName,
		Accept:        strings.Join(objectkey.AllowedTypes(), ","),
		UploadURL:     "/api/upload",
		FileField:     FileField,
		MaxUploadSize: h.maxUploadBytes,
	})
}
