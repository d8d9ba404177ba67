package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/imageshare/pkg/imageshare"
	"github.com/tendant/imageshare/pkg/imageshare/objectkey"
)

// FileField is the multipart field carrying the image
const FileField = "file"

// maxMemory is how much of a multipart body is kept in memory before
// spilling to temporary files
const maxMemory = 32 << 20

// UploadHandler accepts image uploads
type UploadHandler struct {
	service        imageshare.Service
	maxUploadBytes int64
	logger         *slog.Logger
}

// UploadResponse is returned for a successful upload
type UploadResponse struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	BlobURL      string `json:"blobUrl"`
	Size         int64  `json:"size"`
	OriginalSize int64  `json:"originalSize"`
}

// NewUploadHandler creates an upload handler. maxUploadBytes <= 0 disables the body limit.
func NewUploadHandler(service imageshare.Service, maxUploadBytes int64, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Routes returns the router for upload endpoints
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Upload)
	return r
}

// Upload godoc
//
//	@Summary		Upload an image
//	@Description	Compresses a JPEG, PNG or WEBP image, stores it publicly and returns a shareable viewer URL.
//	@Tags			upload
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image file"
//	@Success		200		{object}	UploadResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		415		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/upload [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Validate(); err != nil {
		h.logger.Error("Upload rejected, service not configured", "error", err)
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "file is too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "request must be multipart/form-data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(FileField)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, imageshare.ErrMissingFile.Error())
		return
	}
	defer file.Close()

	contentType := objectkey.NormalizeContentType(header.Header.Get("Content-Type"))
	if !objectkey.IsAllowed(contentType) {
		writeError(w, r, http.StatusUnsupportedMediaType, imageshare.ErrUnsupportedType.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", "error", err)
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if len(data) == 0 {
		writeError(w, r, http.StatusBadRequest, imageshare.ErrEmptyFile.Error())
		return
	}

	result, err := h.service.Upload(r.Context(), imageshare.UploadRequest{
		Data:        data,
		ContentType: contentType,
		FileName:    header.Filename,
	})
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to upload image", "file_name", header.Filename, "error", err)
		}
		writeError(w, r, status, err.Error())
		return
	}

	render.JSON(w, r, UploadResponse{
		ID:           result.ID,
		URL:          result.URL,
		BlobURL:      result.BlobURL,
		Size:         result.Size,
		OriginalSize: result.OriginalSize,
	})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, imageshare.ErrMissingFile), errors.Is(err, imageshare.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, imageshare.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, imageshare.ErrImageNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
