package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tendant/imageshare/pkg/imageshare"
)

// DefaultSiteName is shown in page titles and og:site_name
const DefaultSiteName = "Quick Image Hosting"

// RouterOptions configures NewRouter
type RouterOptions struct {
	SiteName       string
	MaxUploadBytes int64
	AllowedOrigins []string
	// Blobs, when set, is served under /blobs/*
	Blobs  imageshare.BlobReader
	Logger *slog.Logger
}

// NewRouter wires every HTTP endpoint of the service
func NewRouter(service imageshare.Service, opts RouterOptions) http.Handler {
	if opts.SiteName == "" {
		opts.SiteName = DefaultSiteName
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	upload := NewUploadHandler(service, opts.MaxUploadBytes, opts.Logger)
	viewer := NewViewerHandler(service, opts.SiteName, opts.Logger)
	form := NewFormHandler(viewer, opts.MaxUploadBytes)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Get("/healthz/ready", handleHealth)

	// Swagger UI at /swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
		r.Mount("/upload", upload.Routes())
	})

	r.Get("/", form.Index)
	r.Get("/p/{id}", viewer.View)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(StaticFiles()))))

	if opts.Blobs != nil {
		r.Get("/blobs/*", NewBlobsHandler(opts.Blobs, opts.Logger).Get)
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
