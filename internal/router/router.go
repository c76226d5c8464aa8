// Package router sets up all HTTP routes and middleware chains for the
// contenthub API. Every route lives under /api except the health check and
// the upload file server used by the disk storage backend.
package router

import (
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"contenthub/internal/handlers"
	"contenthub/internal/middleware"
)

// Options configures the parts of the router that vary per deployment.
type Options struct {
	// UploadDir is served at UploadURLPrefix when non-empty. Leave it empty
	// when uploads live in object storage.
	UploadDir       string
	UploadURLPrefix string

	// CORSOrigins lists allowed origins; empty allows any origin.
	CORSOrigins []string

	// Per-IP request limits per minute. Zero disables the limit.
	RateLimitAPI       int
	RateLimitDownloads int
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(corsOptions(opts.CORSOrigins)))

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimitAPI > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimitAPI, time.Minute))
		}

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.CategoriesList)
			r.Post("/", api.CategoryCreate)
			r.Get("/slug/{slug}", api.CategoryGetBySlug)
			r.Get("/{id}", api.CategoryGet)
			r.Put("/{id}", api.CategoryUpdate)
			r.Delete("/{id}", api.CategoryDelete)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", api.PostsList)
			r.Post("/", api.PostCreate)
			r.Get("/{id}", api.PostGet)
			r.Put("/{id}", api.PostUpdate)
			r.Delete("/{id}", api.PostDelete)

			// Downloads get their own, stricter limit on top of the API one.
			if opts.RateLimitDownloads > 0 {
				r.With(httprate.LimitByIP(opts.RateLimitDownloads, time.Minute)).
					Post("/{id}/download", api.PostDownload)
			} else {
				r.Post("/{id}/download", api.PostDownload)
			}
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/", api.NewsList)
			r.Post("/", api.NewsCreate)
			r.Get("/{id}", api.NewsGet)
			r.Put("/{id}", api.NewsUpdate)
			r.Delete("/{id}", api.NewsDelete)
		})
	})

	if opts.UploadDir != "" {
		prefix := "/" + strings.Trim(opts.UploadURLPrefix, "/")
		fileServer := http.StripPrefix(prefix, http.FileServer(uploadFS{http.Dir(opts.UploadDir)}))
		r.With(middleware.AllowAnyOrigin).Handle(prefix+"/*", fileServer)
	}

	return r
}

// uploadFS serves stored files only. Directories and dot-prefixed names,
// such as in-flight staging files, look like missing files.
type uploadFS struct {
	fs http.FileSystem
}

func (u uploadFS) Open(name string) (http.File, error) {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return nil, fs.ErrNotExist
		}
	}
	f, err := u.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Cache"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
