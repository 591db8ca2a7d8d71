package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"learnbase/api/router/handlers"
	"learnbase/auth"
	"learnbase/config"
	"learnbase/logger"
	"learnbase/media"
	"learnbase/web"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every route against the already opened database.
func NewRouter(cfg config.Configuration) (http.Handler, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	h := &handlers.Handler{
		Renderer: renderer,
		Sessions: auth.NewSessions(cfg.SecretKey, cfg.AdminPassword, cfg.Auth.RequireAdmin),
		Ingestor: media.NewIngestor(cfg.Images.Dir, cfg.Images.URLPrefix, cfg.Images.AllowedExtensions, cfg.Images.MaxWidth, cfg.Images.Quality),
		PerPage:  cfg.Notes.PerPage,
		BaseURL:  cfg.Server.BaseURL,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(newCompressor().Handler)

	r.NotFound(h.NotFoundHandler)

	handlers.RegisterHealthRoutes(r)
	handlers.RegisterVersionRoutes(r)
	handlers.RegisterBrowseRoutes(r, h)
	handlers.RegisterNoteRoutes(r, h)
	handlers.RegisterAdminRoutes(r, h)
	handlers.RegisterNoteAPIRoutes(r)

	imagePrefix := strings.TrimRight(h.Ingestor.URLPrefix, "/")
	r.Handle(imagePrefix+"/*", http.StripPrefix(imagePrefix+"/", noListing(http.FileServer(http.Dir(cfg.Images.Dir)))))
	r.Handle("/static/*", http.StripPrefix("/static/", noListing(web.Static())))

	return r, nil
}

// newCompressor adds brotli to chi's gzip and deflate encoders.
func newCompressor() *middleware.Compressor {
	c := middleware.NewCompressor(5, "text/html", "text/css", "text/javascript", "application/javascript", "application/json")
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c
}

// accessLog writes one access-log line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			line := fmt.Sprintf("%s %s %s %d %dB %s reqid=%s", r.RemoteAddr, r.Method, r.URL.RequestURI(), status, ww.BytesWritten(), time.Since(start), middleware.GetReqID(r.Context()))
			if status >= http.StatusInternalServerError {
				logger.AccessError("%s", line)
			} else {
				logger.AccessInfo("%s", line)
			}
		}()
		next.ServeHTTP(ww, r)
	})
}

// noListing hides directory indexes.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
