package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"learnbase/auth"
	"learnbase/logger"
	"learnbase/media"
	"learnbase/models"
	"learnbase/web"

	"github.com/go-chi/chi/v5"
)

// Handler carries what the route handlers share. The note store is the
// package-level database connection.
type Handler struct {
	Renderer *web.Renderer
	Sessions *auth.Sessions
	Ingestor *media.Ingestor
	PerPage  int
	BaseURL  string
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrReference),
		errors.Is(err, models.ErrInvalidUpload):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAuth):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("writeJSON: Error encoding response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

// writeError answers a JSON route. Internal failures are logged and reported
// without their cause.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("writeError: %v", err)
		if !errors.Is(err, models.ErrIngestion) {
			msg = "internal server error"
		}
	}
	writeJSONError(w, status, msg)
}

// newPageData resolves the session state every page shows. It pops flash
// messages, so call it before anything is written to w.
func (h *Handler) newPageData(w http.ResponseWriter, r *http.Request, title string) web.PageData {
	capability := h.Sessions.Capability(r)
	return web.PageData{
		Title:     title,
		Admin:     capability.IsAdmin(),
		CanMutate: capability.CanMutate(),
		Flashes:   h.Sessions.Flashes(w, r),
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, name string, data web.PageData) {
	var buf bytes.Buffer
	if err := h.Renderer.Page(&buf, name, data); err != nil {
		logger.Error("renderPage: Error executing template %s: %v", name, err)
		http.Error(w, "Template execution error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *Handler) renderPartial(w http.ResponseWriter, name string, data web.PageData) {
	var buf bytes.Buffer
	if err := h.Renderer.Partial(&buf, name, data); err != nil {
		logger.Error("renderPartial: Error executing template %s: %v", name, err)
		http.Error(w, "Template execution error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// renderError shows the error page with the status err maps to.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := http.StatusText(status)
	switch status {
	case http.StatusInternalServerError:
		logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	case http.StatusUnauthorized:
		msg = "Admin mode is required for this action."
	case http.StatusNotFound:
		msg = "The requested page could not be found."
	}
	data := h.newPageData(w, r, http.StatusText(status))
	data.Status = status
	data.Message = msg
	h.renderPage(w, status, "error", data)
}

// NotFoundHandler renders the error page for unmatched routes.
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, models.ErrNotFound)
}

// pageParam reads ?page=, treating anything missing, malformed or below 1 as 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// noteIDParam reads {noteID}. A non-numeric id matches no note.
func noteIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "noteID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrNotFound
	}
	return id, nil
}

// pathParam returns a decoded path parameter.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func isXHR(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// absoluteURL prefixes path with the configured base URL or, failing that,
// the scheme and host the request arrived on.
func (h *Handler) absoluteURL(r *http.Request, path string) string {
	if h.BaseURL != "" {
		return strings.TrimRight(h.BaseURL, "/") + path
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
