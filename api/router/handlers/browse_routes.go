package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterBrowseRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.IndexHandler)
	r.Get("/search", h.SearchHandler)
	r.Get("/category/{categoryName}", h.CategoryHandler)
}
