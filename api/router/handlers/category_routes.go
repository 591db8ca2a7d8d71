package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterCategoryRoutes(r chi.Router, h *Handler) {
	r.With(h.RequireAdminJSON).Post("/api/add_category", h.AddCategoryHandler)
}
