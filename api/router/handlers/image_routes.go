package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterImageRoutes(r chi.Router, h *Handler) {
	r.With(h.RequireAdminJSON).Post("/upload_image", h.UploadImageHandler)
}
