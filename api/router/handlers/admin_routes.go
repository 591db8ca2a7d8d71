package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterAdminRoutes(r chi.Router, h *Handler) {
	r.Post("/check_admin", h.CheckAdminHandler)
	r.Get("/admin_logout", h.AdminLogoutHandler)
}
