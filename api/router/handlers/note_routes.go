package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterNoteRoutes mounts everything under /notes. Anything that changes a
// note sits behind the admin gate.
func RegisterNoteRoutes(r chi.Router, h *Handler) {
	r.Route("/notes", func(notes chi.Router) {
		notes.Group(func(gated chi.Router) {
			gated.Use(h.RequireAdminPage)
			gated.Get("/add", h.NewNoteFormHandler)
			gated.Post("/add", h.CreateNoteHandler)
			gated.Get("/{noteID}/edit", h.EditNoteFormHandler)
			gated.Post("/{noteID}/edit", h.UpdateNoteHandler)
			gated.Get("/{noteID}/delete", h.DeleteNoteHandler)
		})
		notes.Get("/{noteID}", h.ViewNoteHandler)

		RegisterCategoryRoutes(notes, h)
		RegisterImageRoutes(notes, h)
	})
}
