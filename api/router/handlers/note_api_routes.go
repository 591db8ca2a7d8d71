package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterNoteAPIRoutes(r chi.Router) {
	r.Get("/api/notes", ListNotesJSONHandler)
}
