package handlers

import (
	"net/http"

	"learnbase/database"
	"learnbase/logger"
)

// ListNotesJSONHandler returns every note, newest update first.
// @Summary List all notes as JSON
// @Tags Notes
// @Produce json
// @Success 200 {array} models.Note
// @Failure 500 {object} models.ErrorResponse
// @Router /api/notes [get]
func ListNotesJSONHandler(w http.ResponseWriter, r *http.Request) {
	notes, err := database.ListNotes()
	if err != nil {
		logger.Error("ListNotesJSONHandler: Error fetching notes: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}
