package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"learnbase/database"
	"learnbase/logger"
	"learnbase/models"
)

// noteInputFromForm reads the submitted note fields. A missing or malformed
// category id is left as 0 so validation reports it.
func noteInputFromForm(r *http.Request) models.NoteInput {
	if err := r.ParseForm(); err != nil {
		logger.Debug("noteInputFromForm: Error parsing form: %v", err)
	}
	categoryID, _ := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("category_id")), 10, 64)
	return models.NoteInput{
		Title:      r.PostFormValue("title"),
		CategoryID: categoryID,
		Content:    r.PostFormValue("content"),
		Tags:       r.PostFormValue("tags"),
	}
}

func noteToInput(n models.Note) models.NoteInput {
	return models.NoteInput{Title: n.Title, CategoryID: n.CategoryID, Content: n.Content, Tags: n.Tags}
}

// renderNoteForm shows the add or edit form. note is nil when adding.
func (h *Handler) renderNoteForm(w http.ResponseWriter, r *http.Request, status int, note *models.Note, form models.NoteInput, fieldErrs map[string]string) {
	title, action, cancel := "New note", "/notes/add", "/"
	if note != nil {
		title = "Edit " + note.Title
		action = fmt.Sprintf("/notes/%d/edit", note.ID)
		cancel = fmt.Sprintf("/notes/%d", note.ID)
	}
	data := h.newPageData(w, r, title)
	categories, err := database.ListCategoriesWithCounts()
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if fieldErrs == nil {
		fieldErrs = map[string]string{}
	}
	data.Categories = categories
	data.Note = note
	data.Form = form
	data.Errors = fieldErrs
	data.FormAction = action
	data.CancelURL = cancel
	h.renderPage(w, status, "note_form", data)
}

// validationFields extracts per-field messages from a validation failure.
func validationFields(err error) map[string]string {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return map[string]string{}
}

// NewNoteFormHandler handles GET /notes/add.
func (h *Handler) NewNoteFormHandler(w http.ResponseWriter, r *http.Request) {
	h.renderNoteForm(w, r, http.StatusOK, nil, models.NoteInput{}, nil)
}

// CreateNoteHandler handles POST /notes/add. A rejected submission redisplays
// the form with the submitted values and HTTP 400.
func (h *Handler) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	in := noteInputFromForm(r)
	note, err := database.CreateNote(in)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			logger.Info("CreateNoteHandler: Rejected note: %v", err)
			h.renderNoteForm(w, r, http.StatusBadRequest, nil, in, validationFields(err))
			return
		}
		logger.Error("CreateNoteHandler: Error creating note: %v", err)
		h.renderError(w, r, err)
		return
	}
	logger.Info("CreateNoteHandler: Created note %d '%s'", note.ID, note.Title)
	h.Sessions.AddFlash(w, r, "success", "Note created.")
	http.Redirect(w, r, "/", http.StatusFound)
}

// ViewNoteHandler handles GET /notes/{noteID}.
func (h *Handler) ViewNoteHandler(w http.ResponseWriter, r *http.Request) {
	noteID, err := noteIDParam(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	note, err := database.GetNoteByID(noteID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data := h.newPageData(w, r, note.Title)
	data.Note = &note
	h.renderPage(w, http.StatusOK, "view_note", data)
}

// EditNoteFormHandler handles GET /notes/{noteID}/edit.
func (h *Handler) EditNoteFormHandler(w http.ResponseWriter, r *http.Request) {
	noteID, err := noteIDParam(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	note, err := database.GetNoteByID(noteID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderNoteForm(w, r, http.StatusOK, &note, noteToInput(note), nil)
}

// UpdateNoteHandler handles POST /notes/{noteID}/edit.
func (h *Handler) UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {
	noteID, err := noteIDParam(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	in := noteInputFromForm(r)
	note, err := database.UpdateNote(noteID, in)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			existing, getErr := database.GetNoteByID(noteID)
			if getErr != nil {
				h.renderError(w, r, getErr)
				return
			}
			logger.Info("UpdateNoteHandler: Rejected update of note %d: %v", noteID, err)
			h.renderNoteForm(w, r, http.StatusBadRequest, &existing, in, validationFields(err))
			return
		}
		if !errors.Is(err, models.ErrNotFound) {
			logger.Error("UpdateNoteHandler: Error updating note %d: %v", noteID, err)
		}
		h.renderError(w, r, err)
		return
	}
	logger.Info("UpdateNoteHandler: Updated note %d", note.ID)
	h.Sessions.AddFlash(w, r, "success", "Note updated.")
	http.Redirect(w, r, fmt.Sprintf("/notes/%d", note.ID), http.StatusFound)
}

// DeleteNoteHandler handles GET /notes/{noteID}/delete.
func (h *Handler) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	noteID, err := noteIDParam(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err := database.DeleteNote(noteID); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			logger.Error("DeleteNoteHandler: Error deleting note %d: %v", noteID, err)
		}
		h.renderError(w, r, err)
		return
	}
	logger.Info("DeleteNoteHandler: Deleted note %d", noteID)
	h.Sessions.AddFlash(w, r, "success", "Note deleted.")
	http.Redirect(w, r, "/", http.StatusFound)
}
