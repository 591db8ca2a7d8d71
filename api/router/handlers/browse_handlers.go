package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"learnbase/database"
	"learnbase/models"
	"learnbase/web"
)

// listData fills the shared fields of every note list page.
func (h *Handler) listData(w http.ResponseWriter, r *http.Request, title string, page models.NotePage, pageBase string) (web.PageData, error) {
	data := h.newPageData(w, r, title)
	categories, err := database.ListCategoriesWithCounts()
	if err != nil {
		return data, err
	}
	data.Categories = categories
	data.Notes = page.Notes
	data.Pagination = &page.Pagination
	data.PageBase = pageBase
	return data, nil
}

// IndexHandler lists every note, newest update first. Requests marked with
// X-Requested-With: XMLHttpRequest get only the note cards.
// @Summary List notes
// @Tags Notes
// @Produce html
// @Param page query int false "Page number" default(1)
// @Success 200 {string} string "HTML page or note-card fragment"
// @Router / [get]
func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	page, err := database.ListNotesPage(pageParam(r), h.PerPage)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if isXHR(r) {
		h.renderPartial(w, "note_cards", web.PageData{Notes: page.Notes})
		return
	}
	data, err := h.listData(w, r, "", page, "/?")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderPage(w, http.StatusOK, "index", data)
}

// SearchHandler matches q against titles, content and tags. A blank q shows
// an empty result.
// @Summary Search notes
// @Tags Notes
// @Produce html
// @Param q query string false "Search text"
// @Param page query int false "Page number" default(1)
// @Success 200 {string} string "HTML page"
// @Router /search [get]
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page, err := database.SearchNotes(q, pageParam(r), h.PerPage)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	base := "/search?" + url.Values{"q": {q}}.Encode() + "&"
	data, err := h.listData(w, r, "Search", page, base)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data.SearchQuery = q
	data.Searching = strings.TrimSpace(q) != ""
	h.renderPage(w, http.StatusOK, "index", data)
}

// CategoryHandler lists the notes of one category. An unknown category shows
// an empty list.
// @Summary List notes in a category
// @Tags Notes
// @Produce html
// @Param categoryName path string true "Category name"
// @Param page query int false "Page number" default(1)
// @Success 200 {string} string "HTML page"
// @Router /category/{categoryName} [get]
func (h *Handler) CategoryHandler(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "categoryName")
	pageNum := pageParam(r)

	page := models.EmptyNotePage(pageNum, h.PerPage)
	category, err := database.GetCategoryByName(name)
	switch {
	case err == nil:
		name = category.Name
		page, err = database.ListNotesByCategory(category.ID, pageNum, h.PerPage)
		if err != nil {
			h.renderError(w, r, err)
			return
		}
	case !errors.Is(err, models.ErrNotFound):
		h.renderError(w, r, err)
		return
	}

	base := "/category/" + url.PathEscape(name) + "?"
	data, err := h.listData(w, r, name, page, base)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data.CurrentCategory = name
	h.renderPage(w, http.StatusOK, "index", data)
}
