package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"learnbase/database"
	"learnbase/logger"
	"learnbase/models"
)

type addCategoryRequest struct {
	Name string `json:"name" example:"Scope 3 Emissions"`
}

// AddCategoryHandler creates a category, or returns the existing one whose
// name matches ignoring case and surrounding spaces.
// @Summary Create or reuse a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param category body addCategoryRequest true "Category name"
// @Success 201 {object} models.CategoryCreatedResponse
// @Success 200 {object} models.CategoryCreatedResponse "Existing category, existed=true"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /notes/api/add_category [post]
func (h *Handler) AddCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Info("AddCategoryHandler: Error decoding request body: %v", err)
		writeJSONError(w, http.StatusBadRequest, "Category name is required")
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	category, created, err := database.CreateCategory(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := models.CategoryCreatedResponse{ID: category.ID, Name: category.Name}
	if !created {
		resp.Existed = true
		writeJSON(w, http.StatusOK, resp)
		return
	}
	logger.Info("AddCategoryHandler: Created category %d '%s'", category.ID, category.Name)
	writeJSON(w, http.StatusCreated, resp)
}
