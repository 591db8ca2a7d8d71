package handlers

import (
	"net/http"

	"learnbase/version"
)

// GetVersionHandler returns the application version.
// @Summary Get application version
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "{"version": "0.1.0"}"
// @Router /version [get]
func GetVersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.AppVersion})
}
