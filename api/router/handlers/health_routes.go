package handlers

import (
	"net/http"

	"learnbase/database"
	"learnbase/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterHealthRoutes(r chi.Router) {
	r.Get("/health", healthCheckHandler)
}

// healthCheckHandler reports whether the database answers.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]bool "{"ok": true}"
// @Failure 500 {object} models.ErrorResponse
// @Router /health [get]
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		writeJSONError(w, http.StatusInternalServerError, "database not initialized")
		return
	}
	if err := database.DB.PingContext(r.Context()); err != nil {
		logger.Error("healthCheckHandler: database ping failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
