package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"learnbase/logger"
	"learnbase/models"
)

type checkAdminRequest struct {
	Password *string `json:"password"`
}

type checkAdminResponse struct {
	Success bool `json:"success"`
	IsAdmin bool `json:"is_admin"`
}

// CheckAdminHandler switches the session into admin mode when the password
// matches and out of it when it does not.
// @Summary Enter admin mode
// @Tags Admin
// @Accept json
// @Produce json
// @Param credentials body checkAdminRequest true "Admin password"
// @Success 200 {object} checkAdminResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /check_admin [post]
func (h *Handler) CheckAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req checkAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == nil {
		writeJSONError(w, http.StatusBadRequest, "password is required")
		return
	}
	defer r.Body.Close()

	capability, err := h.Sessions.Login(w, r, *req.Password)
	if err != nil {
		if errors.Is(err, models.ErrAuth) {
			logger.Info("CheckAdminHandler: Admin password mismatch from %s", r.RemoteAddr)
			writeJSONError(w, http.StatusUnauthorized, "incorrect password")
			return
		}
		writeError(w, err)
		return
	}
	logger.Info("CheckAdminHandler: Admin mode enabled for %s", r.RemoteAddr)
	writeJSON(w, http.StatusOK, checkAdminResponse{Success: true, IsAdmin: capability.IsAdmin()})
}

// AdminLogoutHandler leaves admin mode and returns to the note list.
func (h *Handler) AdminLogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r); err != nil {
		logger.Error("AdminLogoutHandler: Error clearing session: %v", err)
	}
	h.Sessions.AddFlash(w, r, "info", "Admin mode disabled.")
	http.Redirect(w, r, "/", http.StatusFound)
}

// RequireAdminPage renders the 401 page unless the session may change notes.
func (h *Handler) RequireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.Sessions.Capability(r).Require(); err != nil {
			h.renderError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdminJSON answers 401 with a JSON error unless the session may
// change notes.
func (h *Handler) RequireAdminJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.Sessions.Capability(r).Require(); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
