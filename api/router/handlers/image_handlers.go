package handlers

import (
	"errors"
	"net/http"

	"learnbase/logger"
	"learnbase/models"
)

const maxUploadBytes = 32 << 20

// UploadImageHandler stores one image from the multipart field "file" and
// answers with its absolute URL.
// @Summary Upload an image for embedding in a note
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /notes/upload_image [post]
func (h *Handler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Info("UploadImageHandler: Error parsing multipart form: %v", err)
		writeJSONError(w, http.StatusBadRequest, "No file part in the request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			// A part with an empty filename is parsed as a plain value.
			if _, ok := r.MultipartForm.Value["file"]; ok {
				writeJSONError(w, http.StatusBadRequest, "No selected file")
				return
			}
		}
		writeJSONError(w, http.StatusBadRequest, "No file part in the request")
		return
	}
	defer file.Close()

	result, err := h.Ingestor.Ingest(file, header.Filename)
	if err != nil {
		if errors.Is(err, models.ErrIngestion) {
			logger.Error("UploadImageHandler: Error storing '%s': %v", header.Filename, err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to save file: "+err.Error())
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.UploadResponse{Location: h.absoluteURL(r, result.URL)})
}
