package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/service"
	"flashcard_study/internal/webutil"
)

type BackupHandler struct {
	service service.BackupService
}

func NewBackupHandler(s service.BackupService) *BackupHandler {
	return &BackupHandler{service: s}
}

// GetBackup serves the export as a file download.
func (h *BackupHandler) GetBackup(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Export(r.Context())
	if err != nil {
		webutil.HandleError(w, middleware.GetLogger(r.Context()), err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.BackupFilename(doc.ExportDate)))
	webutil.RespondWithJSON(w, http.StatusOK, doc)
}

// PostBackup imports a previously exported document sent as the raw body.
func (h *BackupHandler) PostBackup(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, webutil.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = model.NewAppError("BODY_TOO_LARGE", "The backup file is too large.", "", model.ErrInvalidInput)
		}
		webutil.HandleError(w, logger, err)
		return
	}
	if len(raw) == 0 {
		webutil.HandleError(w, logger, model.NewAppError("EMPTY_BODY", "A backup document is required.", "", model.ErrInvalidInput))
		return
	}

	result, err := h.service.Import(r.Context(), raw)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, result)
}

func (h *BackupHandler) DeleteData(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearData(r.Context()); err != nil {
		webutil.HandleError(w, middleware.GetLogger(r.Context()), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
