package handlers

import (
	"net/http"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/service"
	"flashcard_study/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithJSON(w, http.StatusOK, h.service.Get(r.Context()))
}

// PatchSetting updates one field, addressed as /settings/{section}/{key}.
func (h *SettingsHandler) PatchSetting(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.UpdateSettingRequest
	if err := webutil.DecodeJSONBody(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	settings, err := h.service.Set(r.Context(), chi.URLParam(r, "section"), chi.URLParam(r, "key"), req.Value)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) PostReset(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Reset(r.Context())
	if err != nil {
		webutil.HandleError(w, middleware.GetLogger(r.Context()), err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, settings)
}
