package handlers

import (
	"net/http"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/service"
	"flashcard_study/internal/webutil"
)

type FeedbackHandler struct {
	service service.FeedbackService
}

func NewFeedbackHandler(s service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: s}
}

func (h *FeedbackHandler) PostFeedback(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.SubmitFeedbackRequest
	if err := webutil.DecodeJSONBody(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	entry, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, entry)
}

func (h *FeedbackHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		webutil.HandleError(w, middleware.GetLogger(r.Context()), err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, entries)
}
