package handlers

import (
	"context"
	"net/http"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/service"
	"flashcard_study/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	service service.StudyService
}

func NewSessionHandler(s service.StudyService) *SessionHandler {
	return &SessionHandler{service: s}
}

// PostSession starts a session. The body is optional.
func (h *SessionHandler) PostSession(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.StartSessionRequest
	if r.ContentLength != 0 {
		if err := webutil.DecodeJSONBody(w, r, &req); err != nil {
			webutil.HandleError(w, logger, err)
			return
		}
	}

	sess, err := h.service.Start(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, sess)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Get)
}

func (h *SessionHandler) PostRate(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.RateCardRequest
	if err := webutil.DecodeJSONBody(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	sess, err := h.service.Rate(r.Context(), chi.URLParam(r, "session_id"), req.Difficulty)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, sess)
}

func (h *SessionHandler) PostNext(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Next)
}

func (h *SessionHandler) PostPrevious(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Previous)
}

func (h *SessionHandler) PostReset(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Reset)
}

func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Discard(r.Context(), chi.URLParam(r, "session_id")); err != nil {
		webutil.HandleError(w, middleware.GetLogger(r.Context()), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionCall func(ctx context.Context, id string) (*model.SessionResponse, error)

func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, call sessionCall) {
	sess, err := call(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		webutil.HandleError(w, middleware.GetLogger(r.Context()), err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, sess)
}
