package handlers

import (
	"errors"
	"net/http"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/repository"
	"flashcard_study/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type FlashcardHandler struct {
	cards repository.CardStore
}

func NewFlashcardHandler(cards repository.CardStore) *FlashcardHandler {
	return &FlashcardHandler{cards: cards}
}

// GetFlashcards lists the deck, optionally filtered by ?category=.
func (h *FlashcardHandler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithJSON(w, http.StatusOK, h.cards.ListByCategory(r.URL.Query().Get("category")))
}

func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "card_id")
	card, err := h.cards.FindByID(id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			err = model.NewAppError("FLASHCARD_NOT_FOUND", "Flashcard not found.", "card_id", err)
		}
		webutil.HandleError(w, middleware.GetLogger(r.Context()).With("card_id", id), err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, card)
}

func (h *FlashcardHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithJSON(w, http.StatusOK, h.cards.Categories())
}
