package repository

import (
	"slices"

	"flashcard_study/internal/model"
)

// CardStore is the read-only, ordered set of flashcards supplied at startup.
type CardStore interface {
	List() []model.Flashcard
	ListByCategory(category string) []model.Flashcard
	FindByID(id string) (model.Flashcard, error)
	Categories() []string
}

type memoryCardStore struct {
	cards []model.Flashcard
	byID  map[string]int
}

func NewCardStore(cards []model.Flashcard) CardStore {
	s := &memoryCardStore{
		cards: slices.Clone(cards),
		byID:  make(map[string]int, len(cards)),
	}
	for i, c := range s.cards {
		s.byID[c.ID] = i
	}
	return s
}

func (s *memoryCardStore) List() []model.Flashcard {
	return slices.Clone(s.cards)
}

// ListByCategory returns all cards when category is empty.
func (s *memoryCardStore) ListByCategory(category string) []model.Flashcard {
	if category == "" {
		return s.List()
	}
	out := make([]model.Flashcard, 0)
	for _, c := range s.cards {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

func (s *memoryCardStore) FindByID(id string) (model.Flashcard, error) {
	i, ok := s.byID[id]
	if !ok {
		return model.Flashcard{}, model.ErrNotFound
	}
	return s.cards[i], nil
}

// Categories lists distinct categories in first-seen order.
func (s *memoryCardStore) Categories() []string {
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, c := range s.cards {
		if !seen[c.Category] {
			seen[c.Category] = true
			out = append(out, c.Category)
		}
	}
	return out
}
