package repository

import (
	"testing"

	"flashcard_study/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardStore(t *testing.T) {
	cards := []model.Flashcard{
		{ID: "1", Question: "q1", Answer: "a1", Category: "Go", Difficulty: model.DifficultyEasy},
		{ID: "2", Question: "q2", Answer: "a2", Category: "SQL", Difficulty: model.DifficultyHard},
		{ID: "3", Question: "q3", Answer: "a3", Category: "Go", Difficulty: model.DifficultyMedium},
	}
	store := NewCardStore(cards)

	cards[0].Question = "mutated"
	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, "q1", list[0].Question, "store keeps its own copy")

	list[1].Answer = "mutated"
	assert.Equal(t, "a2", store.List()[1].Answer)

	c, err := store.FindByID("3")
	require.NoError(t, err)
	assert.Equal(t, "q3", c.Question)

	_, err = store.FindByID("42")
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.Equal(t, []string{"Go", "SQL"}, store.Categories())

	goCards := store.ListByCategory("Go")
	require.Len(t, goCards, 2)
	assert.Equal(t, "1", goCards[0].ID)
	assert.Equal(t, "3", goCards[1].ID)
	assert.Len(t, store.ListByCategory(""), 3)
	assert.Empty(t, store.ListByCategory("Rust"))
}
