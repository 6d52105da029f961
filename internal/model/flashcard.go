// internal/model/flashcard.go
package model

import "time"

// Difficulty is the rating a learner gives a card. It doubles as the
// correctness judgment: easy and medium count as correct, hard as incorrect.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known ratings.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// IsCorrect reports whether a rating is scored as a correct answer.
// "hard" is always scored as incorrect.
func (d Difficulty) IsCorrect() bool {
	return d == DifficultyEasy || d == DifficultyMedium
}

// Flashcard is a single question/answer card. Cards never change while the
// process runs.
type Flashcard struct {
	ID         string     `json:"id" yaml:"id"`
	Question   string     `json:"question" yaml:"question"`
	Answer     string     `json:"answer" yaml:"answer"`
	Category   string     `json:"category" yaml:"category"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
	CreatedAt  time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" yaml:"updatedAt"`
}
