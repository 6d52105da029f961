// Package study implements a single pass through a fixed sequence of
// flashcards as a pure state machine.
//
// A State is only ever changed through Reduce, which never reads the clock
// and never touches storage; every time dependent decision uses the time
// carried on the Action. This keeps the whole session lifecycle testable
// without any rendering or persistence harness.
package study

import (
	"maps"
	"slices"
	"time"

	"flashcard_study/internal/model"
)

// Status of a session. Completed is terminal until Reset.
type Status int

const (
	Active Status = iota
	Completed
)

func (s Status) String() string {
	if s == Completed {
		return "completed"
	}
	return "active"
}

// State is an immutable snapshot of a session. Reduce returns a new State
// and leaves its argument untouched.
type State struct {
	Cards          []model.Flashcard
	Cursor         int
	Ratings        map[string]model.Difficulty // card id -> last rating; the key set is the studied set
	CorrectCount   int
	IncorrectCount int
	StartedAt      time.Time
	TimeLimit      time.Duration // zero disables timer mode
	Status         Status
	CompletedAt    time.Time
	Summary        *model.Progress
}

// New starts an Active session over cards. The order of cards is fixed for
// the lifetime of the session.
func New(cards []model.Flashcard, startedAt time.Time, timeLimit time.Duration) (State, error) {
	if len(cards) == 0 {
		return State{}, model.ErrEmptyDeck
	}
	if timeLimit < 0 {
		timeLimit = 0
	}
	return State{
		Cards:     slices.Clone(cards),
		Ratings:   map[string]model.Difficulty{},
		StartedAt: startedAt,
		TimeLimit: timeLimit,
		Status:    Active,
	}, nil
}

// Current returns the card under the cursor.
func (s State) Current() (model.Flashcard, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Cards) {
		return model.Flashcard{}, false
	}
	return s.Cards[s.Cursor], true
}

// Studied returns the number of distinct cards rated so far.
func (s State) Studied() int {
	return len(s.Ratings)
}

// IsLast reports whether the cursor is on the final card.
func (s State) IsLast() bool {
	return s.Cursor == len(s.Cards)-1
}

// Deadline returns the instant the timer runs out, if timer mode is on.
func (s State) Deadline() (time.Time, bool) {
	if s.TimeLimit <= 0 {
		return time.Time{}, false
	}
	return s.StartedAt.Add(s.TimeLimit), true
}

func (s State) clone() State {
	next := s
	next.Ratings = maps.Clone(s.Ratings)
	if next.Ratings == nil {
		next.Ratings = map[string]model.Difficulty{}
	}
	return next
}

func (s State) complete(at time.Time) State {
	s.Status = Completed
	s.CompletedAt = at
	summary := Summarize(s, at)
	s.Summary = &summary
	return s
}
