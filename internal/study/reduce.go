package study

import (
	"fmt"
	"time"

	"flashcard_study/internal/model"
)

// ActionType names a user intent dispatched into a session.
type ActionType string

const (
	ActionRate    ActionType = "rate"
	ActionAdvance ActionType = "advance"
	ActionRetreat ActionType = "retreat"
	ActionReset   ActionType = "reset"
	ActionExpire  ActionType = "expire"
)

// Action is one transition request. At is the time the intent happened.
type Action struct {
	Type       ActionType
	Difficulty model.Difficulty
	At         time.Time
}

// Rate grades the current card with d.
func Rate(d model.Difficulty, at time.Time) Action {
	return Action{Type: ActionRate, Difficulty: d, At: at}
}

// Advance moves to the next card, completing the session on the last one.
func Advance(at time.Time) Action { return Action{Type: ActionAdvance, At: at} }

// Retreat moves back one card. It does nothing on the first card.
func Retreat(at time.Time) Action { return Action{Type: ActionRetreat, At: at} }

// Reset restarts the session over the same cards.
func Reset(at time.Time) Action { return Action{Type: ActionReset, At: at} }

// Expire completes the session once its time limit has run out.
func Expire(at time.Time) Action { return Action{Type: ActionExpire, At: at} }

// Reduce applies a to s and returns the resulting state.
//
// Every action except Reset fails with model.ErrSessionCompleted on a
// completed session. On error the returned state equals s.
func Reduce(s State, a Action) (State, error) {
	if len(s.Cards) == 0 {
		return s, model.ErrEmptyDeck
	}
	if a.Type == ActionReset {
		return reset(s, a.At), nil
	}
	if s.Status == Completed {
		return s, model.ErrSessionCompleted
	}

	switch a.Type {
	case ActionRate:
		return rate(s, a)
	case ActionAdvance:
		return advance(s, a.At), nil
	case ActionRetreat:
		return retreat(s), nil
	case ActionExpire:
		return expire(s, a.At), nil
	default:
		return s, fmt.Errorf("study: unknown action %q: %w", a.Type, model.ErrInvalidInput)
	}
}

func rate(s State, a Action) (State, error) {
	if !a.Difficulty.Valid() {
		return s, fmt.Errorf("study: rating %q: %w", a.Difficulty, model.ErrInvalidDifficulty)
	}
	card, ok := s.Current()
	if !ok {
		return s, model.ErrNotFound
	}

	next := s.clone()
	// A card rated again after moving back replaces its earlier rating so
	// that the counters always add up to the studied set.
	if prev, seen := next.Ratings[card.ID]; seen {
		if prev.IsCorrect() {
			next.CorrectCount--
		} else {
			next.IncorrectCount--
		}
	}
	next.Ratings[card.ID] = a.Difficulty
	if a.Difficulty.IsCorrect() {
		next.CorrectCount++
	} else {
		next.IncorrectCount++
	}

	if next.IsLast() {
		return next.complete(a.At), nil
	}
	next.Cursor++
	return next, nil
}

// advance ends the session early when already on the last card; cards that
// were never rated simply do not count.
func advance(s State, at time.Time) State {
	if s.IsLast() {
		return s.clone().complete(at)
	}
	next := s.clone()
	next.Cursor++
	return next
}

func retreat(s State) State {
	if s.Cursor == 0 {
		return s
	}
	next := s.clone()
	next.Cursor--
	return next
}

func expire(s State, at time.Time) State {
	deadline, ok := s.Deadline()
	if !ok || at.Before(deadline) {
		return s
	}
	return s.clone().complete(at)
}

func reset(s State, at time.Time) State {
	return State{
		Cards:     s.Cards,
		Ratings:   map[string]model.Difficulty{},
		StartedAt: at,
		TimeLimit: s.TimeLimit,
		Status:    Active,
	}
}
