// internal/model/session.go
package model

import "time"

// Progress is the summary produced when a study session completes.
type Progress struct {
	TotalCards       int     `json:"totalCards"`
	StudiedCards     int     `json:"studiedCards"`
	CorrectAnswers   int     `json:"correctAnswers"`
	IncorrectAnswers int     `json:"incorrectAnswers"`
	Accuracy         float64 `json:"accuracy"`
	TimeSpent        int     `json:"timeSpent"` // seconds
}

// StudyStats are running figures for a session, active or completed.
type StudyStats struct {
	SessionTime    int     `json:"sessionTime"` // seconds
	CardsPerMinute float64 `json:"cardsPerMinute"`
	Accuracy       float64 `json:"accuracy"`
	Streak         int     `json:"streak"`
}

// StartSessionRequest starts a session, optionally restricted to one category.
type StartSessionRequest struct {
	Category string `json:"category,omitempty" validate:"omitempty,max=100"`
}

// RateCardRequest rates the card under the cursor.
type RateCardRequest struct {
	Difficulty Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

// SessionResponse is the client view of a study session.
type SessionResponse struct {
	SessionID      string     `json:"sessionId"`
	Status         string     `json:"status"`
	CurrentIndex   int        `json:"currentIndex"`
	TotalCards     int        `json:"totalCards"`
	CurrentCard    *Flashcard `json:"currentCard,omitempty"`
	StudiedCards   int        `json:"studiedCards"`
	CorrectCount   int        `json:"correctAnswers"`
	IncorrectCount int        `json:"incorrectAnswers"`
	StartedAt      time.Time  `json:"startTime"`
	TimerMode      bool       `json:"isTimerMode"`
	TimeLimit      int        `json:"timeLimit,omitempty"` // seconds
	Stats          StudyStats `json:"stats"`
	Summary        *Progress  `json:"summary,omitempty"`
}
