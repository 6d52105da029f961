// internal/model/feedback.go
package model

import "time"

// Feedback categories offered by the feedback form.
const (
	FeedbackGeneral     = "general"
	FeedbackBug         = "bug"
	FeedbackFeature     = "feature"
	FeedbackUI          = "ui"
	FeedbackPerformance = "performance"
	FeedbackContent     = "content"
)

// FeedbackEntry is one submitted piece of feedback. Entries are append only.
// The tags are checked when entries come in through a backup import.
type FeedbackEntry struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required,max=100"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Category  string    `json:"category" validate:"required,oneof=general bug feature ui performance content"`
	Comment   string    `json:"comment" validate:"required,max=5000"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmitFeedbackRequest is the body of the feedback form.
type SubmitFeedbackRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Category string `json:"category" validate:"required,oneof=general bug feature ui performance content"`
	Comment  string `json:"comment" validate:"required,max=5000"`
}
