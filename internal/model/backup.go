// internal/model/backup.go
package model

import (
	"encoding/json"
	"time"
)

// ExportDocument is the single JSON document produced by an export.
type ExportDocument struct {
	Flashcards []Flashcard     `json:"flashcards"`
	Users      []User          `json:"users"`
	Feedback   []FeedbackEntry `json:"feedback"`
	Settings   Settings        `json:"settings"`
	ExportDate time.Time       `json:"exportDate"`
}

// ImportDocument is what an import accepts. Absent keys leave the
// corresponding store untouched, so each part is kept raw until applied.
type ImportDocument struct {
	Flashcards json.RawMessage `json:"flashcards,omitempty"`
	Users      json.RawMessage `json:"users,omitempty"`
	Feedback   json.RawMessage `json:"feedback,omitempty"`
	Settings   json.RawMessage `json:"settings,omitempty"`
	ExportDate *time.Time      `json:"exportDate,omitempty"`
}

// ImportResult reports which stores an import replaced.
type ImportResult struct {
	UsersImported     int  `json:"usersImported"`
	FeedbackImported  int  `json:"feedbackImported"`
	SettingsMerged    bool `json:"settingsMerged"`
	FlashcardsIgnored int  `json:"flashcardsIgnored"`
}
