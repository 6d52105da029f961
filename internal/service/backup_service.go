package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/repository"
	"flashcard_study/internal/webutil"
)

// BackupService exports and imports every persisted store as one JSON
// document.
type BackupService interface {
	Export(ctx context.Context) (*model.ExportDocument, error)
	Import(ctx context.Context, raw []byte) (*model.ImportResult, error)
	ClearData(ctx context.Context) error
}

type backupService struct {
	cards    repository.CardStore
	users    repository.UserRepository
	feedback repository.FeedbackRepository
	settings SettingsService
	now      func() time.Time
}

func NewBackupService(
	cards repository.CardStore,
	users repository.UserRepository,
	feedback repository.FeedbackRepository,
	settings SettingsService,
	now func() time.Time,
) BackupService {
	if now == nil {
		now = time.Now
	}
	return &backupService{cards: cards, users: users, feedback: feedback, settings: settings, now: now}
}

// BackupFilename is the suggested download name for an export taken at t.
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("flashcard-backup-%s.json", t.Format(time.DateOnly))
}

// Export never fails on a malformed store; that store is exported empty.
func (s *backupService) Export(ctx context.Context) (*model.ExportDocument, error) {
	logger := middleware.GetLogger(ctx)

	users, err := s.users.List(ctx)
	if errors.Is(err, repository.ErrMalformed) {
		logger.Warn("Users document is malformed, exporting none", "error", err)
		users, err = []model.User{}, nil
	}
	if err != nil {
		logger.Error("Failed to read users for export", "error", err)
		return nil, err
	}

	feedback, err := s.feedback.List(ctx)
	if errors.Is(err, repository.ErrMalformed) {
		logger.Warn("Feedback document is malformed, exporting none", "error", err)
		feedback, err = []model.FeedbackEntry{}, nil
	}
	if err != nil {
		logger.Error("Failed to read feedback for export", "error", err)
		return nil, err
	}

	doc := &model.ExportDocument{
		Flashcards: s.cards.List(),
		Users:      users,
		Feedback:   feedback,
		Settings:   s.settings.Get(ctx),
		ExportDate: s.now().UTC(),
	}
	logger.Info("Data exported", "users", len(users), "feedback", len(feedback), "flashcards", len(doc.Flashcards))
	return doc, nil
}

// Import checks the whole document before writing anything. Present users
// and feedback replace their stores, present settings are merged over the
// current ones. Flashcards are read-only and are skipped.
func (s *backupService) Import(ctx context.Context, raw []byte) (*model.ImportResult, error) {
	logger := middleware.GetLogger(ctx)

	var doc model.ImportDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn("Rejected import: not a backup document", "error", err)
		return nil, invalidBackup("", "The file is not a valid backup: %v", err)
	}

	var (
		users    []model.User
		feedback []model.FeedbackEntry
		flash    []json.RawMessage
		settings model.Settings
		result   model.ImportResult
	)

	if present(doc.Users) {
		if err := json.Unmarshal(doc.Users, &users); err != nil {
			return nil, invalidBackup("users", "users must be a list of users: %v", err)
		}
		for i, u := range users {
			if strings.TrimSpace(u.Username) == "" {
				return nil, invalidBackup("users", "user %d has no username", i)
			}
			if err := webutil.ValidateStruct(u); err != nil {
				return nil, invalidBackup("users", "user %d is invalid: %v", i, err)
			}
		}
		result.UsersImported = len(users)
	}
	if present(doc.Feedback) {
		if err := json.Unmarshal(doc.Feedback, &feedback); err != nil {
			return nil, invalidBackup("feedback", "feedback must be a list of entries: %v", err)
		}
		for i, e := range feedback {
			if err := webutil.ValidateStruct(e); err != nil {
				return nil, invalidBackup("feedback", "feedback entry %d is invalid: %v", i, err)
			}
		}
		result.FeedbackImported = len(feedback)
	}
	if present(doc.Settings) {
		merged, err := MergeSettings(s.settings.Get(ctx), doc.Settings)
		if err != nil {
			return nil, invalidBackup("settings", "settings are invalid: %v", err)
		}
		if err := validateSettings(merged); err != nil {
			return nil, err
		}
		settings = merged
		result.SettingsMerged = true
	}
	if present(doc.Flashcards) {
		if err := json.Unmarshal(doc.Flashcards, &flash); err != nil {
			return nil, invalidBackup("flashcards", "flashcards must be a list: %v", err)
		}
		result.FlashcardsIgnored = len(flash)
	}

	if present(doc.Users) {
		if err := s.users.Save(ctx, users); err != nil {
			logger.Error("Failed to import users", "error", err)
			return nil, err
		}
	}
	if present(doc.Feedback) {
		if err := s.feedback.Save(ctx, feedback); err != nil {
			logger.Error("Failed to import feedback", "error", err)
			return nil, err
		}
	}
	if result.SettingsMerged {
		encoded, err := json.Marshal(settings)
		if err != nil {
			return nil, err
		}
		if _, err := s.settings.Merge(ctx, encoded); err != nil {
			logger.Error("Failed to import settings", "error", err)
			return nil, err
		}
	}
	if result.FlashcardsIgnored > 0 {
		logger.Info("Imported flashcards ignored, the deck is read-only", "count", result.FlashcardsIgnored)
	}

	logger.Info("Data imported",
		"users", result.UsersImported,
		"feedback", result.FeedbackImported,
		"settings_merged", result.SettingsMerged,
		"export_date", doc.ExportDate,
	)
	return &result, nil
}

// ClearData removes users, feedback and the login session. Settings stay.
func (s *backupService) ClearData(ctx context.Context) error {
	logger := middleware.GetLogger(ctx)
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"feedback", s.feedback.Clear},
		{"users", s.users.Clear},
		{"current user", s.users.ClearCurrent},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			logger.Error("Failed to clear data", "store", step.name, "error", err)
			return err
		}
	}
	logger.Info("All local data cleared")
	return nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !isNull(raw)
}

func invalidBackup(field, format string, args ...any) error {
	return model.NewAppError("INVALID_BACKUP", fmt.Sprintf(format, args...), field, model.ErrInvalidInput)
}
