package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/repository"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// testClock is a settable clock shared by a service under test.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *testClock { return &testClock{now: t0} }

func testCtx() context.Context {
	return middleware.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testDeck(n int, categories ...string) []model.Flashcard {
	if len(categories) == 0 {
		categories = []string{"General"}
	}
	cards := make([]model.Flashcard, n)
	for i := range cards {
		cards[i] = model.Flashcard{
			ID:         fmt.Sprintf("card-%d", i+1),
			Question:   fmt.Sprintf("question %d", i+1),
			Answer:     fmt.Sprintf("answer %d", i+1),
			Category:   categories[i%len(categories)],
			Difficulty: model.DifficultyMedium,
			CreatedAt:  t0,
			UpdatedAt:  t0,
		}
	}
	return cards
}

type testEnv struct {
	kv       *repository.MemoryKVStore
	clock    *testClock
	cards    repository.CardStore
	settings SettingsService
	auth     AuthService
	feedback FeedbackService
	backup   BackupService
	study    *studyService
}

func newTestEnv(t *testing.T, cards []model.Flashcard) *testEnv {
	t.Helper()
	kv := repository.NewMemoryKVStore()
	clock := newClock()
	store := repository.NewCardStore(cards)
	userRepo := repository.NewUserRepository(kv)
	feedbackRepo := repository.NewFeedbackRepository(kv)
	settings := NewSettingsService(repository.NewSettingsRepository(kv))

	return &testEnv{
		kv:       kv,
		clock:    clock,
		cards:    store,
		settings: settings,
		auth:     NewAuthService(userRepo, 0, clock.Now),
		feedback: NewFeedbackService(feedbackRepo, 0, clock.Now),
		backup:   NewBackupService(store, userRepo, feedbackRepo, settings, clock.Now),
		study:    NewStudyService(store, settings, clock.Now).(*studyService),
	}
}
