package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flashcard_study/internal/config"
	"flashcard_study/internal/handlers"
	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/repository"
	"flashcard_study/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// httpRequestDetails describes one request to the test server.
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    any // string bodies are sent verbatim
	Headers map[string]string
}

func testConfig() *config.Config {
	return &config.Config{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Disposition"},
		},
	}
}

func testCards() []model.Flashcard {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	categories := []string{"Go", "Go", "SQL"}
	cards := make([]model.Flashcard, len(categories))
	for i, c := range categories {
		cards[i] = model.Flashcard{
			ID:         fmt.Sprintf("card-%d", i+1),
			Question:   fmt.Sprintf("question %d", i+1),
			Answer:     fmt.Sprintf("answer %d", i+1),
			Category:   c,
			Difficulty: model.DifficultyEasy,
			CreatedAt:  at,
			UpdatedAt:  at,
		}
	}
	return cards
}

type testServer struct {
	*httptest.Server
	kv *repository.MemoryKVStore
}

// newTestServer builds the full router over an in-memory store seeded
// with the demo users.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := middleware.WithLogger(context.Background(), logger)

	kv := repository.NewMemoryKVStore()
	cards := repository.NewCardStore(testCards())
	userRepo := repository.NewUserRepository(kv)
	feedbackRepo := repository.NewFeedbackRepository(kv)

	settings := service.NewSettingsService(repository.NewSettingsRepository(kv))
	_, err := settings.Load(ctx)
	require.NoError(t, err)
	auth := service.NewAuthService(userRepo, 0, nil)
	require.NoError(t, auth.EnsureDemoUsers(ctx))

	router := handlers.NewRouter(testConfig(), logger, handlers.Dependencies{
		KV:       kv,
		Cards:    cards,
		Study:    service.NewStudyService(cards, settings, nil),
		Settings: settings,
		Backup:   service.NewBackupService(cards, userRepo, feedbackRepo, settings, nil),
		Auth:     auth,
		Feedback: service.NewFeedbackService(feedbackRepo, 0, nil),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, kv: kv}
}

// sendRequest sends the request, asserts the status code and returns the
// response with its body read.
func sendRequest(t *testing.T, server *testServer, details httpRequestDetails, expectedCode int) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if details.Body != nil {
		if s, ok := details.Body.(string); ok {
			reqBody = strings.NewReader(s)
		} else {
			b, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBody = bytes.NewReader(b)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBody)
	require.NoError(t, err, "Failed to create request")
	if details.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range details.Headers {
		req.Header.Set(k, v)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	assert.Equal(t, expectedCode, resp.StatusCode, "Status code mismatch, body: %s", body)
	return resp, body
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}

// verifyErrorResponse checks the error envelope and its code.
func verifyErrorResponse(t *testing.T, body []byte, wantCode string) model.ErrorDetail {
	t.Helper()
	resp := decode[model.APIErrorResponse](t, body)
	assert.Equal(t, wantCode, resp.Error.Code, "error body: %s", body)
	assert.NotEmpty(t, resp.Error.Message)
	return resp.Error
}
