package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flashcard_study/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", model.ErrInvalidInput), http.StatusBadRequest},
		{model.ErrInvalidDifficulty, http.StatusBadRequest},
		{model.NewAppError("INVALID_CREDENTIALS", "no", "", model.ErrInvalidCredentials), http.StatusUnauthorized},
		{model.ErrConflict, http.StatusConflict},
		{model.ErrSessionCompleted, http.StatusConflict},
		{model.ErrEmptyDeck, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Run("app error keeps its detail", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleError(rec, discardLogger(), model.NewAppError("USER_EXISTS", "Username is taken.", "username", model.ErrConflict))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"error":{"code":"USER_EXISTS","message":"Username is taken.","field":"username"}}`, rec.Body.String())
	})

	t.Run("unexpected error is masked", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleError(rec, discardLogger(), errors.New("connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
		assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	})

	t.Run("bare sentinel", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleError(rec, discardLogger(), model.ErrEmptyDeck)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "EMPTY_DECK")
	})
}

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantField string
	}{
		{"valid", `{"username":"admin","password":"password123"}`, false, ""},
		{"missing field", `{"username":"admin"}`, true, "password"},
		{"unknown field", `{"username":"admin","password":"x","role":"root"}`, true, ""},
		{"syntax error", `{"username":`, true, ""},
		{"wrong type", `{"username":1,"password":"x"}`, true, "username"},
		{"empty", ``, true, ""},
		{"trailing data", `{"username":"a","password":"b"} {}`, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst model.LoginRequest
			err := DecodeJSONBody(httptest.NewRecorder(), req, &dst)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "admin", dst.Username)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			var appErr *model.AppError
			require.ErrorAs(t, err, &appErr)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, appErr.Field)
			}
		})
	}
}

func TestValidateStruct_TranslatesMessages(t *testing.T) {
	err := ValidateStruct(model.SubmitFeedbackRequest{Name: "Ann", Rating: 9, Category: "spam", Comment: "hi", Email: "nope"})
	require.Error(t, err)

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Field, "rating")
	assert.Contains(t, appErr.Field, "category")
	assert.Contains(t, appErr.Field, "email")
	assert.Contains(t, appErr.Message, "Category must be one of")
	assert.Contains(t, appErr.Message, "Email must be a valid email address.")
}

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithJSON(rec, http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got["n"])
}
