package service

import (
	"encoding/json"
	"errors"
	"testing"

	"flashcard_study/internal/model"
	"flashcard_study/internal/repository"
	"flashcard_study/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_LoadFirstRun(t *testing.T) {
	ctx := testCtx()
	svc := NewSettingsService(repository.NewSettingsRepository(repository.NewMemoryKVStore()))

	got, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), got)
}

func TestSettingsService_LoadMergesSections(t *testing.T) {
	ctx := testCtx()
	kv := repository.NewMemoryKVStore()
	stored := `{"theme":"dark","studyMode":{"timerEnabled":true},"accessibility":null,"legacy":{"x":1}}`
	require.NoError(t, kv.Set(ctx, repository.KeySettings, []byte(stored)))

	got, err := NewSettingsService(repository.NewSettingsRepository(kv)).Load(ctx)
	require.NoError(t, err)

	want := model.DefaultSettings()
	want.Theme = "dark"
	want.StudyMode.TimerEnabled = true
	assert.Equal(t, want, got, "missing fields inside a present section keep their defaults")
}

func TestSettingsService_LoadFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"not json", `{"theme":`},
		{"wrong type", `{"studyMode":{"timerDuration":"long"}}`},
		{"out of range", `{"theme":"neon"}`},
		{"array", `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testCtx()
			kv := repository.NewMemoryKVStore()
			require.NoError(t, kv.Set(ctx, repository.KeySettings, []byte(tt.stored)))

			got, err := NewSettingsService(repository.NewSettingsRepository(kv)).Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, model.DefaultSettings(), got)
		})
	}
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		section string
		key     string
		value   string
		check   func(t *testing.T, s model.Settings)
		wantErr bool
	}{
		{"theme", "theme", "theme", `"dark"`, func(t *testing.T, s model.Settings) { assert.Equal(t, "dark", s.Theme) }, false},
		{"timer duration", "studyMode", "timerDuration", `30`, func(t *testing.T, s model.Settings) { assert.Equal(t, 30, s.StudyMode.TimerDuration) }, false},
		{"shuffle", "studyMode", "shuffleCards", `true`, func(t *testing.T, s model.Settings) { assert.True(t, s.StudyMode.ShuffleCards) }, false},
		{"font size", "accessibility", "fontSize", `"large"`, func(t *testing.T, s model.Settings) { assert.Equal(t, "large", s.Accessibility.FontSize) }, false},
		{"backup frequency", "data", "backupFrequency", `"never"`, func(t *testing.T, s model.Settings) { assert.Equal(t, "never", s.Data.BackupFrequency) }, false},
		{"vibration", "notifications", "vibrationEnabled", `true`, func(t *testing.T, s model.Settings) { assert.True(t, s.Notifications.VibrationEnabled) }, false},
		{"unknown theme", "theme", "theme", `"neon"`, nil, true},
		{"theme needs theme key", "theme", "color", `"dark"`, nil, true},
		{"timer too long", "studyMode", "timerDuration", `61`, nil, true},
		{"timer zero", "studyMode", "timerDuration", `0`, nil, true},
		{"wrong type", "studyMode", "shuffleCards", `"yes"`, nil, true},
		{"unknown key", "studyMode", "turbo", `true`, nil, true},
		{"key in upper case", "studyMode", "TIMERENABLED", `true`, nil, true},
		{"key in lower case", "studyMode", "timerenabled", `true`, nil, true},
		{"theme key case", "theme", "Theme", `"dark"`, nil, true},
		{"unknown section", "network", "proxy", `"x"`, nil, true},
		{"null", "data", "autoSave", `null`, nil, true},
		{"export format", "data", "exportFormat", `"xml"`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testCtx()
			kv := repository.NewMemoryKVStore()
			svc := NewSettingsService(repository.NewSettingsRepository(kv))
			_, err := svc.Load(ctx)
			require.NoError(t, err)

			got, err := svc.Set(ctx, tt.section, tt.key, json.RawMessage(tt.value))
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				assert.Equal(t, model.DefaultSettings(), svc.Get(ctx))
				_, getErr := kv.Get(ctx, repository.KeySettings)
				assert.ErrorIs(t, getErr, model.ErrNotFound, "nothing is persisted on a rejected update")
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
			tt.check(t, svc.Get(ctx))
		})
	}
}

func TestSettingsService_SetKeyMustMatchExactly(t *testing.T) {
	ctx := testCtx()
	svc := NewSettingsService(repository.NewSettingsRepository(repository.NewMemoryKVStore()))

	for _, key := range []string{"TIMERENABLED", "TimerEnabled", "timerenabled"} {
		_, err := svc.Set(ctx, model.SectionStudyMode, key, json.RawMessage(`true`))
		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr, key)
		assert.Equal(t, "UNKNOWN_SETTING", appErr.Code, key)
	}
	assert.False(t, svc.Get(ctx).StudyMode.TimerEnabled)
}

func TestSettingsService_SetPersistsAcrossInstances(t *testing.T) {
	ctx := testCtx()
	kv := repository.NewMemoryKVStore()

	first := NewSettingsService(repository.NewSettingsRepository(kv))
	_, err := first.Set(ctx, model.SectionStudyMode, "timerEnabled", json.RawMessage(`true`))
	require.NoError(t, err)
	_, err = first.Set(ctx, model.SectionTheme, "theme", json.RawMessage(`"auto"`))
	require.NoError(t, err)

	got, err := NewSettingsService(repository.NewSettingsRepository(kv)).Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.StudyMode.TimerEnabled)
	assert.Equal(t, "auto", got.Theme)
	assert.Equal(t, 15, got.StudyMode.TimerDuration)
}

func TestSettingsService_Reset(t *testing.T) {
	ctx := testCtx()
	kv := repository.NewMemoryKVStore()
	svc := NewSettingsService(repository.NewSettingsRepository(kv))

	_, err := svc.Set(ctx, model.SectionTheme, "theme", json.RawMessage(`"dark"`))
	require.NoError(t, err)

	got, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), got)

	reloaded, err := NewSettingsService(repository.NewSettingsRepository(kv)).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), reloaded)
}

func TestSettingsService_SaveFailureKeepsState(t *testing.T) {
	ctx := testCtx()
	kv := mocks.NewKVStore(t)
	kv.On("Get", mock.Anything, repository.KeySettings).Return(nil, model.ErrNotFound).Once()
	kv.On("Set", mock.Anything, repository.KeySettings, mock.Anything).Return(errors.New("read-only")).Once()

	svc := NewSettingsService(repository.NewSettingsRepository(kv))
	_, err := svc.Set(ctx, model.SectionTheme, "theme", json.RawMessage(`"dark"`))

	require.Error(t, err)
	assert.Equal(t, "light", svc.Get(ctx).Theme)
}

func TestMergeSettings(t *testing.T) {
	base := model.DefaultSettings()
	base.Theme = "dark"

	got, err := MergeSettings(base, []byte(`{"data":{"exportFormat":"csv"}}`))
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, "csv", got.Data.ExportFormat)
	assert.Equal(t, "weekly", got.Data.BackupFrequency)

	_, err = MergeSettings(base, []byte(`"light"`))
	assert.Error(t, err)
}
