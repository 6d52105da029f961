package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/repository"
	"flashcard_study/internal/webutil"
)

// SettingsService keeps the merged settings in memory and persists the
// whole document on every change.
type SettingsService interface {
	Load(ctx context.Context) (model.Settings, error)
	Get(ctx context.Context) model.Settings
	Set(ctx context.Context, section, key string, value json.RawMessage) (model.Settings, error)
	Merge(ctx context.Context, raw json.RawMessage) (model.Settings, error)
	Reset(ctx context.Context) (model.Settings, error)
}

type settingsService struct {
	repo repository.SettingsRepository

	mu      sync.RWMutex
	current model.Settings
	loaded  bool
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo, current: model.DefaultSettings()}
}

// Load reads the persisted document and merges it over the defaults. A
// missing or unreadable document yields the defaults.
func (s *settingsService) Load(ctx context.Context) (model.Settings, error) {
	logger := middleware.GetLogger(ctx)

	raw, err := s.repo.Load(ctx)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		logger.Error("Failed to read settings", "error", err)
		return model.Settings{}, err
	}

	settings := model.DefaultSettings()
	if err == nil {
		merged, mergeErr := MergeSettings(settings, raw)
		if mergeErr == nil {
			mergeErr = validateSettings(merged)
		}
		if mergeErr != nil {
			logger.Warn("Stored settings are unreadable, using defaults", "error", mergeErr)
		} else {
			settings = merged
		}
	}

	s.mu.Lock()
	s.current = settings
	s.loaded = true
	s.mu.Unlock()
	return settings, nil
}

func (s *settingsService) Get(ctx context.Context) model.Settings {
	s.mu.RLock()
	loaded := s.loaded
	current := s.current
	s.mu.RUnlock()
	if loaded {
		return current
	}
	settings, err := s.Load(ctx)
	if err != nil {
		return model.DefaultSettings()
	}
	return settings
}

// Set replaces a single field. value must be JSON of the field's type and
// pass the field's validation; otherwise nothing changes.
func (s *settingsService) Set(ctx context.Context, section, key string, value json.RawMessage) (model.Settings, error) {
	logger := middleware.GetLogger(ctx).With("section", section, "key", key)

	s.Get(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := setField(s.current, section, key, value)
	if err != nil {
		logger.Warn("Rejected settings update", "error", err)
		return model.Settings{}, err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		logger.Error("Failed to save settings", "error", err)
		return model.Settings{}, err
	}
	s.current = next
	logger.Info("Setting updated")
	return next, nil
}

// Merge applies a partial settings document, as found in a backup, over
// the current settings and persists the result.
func (s *settingsService) Merge(ctx context.Context, raw json.RawMessage) (model.Settings, error) {
	logger := middleware.GetLogger(ctx)

	s.Get(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := MergeSettings(s.current, raw)
	if err != nil {
		return model.Settings{}, model.NewAppError("INVALID_SETTINGS", err.Error(), "settings", model.ErrInvalidInput)
	}
	if err := validateSettings(next); err != nil {
		return model.Settings{}, err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		logger.Error("Failed to save settings", "error", err)
		return model.Settings{}, err
	}
	s.current = next
	return next, nil
}

func (s *settingsService) Reset(ctx context.Context) (model.Settings, error) {
	defaults := model.DefaultSettings()
	if err := s.repo.Save(ctx, defaults); err != nil {
		middleware.GetLogger(ctx).Error("Failed to save settings", "error", err)
		return model.Settings{}, err
	}
	s.mu.Lock()
	s.current = defaults
	s.loaded = true
	s.mu.Unlock()
	middleware.GetLogger(ctx).Info("Settings reset to defaults")
	return defaults, nil
}

// MergeSettings overlays the top level sections present in raw onto base.
// Inside a present section, fields missing from raw keep their value from
// base. A null section is ignored.
func MergeSettings(base model.Settings, raw []byte) (model.Settings, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return base, fmt.Errorf("settings document: %w", err)
	}

	out := base
	for name, part := range doc {
		if isNull(part) {
			continue
		}
		var target any
		switch name {
		case model.SectionTheme:
			target = &out.Theme
		case model.SectionStudyMode:
			target = &out.StudyMode
		case model.SectionNotifications:
			target = &out.Notifications
		case model.SectionData:
			target = &out.Data
		case model.SectionAccessibility:
			target = &out.Accessibility
		default:
			continue
		}
		if err := json.Unmarshal(part, target); err != nil {
			return base, fmt.Errorf("settings section %q: %w", name, err)
		}
	}
	return out, nil
}

func setField(current model.Settings, section, key string, value json.RawMessage) (model.Settings, error) {
	if len(bytes.TrimSpace(value)) == 0 || isNull(value) {
		return current, model.NewAppError("INVALID_SETTING_VALUE", "A value is required.", "value", model.ErrInvalidInput)
	}

	next := current
	var sectionPtr any
	switch section {
	case model.SectionTheme:
		if key != "theme" {
			return current, unknownSetting(section, key)
		}
		if err := strictUnmarshal(value, &next.Theme); err != nil {
			return current, invalidValue(section, key, err)
		}
		return next, validateSettings(next)
	case model.SectionStudyMode:
		sectionPtr = &next.StudyMode
	case model.SectionNotifications:
		sectionPtr = &next.Notifications
	case model.SectionData:
		sectionPtr = &next.Data
	case model.SectionAccessibility:
		sectionPtr = &next.Accessibility
	default:
		return current, model.NewAppError("UNKNOWN_SETTING", fmt.Sprintf("Unknown settings section %q.", section), "section", model.ErrInvalidInput)
	}

	// encoding/json matches names case-insensitively, so the key is checked
	// against the tags first.
	if !hasJSONField(sectionPtr, key) {
		return current, unknownSetting(section, key)
	}
	patch, err := json.Marshal(map[string]json.RawMessage{key: value})
	if err != nil {
		return current, invalidValue(section, key, err)
	}
	if err := strictUnmarshal(patch, sectionPtr); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return current, unknownSetting(section, key)
		}
		return current, invalidValue(section, key, err)
	}
	return next, validateSettings(next)
}

// hasJSONField reports whether the struct behind ptr has a field whose json
// name is exactly key.
func hasJSONField(ptr any, key string) bool {
	t := reflect.TypeOf(ptr).Elem()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == key {
			return true
		}
	}
	return false
}

func validateSettings(s model.Settings) error {
	return webutil.ValidateStruct(s)
}

func strictUnmarshal(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func unknownSetting(section, key string) error {
	return model.NewAppError("UNKNOWN_SETTING", fmt.Sprintf("Unknown setting %s.%s.", section, key), "key", model.ErrInvalidInput)
}

func invalidValue(section, key string, err error) error {
	return model.NewAppError("INVALID_SETTING_VALUE", fmt.Sprintf("Invalid value for %s.%s: %v", section, key, err), "value", model.ErrInvalidInput)
}
