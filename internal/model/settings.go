// internal/model/settings.go
package model

import "encoding/json"

// Settings is the persisted user configuration. Field tags mirror the
// document stored under the settings key so old exports stay readable.
type Settings struct {
	Theme         string                `json:"theme" validate:"oneof=light dark auto"`
	StudyMode     StudyModeSettings     `json:"studyMode"`
	Notifications NotificationSettings  `json:"notifications"`
	Data          DataSettings          `json:"data"`
	Accessibility AccessibilitySettings `json:"accessibility"`
}

type StudyModeSettings struct {
	TimerEnabled          bool `json:"timerEnabled"`
	TimerDuration         int  `json:"timerDuration" validate:"min=1,max=60"` // minutes
	ShuffleCards          bool `json:"shuffleCards"`
	ShowDifficultyButtons bool `json:"showDifficultyButtons"`
	AutoAdvance           bool `json:"autoAdvance"`
}

type NotificationSettings struct {
	StudyReminders    bool `json:"studyReminders"`
	AchievementAlerts bool `json:"achievementAlerts"`
	SoundEnabled      bool `json:"soundEnabled"`
	VibrationEnabled  bool `json:"vibrationEnabled"`
}

type DataSettings struct {
	AutoSave        bool   `json:"autoSave"`
	ExportFormat    string `json:"exportFormat" validate:"oneof=json csv"`
	BackupFrequency string `json:"backupFrequency" validate:"oneof=daily weekly monthly never"`
}

type AccessibilitySettings struct {
	FontSize      string `json:"fontSize" validate:"oneof=small medium large"`
	HighContrast  bool   `json:"highContrast"`
	ReducedMotion bool   `json:"reducedMotion"`
	ScreenReader  bool   `json:"screenReader"`
}

// Setting sections addressable through a single field update.
const (
	SectionTheme         = "theme"
	SectionStudyMode     = "studyMode"
	SectionNotifications = "notifications"
	SectionData          = "data"
	SectionAccessibility = "accessibility"
)

// DefaultSettings returns the first-run configuration.
func DefaultSettings() Settings {
	return Settings{
		Theme: "light",
		StudyMode: StudyModeSettings{
			TimerEnabled:          false,
			TimerDuration:         15,
			ShuffleCards:          false,
			ShowDifficultyButtons: true,
			AutoAdvance:           false,
		},
		Notifications: NotificationSettings{
			StudyReminders:    true,
			AchievementAlerts: true,
			SoundEnabled:      true,
			VibrationEnabled:  false,
		},
		Data: DataSettings{
			AutoSave:        true,
			ExportFormat:    "json",
			BackupFrequency: "weekly",
		},
		Accessibility: AccessibilitySettings{
			FontSize:      "medium",
			HighContrast:  false,
			ReducedMotion: false,
			ScreenReader:  false,
		},
	}
}

// UpdateSettingRequest carries the new value of a single setting.
type UpdateSettingRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}
