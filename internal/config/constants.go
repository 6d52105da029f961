// internal/config/constants.go
package config

const (
	AppName    = "flashcard-study"
	AppVersion = "1.0.0"
)

const (
	DefaultServerPort    = ":8080"
	DefaultStorageDriver = "sqlite"
	DefaultDatabaseURL   = "flashcards.db"
	DefaultRedisURL      = "redis://localhost:6379/0"
	DefaultLogLevel      = "info"
)
