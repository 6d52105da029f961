// internal/config/config.go
package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | postgres | redis | memory
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type AppConfig struct {
	DeckPath         string        `mapstructure:"deck_path"`
	SimulatedLatency time.Duration `mapstructure:"simulated_latency"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	App      AppConfig      `mapstructure:"app"`
}

// LoadConfig reads config.yaml from path (or the working directory) and
// overlays APP_* environment variables, e.g. APP_STORAGE_DRIVER. A .env file
// next to the config is loaded first; variables already set are kept. A
// missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	loadDotEnv(path)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("storage.driver", DefaultStorageDriver)
	v.SetDefault("database.url", DefaultDatabaseURL)
	v.SetDefault("redis.url", DefaultRedisURL)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type", "X-Request-Id"})
	v.SetDefault("cors.exposed_headers", []string{"Content-Disposition"})
	v.SetDefault("cors.max_age", 300)
	v.SetDefault("app.simulated_latency", "0s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("Error reading config file", slog.Any("error", err))
			return nil, err
		}
		slog.Warn("Config file not found. Using defaults and environment variables.")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("Error unmarshalling config", slog.Any("error", err))
		return nil, err
	}
	cfg.applyDefaults()

	slog.Info("Config loaded",
		slog.String("port", cfg.Server.Port),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("log_level", cfg.Log.Level),
		slog.Duration("simulated_latency", cfg.App.SimulatedLatency),
	)
	return &cfg, nil
}

func loadDotEnv(path string) {
	for _, p := range []string{filepath.Join(path, ".env"), ".env"} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("Failed to load .env file", slog.String("path", p), slog.Any("error", err))
			continue
		}
		slog.Info(".env file loaded", slog.String("path", p))
		return
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultServerPort
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultStorageDriver
	}
	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	if c.Database.URL == "" && c.Storage.Driver == DefaultStorageDriver {
		c.Database.URL = DefaultDatabaseURL
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.App.SimulatedLatency < 0 {
		c.App.SimulatedLatency = 0
	}
}

// SlogLevel maps the configured level name to a slog.Level. Unknown names
// fall back to info.
func (c LogConfig) SlogLevel() (slog.Level, bool) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
