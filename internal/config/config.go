// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App        AppConfig
	Logger     LoggerConfig
	Server     ServerConfig
	Books      BooksConfig
	Spotify    SpotifyConfig
	Classifier ClassifierConfig
	Genres     GenresConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	// File enables a rotated log file next to stdout output (optional).
	File           string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8000)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 60s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)

	// Per-IP request limit on the API. Zero disables limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// BooksConfig holds Google Books API configuration.
type BooksConfig struct {
	BaseURL string
	APIKey  string // Optional
	Timeout time.Duration
}

// SpotifyConfig holds Spotify Web API configuration.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	APIURL       string
	TokenURL     string
	// WebURL is the public web player used for the fallback search link.
	WebURL            string
	SearchTimeout     time.Duration
	SearchConcurrency int
}

// HasCredentials reports whether both client credentials are set.
func (c SpotifyConfig) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// ClassifierConfig holds configuration for the two genre classifiers.
type ClassifierConfig struct {
	// ModelPath is the statistical title classifier artifact (required).
	ModelPath  string
	WatchModel bool

	ZeroShotURL     string
	ZeroShotToken   string // Optional bearer token
	ZeroShotTimeout time.Duration
}

// GenresConfig holds genre table configuration.
type GenresConfig struct {
	// TablePath overrides the built-in mood and priority tables (optional).
	TablePath string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to this file as well (rotated)")
	serverPort := flag.String("port", "", "Server port (default: 8000)")
	modelPath := flag.String("model-path", "", "Path to the title classifier model")
	zeroShotURL := flag.String("zero-shot-url", "", "Zero-shot classification endpoint")
	genreTable := flag.String("genre-table", "", "Path to a YAML genre table override")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	// godotenv never overrides variables that are already set.
	_ = godotenv.Load(*envFile)

	return load(flagValues{
		env:         *env,
		logLevel:    *logLevel,
		logFile:     *logFile,
		serverPort:  *serverPort,
		modelPath:   *modelPath,
		zeroShotURL: *zeroShotURL,
		genreTable:  *genreTable,
	})
}

// flagValues carries parsed command-line flags into load.
type flagValues struct {
	env         string
	logLevel    string
	logFile     string
	serverPort  string
	modelPath   string
	zeroShotURL string
	genreTable  string
}

func load(flags flagValues) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(flags.env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:          getConfigValue(flags.logLevel, "LOG_LEVEL", "info"),
			File:           getConfigValue(flags.logFile, "LOG_FILE", ""),
			FileMaxSizeMB:  getIntConfigValue("", "LOG_FILE_MAX_SIZE_MB", 50),
			FileMaxBackups: getIntConfigValue("", "LOG_FILE_MAX_BACKUPS", 3),
			FileMaxAgeDays: getIntConfigValue("", "LOG_FILE_MAX_AGE_DAYS", 28),
		},
		Server: ServerConfig{
			Port:              getConfigValue(flags.serverPort, "SERVER_PORT", "8000"),
			RateLimitRequests: getIntConfigValue("", "RATE_LIMIT_REQUESTS", 60),
		},
		Books: BooksConfig{
			BaseURL: getConfigValue("", "GOOGLE_BOOKS_URL", "https://www.googleapis.com/books/v1"),
			APIKey:  getConfigValue("", "GOOGLE_BOOKS_API_KEY", ""),
		},
		Spotify: SpotifyConfig{
			ClientID:          getConfigValue("", "SPOTIFY_CLIENT_ID", ""),
			ClientSecret:      getConfigValue("", "SPOTIFY_CLIENT_SECRET", ""),
			APIURL:            getConfigValue("", "SPOTIFY_API_URL", "https://api.spotify.com/v1"),
			TokenURL:          getConfigValue("", "SPOTIFY_TOKEN_URL", "https://accounts.spotify.com/api/token"),
			WebURL:            getConfigValue("", "SPOTIFY_WEB_URL", "https://open.spotify.com"),
			SearchConcurrency: getIntConfigValue("", "SEARCH_CONCURRENCY", 4),
		},
		Classifier: ClassifierConfig{
			ModelPath:     getConfigValue(flags.modelPath, "MODEL_PATH", ""),
			WatchModel:    getBoolConfigValue("", "MODEL_WATCH", true),
			ZeroShotURL:   getConfigValue(flags.zeroShotURL, "ZERO_SHOT_URL", "https://api-inference.huggingface.co/models/facebook/bart-large-mnli"),
			ZeroShotToken: getConfigValue("", "ZERO_SHOT_TOKEN", ""),
		},
		Genres: GenresConfig{
			TablePath: getConfigValue(flags.genreTable, "GENRE_TABLE_PATH", ""),
		},
	}

	durations := []struct {
		envKey string
		def    string
		dst    *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", "60s", &cfg.Server.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{"RATE_LIMIT_WINDOW", "1m", &cfg.Server.RateLimitWindow},
		{"GOOGLE_BOOKS_TIMEOUT", "8s", &cfg.Books.Timeout},
		{"SEARCH_TIMEOUT", "8s", &cfg.Spotify.SearchTimeout},
		{"ZERO_SHOT_TIMEOUT", "30s", &cfg.Classifier.ZeroShotTimeout},
	}
	for _, d := range durations {
		raw := getConfigValue("", d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	// Expand and validate file paths.
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Classifier.ModelPath == "" {
		return errors.New("MODEL_PATH is required")
	}

	if c.Classifier.ZeroShotURL == "" {
		return errors.New("ZERO_SHOT_URL cannot be empty")
	}

	if c.Spotify.SearchConcurrency < 1 {
		return fmt.Errorf("invalid search concurrency: %d (must be at least 1)", c.Spotify.SearchConcurrency)
	}

	if c.Server.RateLimitRequests < 0 {
		return fmt.Errorf("invalid rate limit: %d (must not be negative)", c.Server.RateLimitRequests)
	}

	// Missing Spotify credentials are not fatal: searches degrade to a
	// placeholder at request time.

	return nil
}

// expandPaths expands ~ and makes configured file paths absolute.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Classifier.ModelPath, &c.Genres.TablePath, &c.Logger.File} {
		expanded, err := expandPath(*p)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// expandPath expands ~ and makes the path absolute. Empty stays empty.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}
