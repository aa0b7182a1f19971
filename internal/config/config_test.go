package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Spotify: SpotifyConfig{
			SearchConcurrency: 4,
		},
		Classifier: ClassifierConfig{
			ModelPath:   "/models/title.json",
			ZeroShotURL: "http://localhost:9000",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"INFO", true},   // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_MissingModelPath(t *testing.T) {
	cfg := validConfig()
	cfg.Classifier.ModelPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MODEL_PATH is required")
}

func TestValidate_SearchConcurrency(t *testing.T) {
	cfg := validConfig()
	cfg.Spotify.SearchConcurrency = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search concurrency")
}

func TestValidate_MissingSpotifyCredentialsIsNotFatal(t *testing.T) {
	cfg := validConfig()
	cfg.Spotify.ClientID = ""
	cfg.Spotify.ClientSecret = ""

	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.Spotify.HasCredentials())
}

func TestSpotifyConfig_HasCredentials(t *testing.T) {
	assert.True(t, SpotifyConfig{ClientID: "id", ClientSecret: "secret"}.HasCredentials())
	assert.False(t, SpotifyConfig{ClientID: "id"}.HasCredentials())
	assert.False(t, SpotifyConfig{ClientSecret: "secret"}.HasCredentials())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MODEL_PATH", "/models/title.json")

	cfg, err := load(flagValues{})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 8*time.Second, cfg.Books.Timeout)
	assert.Equal(t, 8*time.Second, cfg.Spotify.SearchTimeout)
	assert.Equal(t, 30*time.Second, cfg.Classifier.ZeroShotTimeout)
	assert.Equal(t, 4, cfg.Spotify.SearchConcurrency)
	assert.Equal(t, "https://www.googleapis.com/books/v1", cfg.Books.BaseURL)
	assert.Equal(t, "https://open.spotify.com", cfg.Spotify.WebURL)
	assert.True(t, cfg.Classifier.WatchModel)
	assert.Empty(t, cfg.Genres.TablePath)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("MODEL_PATH", "/env/model.json")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SEARCH_TIMEOUT", "3s")
	t.Setenv("MODEL_WATCH", "false")

	cfg, err := load(flagValues{modelPath: "/flag/model.json"})
	require.NoError(t, err)

	assert.Equal(t, "/flag/model.json", cfg.Classifier.ModelPath)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Spotify.SearchTimeout)
	assert.False(t, cfg.Classifier.WatchModel)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("MODEL_PATH", "/models/title.json")
	t.Setenv("GOOGLE_BOOKS_TIMEOUT", "soon")

	_, err := load(flagValues{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_BOOKS_TIMEOUT")
}

func TestExpandPath_Empty(t *testing.T) {
	got, err := expandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpandPath_TildeExpansion(t *testing.T) {
	got, err := expandPath("~/models/title.json")
	require.NoError(t, err)

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "models", "title.json"), got)
}

func TestExpandPath_AbsolutePath(t *testing.T) {
	got, err := expandPath("/absolute/path/to/model.json")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/path/to/model.json", got)
}

func TestExpandPath_RelativePath(t *testing.T) {
	got, err := expandPath("relative/path")
	require.NoError(t, err)

	// Should be converted to absolute path.
	assert.True(t, filepath.IsAbs(got))
	assert.Contains(t, got, "relative/path")
}

func TestGetConfigValue_Precedence(t *testing.T) {
	// Test flag value takes priority.
	result := getConfigValue("flag-value", "ENV_KEY", "default-value")
	assert.Equal(t, "flag-value", result)

	// Test env var when flag is empty.
	t.Setenv("TEST_ENV_KEY", "env-value")

	result = getConfigValue("", "TEST_ENV_KEY", "default-value")
	assert.Equal(t, "env-value", result)

	// Test default when both are empty.
	result = getConfigValue("", "NONEXISTENT_KEY", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestGetIntConfigValue_InvalidFallsBack(t *testing.T) {
	t.Setenv("TEST_INT_KEY", "many")
	assert.Equal(t, 7, getIntConfigValue("", "TEST_INT_KEY", 7))

	t.Setenv("TEST_INT_KEY", "12")
	assert.Equal(t, 12, getIntConfigValue("", "TEST_INT_KEY", 7))
}

func TestGetBoolConfigValue(t *testing.T) {
	for _, v := range []string{"true", "1", "yes", "YES"} {
		t.Setenv("TEST_BOOL_KEY", v)
		assert.True(t, getBoolConfigValue("", "TEST_BOOL_KEY", false), v)
	}

	t.Setenv("TEST_BOOL_KEY", "off")
	assert.False(t, getBoolConfigValue("", "TEST_BOOL_KEY", true))

	assert.True(t, getBoolConfigValue("", "MISSING_BOOL_KEY", true))
}

func TestEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("TEST_VAR", "original-value")

	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")
	err := os.WriteFile(envFile, []byte("TEST_VAR=new-value\n"), 0o644)
	require.NoError(t, err)

	require.NoError(t, godotenv.Load(envFile))

	// Original value should be preserved.
	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}
