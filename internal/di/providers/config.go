// Package providers contains dependency injection providers for the moodshelf server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/moodshelf/internal/config"
	"github.com/listenupapp/moodshelf/internal/genre"
	"github.com/listenupapp/moodshelf/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// LoggerHandle wraps the logger so the rotated log file is closed on shutdown.
type LoggerHandle struct {
	*logger.Logger
}

// Shutdown implements do.Shutdownable.
func (h *LoggerHandle) Shutdown() error {
	return h.Logger.Close()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*LoggerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	logCfg := logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}
	if cfg.Logger.File != "" {
		logCfg.File = &logger.FileConfig{
			Path:       cfg.Logger.File,
			MaxSizeMB:  cfg.Logger.FileMaxSizeMB,
			MaxBackups: cfg.Logger.FileMaxBackups,
			MaxAgeDays: cfg.Logger.FileMaxAgeDays,
		}
	}

	log := logger.New(logCfg)

	log.Info("Starting moodshelf server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"log_file", cfg.Logger.File,
		"model_path", cfg.Classifier.ModelPath,
		"genre_table", cfg.Genres.TablePath,
	)

	if !cfg.Spotify.HasCredentials() {
		log.Warn("Spotify client credentials not configured, playlist suggestions will be placeholders",
			"env", "SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET",
		)
	}

	return &LoggerHandle{Logger: log}, nil
}

// ProvideGenreTables provides the mood and priority tables, built in or
// loaded from GENRE_TABLE_PATH.
func ProvideGenreTables(i do.Injector) (*genre.Tables, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)

	tables, err := genre.LoadTables(cfg.Genres.TablePath)
	if err != nil {
		return nil, err
	}

	source := "built-in"
	if cfg.Genres.TablePath != "" {
		source = cfg.Genres.TablePath
	}
	log.Info("Genre tables loaded", "source", source, "genres", len(tables.Labels()))

	return tables, nil
}
