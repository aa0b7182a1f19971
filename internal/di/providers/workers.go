package providers

import (
	"context"
	"sync"

	"github.com/samber/do/v2"

	"github.com/listenupapp/moodshelf/internal/classifier"
	"github.com/listenupapp/moodshelf/internal/config"
	"github.com/listenupapp/moodshelf/internal/genre"
	"github.com/listenupapp/moodshelf/internal/ratelimit"
)

// ProvideTitleClassifier loads the statistical title model. A missing or
// invalid model is fatal at startup.
func ProvideTitleClassifier(i do.Injector) (*classifier.NaiveBayes, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	tables := do.MustInvoke[*genre.Tables](i)

	return classifier.NewNaiveBayes(cfg.Classifier.ModelPath, tables, log.Component("classifier").Logger)
}

// ProvideZeroShotClient provides the zero-shot text classifier client.
func ProvideZeroShotClient(i do.Injector) (*classifier.ZeroShotClient, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	limiter := do.MustInvoke[*ratelimit.KeyedRateLimiter](i)

	client := classifier.NewZeroShotClient(classifier.ZeroShotConfig{
		URL:     cfg.Classifier.ZeroShotURL,
		Token:   cfg.Classifier.ZeroShotToken,
		Timeout: cfg.Classifier.ZeroShotTimeout,
	}, limiter, log.Component("zeroshot").Logger)

	log.Info("Zero-shot classifier initialized", "url", cfg.Classifier.ZeroShotURL)
	return client, nil
}

// ModelWatcherHandle runs the model hot-reload loop.
type ModelWatcherHandle struct {
	cancel context.CancelFunc
	done   sync.WaitGroup
}

// Shutdown implements do.Shutdownable.
func (h *ModelWatcherHandle) Shutdown() error {
	h.cancel()
	h.done.Wait()
	return nil
}

// ProvideModelWatcher watches the model file and reloads it on change when
// MODEL_WATCH is enabled.
func ProvideModelWatcher(i do.Injector) (*ModelWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	model := do.MustInvoke[*classifier.NaiveBayes](i)

	ctx, cancel := context.WithCancel(context.Background())
	h := &ModelWatcherHandle{cancel: cancel}

	if !cfg.Classifier.WatchModel {
		log.Info("Model watching disabled by configuration")
		return h, nil
	}

	h.done.Add(1)
	go func() {
		defer h.done.Done()
		if err := model.Watch(ctx, 0); err != nil {
			log.Error("Model watcher error", "error", err, "path", model.Path())
		}
	}()

	log.Info("Watching title model", "path", model.Path())
	return h, nil
}
