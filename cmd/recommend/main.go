// Command recommend prints a playlist recommendation for one book title
// without starting the HTTP server.
//
// Usage:
//
//	recommend [flags] [title words...]
//
// With no title arguments the title is read from stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/moodshelf/internal/di/providers"
	"github.com/listenupapp/moodshelf/internal/service"
)

func main() {
	os.Exit(run())
}

func run() int {
	injector := do.New()

	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideGenreTables)
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideSpotifyAuthenticator)
	do.Provide(injector, providers.ProvideSpotifyClient)
	do.Provide(injector, providers.ProvideTitleClassifier)
	do.Provide(injector, providers.ProvideZeroShotClient)
	do.Provide(injector, providers.ProvidePlaylistService)
	do.Provide(injector, providers.ProvideRecommendationService)

	svc, err := do.Invoke[*service.RecommendationService](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		return 1
	}
	defer injector.Shutdown()

	// Flags were parsed by the config provider.
	title := strings.Join(flag.Args(), " ")
	if title == "" {
		fmt.Print("📘 Enter the book title: ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			title = scanner.Text()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec, err := svc.Recommend(ctx, title)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Recommendation failed: %v\n", err)
		return 1
	}

	fmt.Print(rec.Message())
	return 0
}
