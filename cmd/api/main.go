// Command api runs the TuneFuse HTTP server.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/tunefuse/internal/adapters/deezer"
	"github.com/ewilliams-labs/tunefuse/internal/adapters/lastfm"
	"github.com/ewilliams-labs/tunefuse/internal/adapters/rest"
	"github.com/ewilliams-labs/tunefuse/internal/adapters/spotify"
	"github.com/ewilliams-labs/tunefuse/internal/adapters/sqlite"
	"github.com/ewilliams-labs/tunefuse/internal/config"
	"github.com/ewilliams-labs/tunefuse/internal/core/services"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}
	for _, m := range cfg.Validate() {
		logger.Warn("missing configuration, running degraded", "missing", m)
	}

	// Driven adapters.
	repo, err := sqlite.NewAdapter(cfg.Database.Path)
	if err != nil {
		logger.Fatal("initializing database", "err", err)
	}
	defer repo.Close()

	spotifyClient := spotify.NewClient(spotify.Config{
		ClientID:     cfg.Credentials.Spotify.ClientID,
		ClientSecret: cfg.Credentials.Spotify.ClientSecret,
		Logger:       logger,
	})
	lastfmClient := lastfm.NewClient(lastfm.Config{
		APIKey: cfg.Credentials.LastFM.APIKey,
		Logger: logger,
	})
	deezerClient := deezer.NewClient(deezer.Config{Logger: logger})

	// Core services.
	recommender := services.NewRecommender(lastfmClient, spotifyClient, deezerClient, logger)
	accounts := services.NewAccounts(repo, logger)
	library := services.NewLibrary(repo, logger)

	// Driving adapter.
	handler := rest.NewHandler(recommender, accounts, library, rest.NewSessionStore(), logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	logger.Info("TuneFuse API is running", "addr", "http://"+srv.Addr)

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal("server error", "err", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "err", err)
		}
	}
}
