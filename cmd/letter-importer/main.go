package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/heardapp/letter-importer/internal/app"
	"github.com/heardapp/letter-importer/internal/config"
	"github.com/heardapp/letter-importer/internal/observability"
	db "github.com/heardapp/letter-importer/internal/storage"
)

func main() {
	subreddit := flag.String("subreddit", "", "Fetch from a single subreddit instead of the category buckets")
	limit := flag.Int("limit", 0, "Posts to fetch per source (overrides FETCH_LIMIT)")
	window := flag.String("window", "", "Time window: hour, day, week, month, year, all (overrides TIME_WINDOW)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if *subreddit != "" {
		cfg.Subreddit = *subreddit
	}

	if *limit > 0 {
		cfg.FetchLimit = *limit
	}

	if *window != "" {
		cfg.TimeWindow = *window
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(ctx, cfg.PostgresDSN, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	metricsServer := observability.NewServer(database.Pool, cfg.HealthPort, &logger)

	go func() {
		if err := metricsServer.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	application := app.New(cfg, database, &logger)

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("import interrupted")
			return
		}

		logger.Fatal().Err(err).Msg("import failed")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
