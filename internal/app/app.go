// Package app wires the importer's collaborators together and drives a
// single import run: load categories and users, fetch posts per source,
// process them through the pipeline, report counters.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/heardapp/letter-importer/internal/classify"
	"github.com/heardapp/letter-importer/internal/config"
	"github.com/heardapp/letter-importer/internal/domain"
	"github.com/heardapp/letter-importer/internal/letters"
	"github.com/heardapp/letter-importer/internal/llm"
	"github.com/heardapp/letter-importer/internal/metadata"
	"github.com/heardapp/letter-importer/internal/pipeline"
	"github.com/heardapp/letter-importer/internal/safety"
	"github.com/heardapp/letter-importer/internal/source"
	db "github.com/heardapp/letter-importer/internal/storage"
	"github.com/heardapp/letter-importer/internal/transform"
)

// App holds the application dependencies.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// Run executes one import batch. Category and user-pool preconditions are
// checked before anything is fetched; per-source fetch failures only cost
// that source's posts.
func (a *App) Run(ctx context.Context) error {
	categories, err := a.database.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	if len(categories) == 0 {
		return pipeline.ErrNoCategories
	}

	userIDs, err := a.database.GetUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("load user ids: %w", err)
	}

	if len(userIDs) == 0 {
		return pipeline.ErrNoUsers
	}

	a.logger.Info().Int("categories", len(categories)).Int("users", len(userIDs)).Msg("run preconditions satisfied")

	rnd := a.newRand()
	posts := a.fetchPosts(ctx, categories, rnd)

	if len(posts) == 0 {
		a.logger.Info().Msg("no posts fetched, nothing to do")

		return nil
	}

	stats, err := a.buildPipeline(rnd).Run(ctx, posts, categories, userIDs)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	a.logger.Info().
		Int("processed", stats.Processed).
		Int("skipped", stats.Skipped).
		Int("saved", stats.Saved).
		Int("failed", stats.Failed).
		Msg("import finished")

	return nil
}

func (a *App) newRand() *rand.Rand {
	seed := a.cfg.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed))
}

// fetchPosts walks either the pinned subreddit or the per-category buckets.
// A failing source contributes zero posts without aborting the run.
func (a *App) fetchPosts(ctx context.Context, categories []domain.Category, rnd *rand.Rand) []domain.RawPost {
	client := source.New(a.cfg, a.logger)

	if a.cfg.Subreddit != "" {
		posts, err := client.Fetch(ctx, a.cfg.Subreddit, a.cfg.FetchLimit, a.cfg.TimeWindow)
		if err != nil {
			a.logger.Error().Err(err).Str("subreddit", a.cfg.Subreddit).Msg("fetch failed")

			return nil
		}

		return posts
	}

	var all []domain.RawPost

	for _, cat := range categories {
		subs := source.BucketsFor(cat.Name, rnd)
		if len(subs) == 0 {
			a.logger.Debug().Str("category", cat.Name).Msg("no subreddit bucket for category")

			continue
		}

		for _, sub := range subs {
			posts, err := client.Fetch(ctx, sub, a.cfg.FetchLimit, a.cfg.TimeWindow)
			if err != nil {
				a.logger.Error().Err(err).Str("subreddit", sub).Msg("fetch failed, skipping source")

				continue
			}

			for i := range posts {
				posts[i].CategoryHint = cat.Name
			}

			all = append(all, posts...)
		}
	}

	return all
}

func (a *App) buildPipeline(rnd *rand.Rand) *pipeline.Pipeline {
	llmClient := llm.New(a.cfg, a.logger)
	modelAssist := a.cfg.ModelAssistActive()

	keyword := classify.NewKeyword(rnd)

	var classifier pipeline.Classifier = keyword
	if modelAssist && a.cfg.Classifier == config.ClassifierModel {
		classifier = classify.NewModel(llmClient, keyword, a.logger)
	}

	var transformer pipeline.Transformer
	if modelAssist && a.cfg.TransformEnabled {
		transformer = transform.New(llmClient, a.cfg.RewriteTitles, a.cfg.ExpandThreshold, a.logger)
	}

	synth := metadata.New(llmClient, modelAssist, a.cfg.DefaultMoodTag, rnd, a.logger)

	return pipeline.New(
		a.database,
		safety.New(a.cfg.DisallowedPhrases),
		classifier,
		transformer,
		synth,
		letters.NewAssembler(rnd),
		a.cfg.SaveDelay,
		a.logger,
	)
}
