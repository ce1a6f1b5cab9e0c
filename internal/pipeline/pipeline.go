// Package pipeline drives raw posts through normalization, safety filtering,
// classification, transformation, metadata synthesis, assembly and
// persistence, one post at a time.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/heardapp/letter-importer/internal/domain"
	"github.com/heardapp/letter-importer/internal/letters"
	"github.com/heardapp/letter-importer/internal/normalize"
	"github.com/heardapp/letter-importer/internal/observability"
	"github.com/heardapp/letter-importer/internal/safety"
	db "github.com/heardapp/letter-importer/internal/storage"
)

var (
	ErrNoCategories = errors.New("no categories available for this run")
	ErrNoUsers      = errors.New("no user ids available for this run")
)

type LetterStore interface {
	SaveLetter(ctx context.Context, letter *domain.Letter) error
}

// Compile-time assertion that *db.DB implements LetterStore.
var _ LetterStore = (*db.DB)(nil)

type Classifier interface {
	Classify(ctx context.Context, title, body string, categories []domain.Category) (domain.Category, error)
}

type Transformer interface {
	Transform(ctx context.Context, title, body string) (string, string)
}

type Synthesizer interface {
	MoodTag(ctx context.Context, content string) string
	DisplayName(ctx context.Context, content, author string) string
}

// Stats aggregates per-batch counters. Skipped covers safety rejections and
// duplicates; Failed covers assembly and persistence failures.
type Stats struct {
	Processed int
	Skipped   int
	Saved     int
	Failed    int
}

type Pipeline struct {
	store       LetterStore
	safety      *safety.Filter
	classifier  Classifier
	transformer Transformer // nil disables the transform stage
	synth       Synthesizer
	assembler   *letters.Assembler
	saveDelay   time.Duration
	logger      *zerolog.Logger
}

func New(store LetterStore, safetyFilter *safety.Filter, classifier Classifier, transformer Transformer, synth Synthesizer, assembler *letters.Assembler, saveDelay time.Duration, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:       store,
		safety:      safetyFilter,
		classifier:  classifier,
		transformer: transformer,
		synth:       synth,
		assembler:   assembler,
		saveDelay:   saveDelay,
		logger:      logger,
	}
}

// Run processes the batch sequentially and returns the aggregated counters.
// A post's failure never aborts the batch; only empty category or user sets
// stop the run before any post is touched.
func (p *Pipeline) Run(ctx context.Context, posts []domain.RawPost, categories []domain.Category, userIDs []string) (Stats, error) {
	var stats Stats

	if len(categories) == 0 {
		return stats, ErrNoCategories
	}

	if len(userIDs) == 0 {
		return stats, ErrNoUsers
	}

	start := time.Now()
	defer func() {
		observability.BatchDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	// The same post can arrive from several source buckets; the first
	// occurrence wins.
	seen := make(map[string]bool, len(posts))

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if seen[post.ID] {
			continue
		}

		seen[post.ID] = true
		stats.Processed++

		persisted := p.processPost(ctx, post, categories, userIDs, &stats)

		// Pace after every persistence call to respect collaborator
		// rate limits.
		if persisted && p.saveDelay > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(p.saveDelay):
			}
		}
	}

	p.logger.Info().
		Int("processed", stats.Processed).
		Int("skipped", stats.Skipped).
		Int("saved", stats.Saved).
		Int("failed", stats.Failed).
		Msg("batch finished")

	return stats, nil
}

// processPost runs one post through every stage. It reports whether a
// persistence call was made so the caller can apply the pacing delay.
func (p *Pipeline) processPost(ctx context.Context, post domain.RawPost, categories []domain.Category, userIDs []string, stats *Stats) bool {
	logger := p.logger.With().Str("post_id", post.ID).Str("source", post.SourceTag).Logger()

	body := normalize.Clean(post.Body)

	if ok, reason := p.safety.Check(post.Title + " " + body); !ok {
		logger.Info().Str("reason", reason).Msg("post rejected by safety filter")
		observability.PostsProcessed.WithLabelValues(observability.StatusSkipped).Inc()
		stats.Skipped++

		return false
	}

	category, err := p.resolveCategory(ctx, post, body, categories)
	if err != nil {
		logger.Warn().Err(err).Msg("post skipped, no category resolvable")
		observability.PostsProcessed.WithLabelValues(observability.StatusSkipped).Inc()
		stats.Skipped++

		return false
	}

	title, content := post.Title, body
	if p.transformer != nil {
		title, content = p.transformer.Transform(ctx, title, content)
	}

	moodTag := p.synth.MoodTag(ctx, content)
	displayName := p.synth.DisplayName(ctx, content, post.Author)

	letter, err := p.assembler.Assemble(post, category.ID, displayName, moodTag, title, content, userIDs)
	if err != nil {
		logger.Error().Err(err).Msg("failed to assemble letter")
		observability.PostsProcessed.WithLabelValues(observability.StatusFailed).Inc()
		stats.Failed++

		return false
	}

	if err := p.store.SaveLetter(ctx, &letter); err != nil {
		logger.Error().Err(err).Msg("failed to save letter")
		observability.PostsProcessed.WithLabelValues(observability.StatusFailed).Inc()
		stats.Failed++

		return true
	}

	logger.Info().Str("letter_id", letter.ID).Str("category", category.Name).Msg("letter saved")
	observability.PostsProcessed.WithLabelValues(observability.StatusSaved).Inc()
	stats.Saved++

	return true
}

// resolveCategory honors a category hint carried from the source bucket and
// otherwise defers to the configured strategy.
func (p *Pipeline) resolveCategory(ctx context.Context, post domain.RawPost, body string, categories []domain.Category) (domain.Category, error) {
	if post.CategoryHint != "" {
		for _, cat := range categories {
			if strings.EqualFold(cat.Name, post.CategoryHint) {
				return cat, nil
			}
		}
	}

	return p.classifier.Classify(ctx, post.Title, body, categories)
}
