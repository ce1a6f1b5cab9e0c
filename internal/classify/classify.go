// Package classify assigns a category to every post.
//
// Two interchangeable strategies exist: keyword scoring and model-assisted
// selection. The model strategy degrades to the keyword strategy on any
// model failure, and the keyword strategy degrades to a uniform random pick
// when no keyword matches, so classification never fails for a non-empty
// category set.
package classify

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/heardapp/letter-importer/internal/domain"
	"github.com/heardapp/letter-importer/internal/llm"
)

// ErrNoCategories is returned when the supplied category set is empty. This
// is a run-level precondition failure, not an expected per-post outcome.
var ErrNoCategories = errors.New("no categories supplied")

type Classifier interface {
	Classify(ctx context.Context, title, body string, categories []domain.Category) (domain.Category, error)
}

// Keyword scores each category by counting indicator phrase hits in the
// combined text. Ties resolve to the first category in the supplied slice
// order; the order is arbitrary but deterministic. A zero best score falls
// back to a uniform random pick from the supplied set.
type Keyword struct {
	rnd *rand.Rand
}

func NewKeyword(rnd *rand.Rand) *Keyword {
	return &Keyword{rnd: rnd}
}

func (k *Keyword) Classify(_ context.Context, title, body string, categories []domain.Category) (domain.Category, error) {
	if len(categories) == 0 {
		return domain.Category{}, ErrNoCategories
	}

	text := strings.ToLower(title + " " + body)

	best := -1
	bestScore := 0

	for i, cat := range categories {
		score := 0

		for _, phrase := range categoryKeywords[cat.Name] {
			if strings.Contains(text, phrase) {
				score++
			}
		}

		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		return categories[k.rnd.Intn(len(categories))], nil
	}

	return categories[best], nil
}

// Model asks the model-assistance collaborator to pick a category by name
// and falls back to the keyword strategy on any failure or unparseable
// response.
type Model struct {
	client   llm.Client
	fallback *Keyword
	logger   *zerolog.Logger
}

func NewModel(client llm.Client, fallback *Keyword, logger *zerolog.Logger) *Model {
	return &Model{
		client:   client,
		fallback: fallback,
		logger:   logger,
	}
}

func (m *Model) Classify(ctx context.Context, title, body string, categories []domain.Category) (domain.Category, error) {
	if len(categories) == 0 {
		return domain.Category{}, ErrNoCategories
	}

	response, err := m.client.ClassifyCategory(ctx, title+"\n\n"+body, categories)
	if err != nil {
		m.logger.Warn().Err(err).Msg("model classification failed, falling back to keywords")

		return m.fallback.Classify(ctx, title, body, categories)
	}

	if cat, ok := matchCategory(response, categories); ok {
		return cat, nil
	}

	m.logger.Warn().Str("response", response).Msg("model returned no known category, falling back to keywords")

	return m.fallback.Classify(ctx, title, body, categories)
}

// matchCategory resolves a model response against the category set: an exact
// case-insensitive name match wins, then a name contained anywhere in the
// response.
func matchCategory(response string, categories []domain.Category) (domain.Category, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(response))

	for _, cat := range categories {
		if strings.ToLower(cat.Name) == cleaned {
			return cat, true
		}
	}

	for _, cat := range categories {
		if strings.Contains(cleaned, strings.ToLower(cat.Name)) {
			return cat, true
		}
	}

	return domain.Category{}, false
}
