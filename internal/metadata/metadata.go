// Package metadata derives a mood tag and an anonymized display name for
// each letter from its final text.
package metadata

import (
	"context"
	"math/rand"
	"strings"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/heardapp/letter-importer/internal/domain"
	"github.com/heardapp/letter-importer/internal/llm"
)

// MoodTags is the closed set of mood symbols a letter may carry. Any model
// response outside this set is discarded.
var MoodTags = []string{
	"😊", "😢", "😡", "😨", "🥰", "😔", "😤", "🙏", "😌", "💪",
	"😭", "✨", "😅", "🥺", "❤️", "😞", "🤗", "😴", "🌈", "😶",
}

const (
	// DefaultDisplayName is the fallback pseudonym when a generated one
	// fails validation.
	DefaultDisplayName = "anonymous"

	maxDisplayNameLen = 30
)

// Synthesizer produces mood tags and display names, model-assisted when
// enabled and deterministic otherwise. Randomness comes from the injected
// source so fallback behavior is reproducible.
type Synthesizer struct {
	client         llm.Client
	modelAssist    bool
	defaultMoodTag string
	rnd            *rand.Rand
	faker          *gofakeit.Faker
	logger         *zerolog.Logger
}

func New(client llm.Client, modelAssist bool, defaultMoodTag string, rnd *rand.Rand, logger *zerolog.Logger) *Synthesizer {
	if defaultMoodTag == "" {
		defaultMoodTag = MoodTags[0]
	}

	return &Synthesizer{
		client:         client,
		modelAssist:    modelAssist,
		defaultMoodTag: defaultMoodTag,
		rnd:            rnd,
		faker:          gofakeit.NewFaker(rnd, false),
		logger:         logger,
	}
}

// MoodTag picks a symbol for the letter content. Model path: constrained
// selection from MoodTags, any error or out-of-set reply falls back to a
// uniform random member. Model path disabled: the configured default.
func (s *Synthesizer) MoodTag(ctx context.Context, content string) string {
	if !s.modelAssist {
		return s.defaultMoodTag
	}

	reply, err := s.client.SuggestMoodTag(ctx, content, MoodTags)
	if err != nil {
		s.logger.Warn().Err(err).Msg("mood tag suggestion failed, picking at random")

		return MoodTags[s.rnd.Intn(len(MoodTags))]
	}

	reply = strings.TrimSpace(reply)
	for _, tag := range MoodTags {
		if reply == tag {
			return tag
		}
	}

	s.logger.Warn().Str("reply", reply).Msg("mood tag outside allowed set, picking at random")

	return MoodTags[s.rnd.Intn(len(MoodTags))]
}

// DisplayName produces an anonymized pseudonym. Model path: a short
// space-free pen name, validated and lowercased, with a fixed default on any
// failure. Model path disabled: either "Anonymous" or a fake username, the
// original populate script's pattern; deleted authors always get a fake name.
func (s *Synthesizer) DisplayName(ctx context.Context, content, author string) string {
	if !s.modelAssist {
		return s.fallbackName(author)
	}

	reply, err := s.client.SuggestDisplayName(ctx, content)
	if err != nil {
		s.logger.Warn().Err(err).Msg("display name suggestion failed, using default")

		return DefaultDisplayName
	}

	name := strings.ToLower(strings.TrimSpace(reply))
	if !validDisplayName(name) {
		s.logger.Warn().Str("reply", reply).Msg("display name failed validation, using default")

		return DefaultDisplayName
	}

	return name
}

func (s *Synthesizer) fallbackName(author string) string {
	if s.rnd.Intn(2) == 0 {
		return "Anonymous"
	}

	if author == "" || author == domain.AnonymousAuthor {
		return s.faker.Username()
	}

	return author
}

func validDisplayName(name string) bool {
	if name == "" || len(name) >= maxDisplayNameLen {
		return false
	}

	for _, r := range name {
		if unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
