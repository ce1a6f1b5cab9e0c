// Package llm wraps the model-assistance collaborator used for category
// classification, content rewriting, and metadata synthesis.
//
// Every call is rate-limited and time-bounded. Callers must treat any error
// as a signal to take their deterministic fallback path; failures from this
// package never abort a run.
package llm

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/heardapp/letter-importer/internal/config"
	"github.com/heardapp/letter-importer/internal/domain"
)

// Rewritten is the structured title+content pair returned by the title
// rewrite sub-mode.
type Rewritten struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Client interface {
	ClassifyCategory(ctx context.Context, text string, categories []domain.Category) (string, error)
	ExpandContent(ctx context.Context, title, body string) (string, error)
	RewriteContent(ctx context.Context, title, body string) (string, error)
	RewritePost(ctx context.Context, title, body string) (Rewritten, error)
	SuggestMoodTag(ctx context.Context, content string, tags []string) (string, error)
	SuggestDisplayName(ctx context.Context, content string) (string, error)
}

// New returns the OpenAI-backed client, or the in-package mock when no API
// key is configured.
func New(cfg *config.Config, logger *zerolog.Logger) Client {
	if cfg.LLMAPIKey == "" || cfg.LLMAPIKey == mockAPIKey {
		return &mockClient{}
	}

	return NewOpenAI(cfg, logger)
}

type mockClient struct{}

func (c *mockClient) ClassifyCategory(_ context.Context, _ string, categories []domain.Category) (string, error) {
	if len(categories) == 0 {
		return "", nil
	}

	return categories[0].Name, nil
}

func (c *mockClient) ExpandContent(_ context.Context, _ string, body string) (string, error) {
	return body, nil
}

func (c *mockClient) RewriteContent(_ context.Context, _ string, body string) (string, error) {
	return body, nil
}

func (c *mockClient) RewritePost(_ context.Context, title, body string) (Rewritten, error) {
	return Rewritten{Title: title, Content: body}, nil
}

func (c *mockClient) SuggestMoodTag(_ context.Context, _ string, tags []string) (string, error) {
	if len(tags) == 0 {
		return "", nil
	}

	return tags[0], nil
}

func (c *mockClient) SuggestDisplayName(_ context.Context, _ string) (string, error) {
	return "quietriver", nil
}
