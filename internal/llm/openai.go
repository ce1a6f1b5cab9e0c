package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/heardapp/letter-importer/internal/config"
	"github.com/heardapp/letter-importer/internal/domain"
	"github.com/heardapp/letter-importer/internal/observability"
)

type openaiClient struct {
	cfg         *config.Config
	client      *openai.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
	timeout     time.Duration

	// Circuit breaker state
	consecutiveFailures int
	circuitOpenUntil    time.Time
	mu                  sync.Mutex
}

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 1 * time.Minute
)

func NewOpenAI(cfg *config.Config, logger *zerolog.Logger) Client {
	timeout := cfg.LLMTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &openaiClient{
		cfg:         cfg,
		client:      openai.NewClient(cfg.LLMAPIKey),
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimitRPS)), 5),
		timeout:     timeout,
	}
}

func (c *openaiClient) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.circuitOpenUntil) {
		return fmt.Errorf("circuit breaker is open until %v", c.circuitOpenUntil)
	}

	return nil
}

func (c *openaiClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveFailures = 0
}

func (c *openaiClient) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures++
	if c.consecutiveFailures >= circuitBreakerThreshold {
		c.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		c.logger.Warn().
			Int("consecutive_failures", c.consecutiveFailures).
			Time("open_until", c.circuitOpenUntil).
			Msg("Circuit breaker opened")
	}
}

// complete issues a single time-bounded chat completion and returns the
// trimmed response text.
func (c *openaiClient) complete(ctx context.Context, task, prompt string, jsonMode bool) (string, error) {
	if err := c.checkCircuit(); err != nil {
		return "", err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf(errRateLimiter, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.cfg.LLMModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	observability.LLMRequestDuration.WithLabelValues(task).Observe(time.Since(start).Seconds())

	if err != nil {
		c.recordFailure()

		return "", fmt.Errorf(errOpenAIChatCompletion, err)
	}

	if len(resp.Choices) == 0 {
		c.recordFailure()

		return "", errors.New(errEmptyCompletion)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.Debug().Str("task", task).Str("content", content).Msg("LLM response")

	if content == "" {
		c.recordFailure()

		return "", errors.New(errEmptyCompletion)
	}

	c.recordSuccess()

	return content, nil
}

func (c *openaiClient) ClassifyCategory(ctx context.Context, text string, categories []domain.Category) (string, error) {
	var sb strings.Builder

	sb.WriteString("You are categorizing an anonymous letter for a mental-wellness app. Pick the single best matching category from this list and respond with EXACTLY that category name, nothing else.\n\nCategories:\n")

	for _, cat := range categories {
		if cat.Description != "" {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", cat.Name, cat.Description))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", cat.Name))
		}
	}

	sb.WriteString("\nLetter:\n")
	sb.WriteString(truncate(text, classifyTextBudget))

	return c.complete(ctx, TaskClassify, sb.String(), false)
}

func (c *openaiClient) ExpandContent(ctx context.Context, title, body string) (string, error) {
	prompt := fmt.Sprintf("Expand the following short personal note into a heartfelt letter of roughly 100-150 words. Keep the first person voice and the original sentiment. Do not add headings or commentary, return only the letter text.\n\nTitle: %s\n\nText: %s", title, body)

	return c.complete(ctx, TaskExpand, prompt, false)
}

func (c *openaiClient) RewriteContent(ctx context.Context, title, body string) (string, error) {
	prompt := fmt.Sprintf("Rewrite the following personal post as a letter of under 200 words. Preserve the sentiment and the first person voice, remove references to any website, forum, subreddit or online community, and return only the rewritten text.\n\nTitle: %s\n\nText: %s", title, body)

	return c.complete(ctx, TaskRewrite, prompt, false)
}

func (c *openaiClient) RewritePost(ctx context.Context, title, body string) (Rewritten, error) {
	prompt := fmt.Sprintf("Rewrite the following personal post as a letter. Return a JSON object with exactly two string keys: \"title\" (a short letter title) and \"content\" (the letter body, under 200 words, first person, sentiment preserved, no references to any website or online community).\n\nTitle: %s\n\nText: %s", title, body)

	content, err := c.complete(ctx, TaskRewritePost, prompt, true)
	if err != nil {
		return Rewritten{}, err
	}

	var out Rewritten
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return Rewritten{}, fmt.Errorf("parse rewritten post: %w", err)
	}

	if out.Title == "" || out.Content == "" {
		return Rewritten{}, errors.New("rewritten post missing title or content")
	}

	return out, nil
}

func (c *openaiClient) SuggestMoodTag(ctx context.Context, content string, tags []string) (string, error) {
	prompt := fmt.Sprintf("Pick the single emoji that best matches the emotional tone of this letter. Respond with EXACTLY one emoji from this list and nothing else: %s\n\nLetter:\n%s", strings.Join(tags, " "), truncate(content, classifyTextBudget))

	return c.complete(ctx, TaskMoodTag, prompt, false)
}

func (c *openaiClient) SuggestDisplayName(ctx context.Context, content string) (string, error) {
	prompt := fmt.Sprintf("Invent an anonymous pen name for the author of this letter: one to three words joined without spaces, lowercase, evocative but not generic (never 'anonymous' or 'user'). Respond with the pen name only.\n\nLetter:\n%s", truncate(content, classifyTextBudget))

	return c.complete(ctx, TaskDisplayName, prompt, false)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)

	return string(runes[:max]) + "..."
}
