// Package transform optionally rewrites or expands post content through the
// model-assistance collaborator. The stage never aborts the pipeline: any
// failure keeps the cleaned original text.
package transform

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/heardapp/letter-importer/internal/llm"
)

// DefaultExpandThreshold is the body word count below which the expand
// prompt is used instead of the rewrite prompt.
const DefaultExpandThreshold = 100

type Transformer struct {
	client          llm.Client
	rewriteTitles   bool
	expandThreshold int
	logger          *zerolog.Logger
}

func New(client llm.Client, rewriteTitles bool, expandThreshold int, logger *zerolog.Logger) *Transformer {
	if expandThreshold <= 0 {
		expandThreshold = DefaultExpandThreshold
	}

	return &Transformer{
		client:          client,
		rewriteTitles:   rewriteTitles,
		expandThreshold: expandThreshold,
		logger:          logger,
	}
}

// Transform returns the (possibly rewritten) title and body. Short bodies
// are expanded, long ones rewritten; in title mode a structured title+content
// pair is requested. On any model failure the inputs come back unchanged.
func (t *Transformer) Transform(ctx context.Context, title, body string) (string, string) {
	if t.rewriteTitles {
		return t.transformStructured(ctx, title, body)
	}

	var (
		rewritten string
		err       error
	)

	if wordCount(body) < t.expandThreshold {
		rewritten, err = t.client.ExpandContent(ctx, title, body)
	} else {
		rewritten, err = t.client.RewriteContent(ctx, title, body)
	}

	if err != nil {
		t.logger.Warn().Err(err).Msg("content transform failed, keeping original text")

		return title, body
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return title, body
	}

	return title, rewritten
}

func (t *Transformer) transformStructured(ctx context.Context, title, body string) (string, string) {
	out, err := t.client.RewritePost(ctx, title, body)
	if err != nil {
		t.logger.Warn().Err(err).Msg("structured transform failed, keeping original title and text")

		return title, body
	}

	return strings.TrimSpace(out.Title), strings.TrimSpace(out.Content)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
