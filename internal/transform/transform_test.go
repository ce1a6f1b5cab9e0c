package transform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/heardapp/letter-importer/internal/llm"
)

type fakeLLM struct {
	llm.Client

	expanded     string
	rewritten    string
	structured   llm.Rewritten
	err          error
	expandCalls  int
	rewriteCalls int
}

func (f *fakeLLM) ExpandContent(_ context.Context, _, _ string) (string, error) {
	f.expandCalls++
	return f.expanded, f.err
}

func (f *fakeLLM) RewriteContent(_ context.Context, _, _ string) (string, error) {
	f.rewriteCalls++
	return f.rewritten, f.err
}

func (f *fakeLLM) RewritePost(_ context.Context, _, _ string) (llm.Rewritten, error) {
	return f.structured, f.err
}

func TestTransformer_ShortBodyExpands(t *testing.T) {
	logger := zerolog.Nop()
	fake := &fakeLLM{expanded: "a much longer letter"}
	tr := New(fake, false, 100, &logger)

	title, body := tr.Transform(context.Background(), "hello", "short note")

	assert.Equal(t, "hello", title)
	assert.Equal(t, "a much longer letter", body)
	assert.Equal(t, 1, fake.expandCalls)
	assert.Equal(t, 0, fake.rewriteCalls)
}

func TestTransformer_LongBodyRewrites(t *testing.T) {
	logger := zerolog.Nop()
	fake := &fakeLLM{rewritten: "condensed letter"}
	tr := New(fake, false, 100, &logger)

	longBody := strings.Repeat("word ", 150)

	title, body := tr.Transform(context.Background(), "hello", longBody)

	assert.Equal(t, "hello", title)
	assert.Equal(t, "condensed letter", body)
	assert.Equal(t, 0, fake.expandCalls)
	assert.Equal(t, 1, fake.rewriteCalls)
}

func TestTransformer_FailureKeepsOriginal(t *testing.T) {
	logger := zerolog.Nop()
	fake := &fakeLLM{err: errors.New("model unreachable")}
	tr := New(fake, false, 100, &logger)

	title, body := tr.Transform(context.Background(), "hello", "short note")

	assert.Equal(t, "hello", title)
	assert.Equal(t, "short note", body)
}

func TestTransformer_EmptyResponseKeepsOriginal(t *testing.T) {
	logger := zerolog.Nop()
	fake := &fakeLLM{expanded: "   "}
	tr := New(fake, false, 100, &logger)

	_, body := tr.Transform(context.Background(), "hello", "short note")

	assert.Equal(t, "short note", body)
}

func TestTransformer_StructuredMode(t *testing.T) {
	logger := zerolog.Nop()
	fake := &fakeLLM{structured: llm.Rewritten{Title: "New Title", Content: "new content"}}
	tr := New(fake, true, 100, &logger)

	title, body := tr.Transform(context.Background(), "old", "old body")

	assert.Equal(t, "New Title", title)
	assert.Equal(t, "new content", body)
}

func TestTransformer_StructuredFailureKeepsOriginal(t *testing.T) {
	logger := zerolog.Nop()
	fake := &fakeLLM{err: errors.New("malformed json")}
	tr := New(fake, true, 100, &logger)

	title, body := tr.Transform(context.Background(), "old", "old body")

	assert.Equal(t, "old", title)
	assert.Equal(t, "old body", body)
}
