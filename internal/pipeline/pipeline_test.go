package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heardapp/letter-importer/internal/classify"
	"github.com/heardapp/letter-importer/internal/domain"
	"github.com/heardapp/letter-importer/internal/letters"
	"github.com/heardapp/letter-importer/internal/safety"
)

type fakeStore struct {
	saved []domain.Letter
	err   error
}

func (f *fakeStore) SaveLetter(_ context.Context, letter *domain.Letter) error {
	if f.err != nil {
		return f.err
	}

	f.saved = append(f.saved, *letter)

	return nil
}

type fakeClassifier struct {
	calls    int
	category domain.Category
	err      error
}

func (f *fakeClassifier) Classify(_ context.Context, _, _ string, _ []domain.Category) (domain.Category, error) {
	f.calls++
	return f.category, f.err
}

type fakeTransformer struct {
	calls int
}

func (f *fakeTransformer) Transform(_ context.Context, title, body string) (string, string) {
	f.calls++
	return title, body
}

type fakeSynth struct{}

func (fakeSynth) MoodTag(_ context.Context, _ string) string        { return "😌" }
func (fakeSynth) DisplayName(_ context.Context, _, _ string) string { return "quietriver" }

func post(id, title, body, hint string) domain.RawPost {
	return domain.RawPost{
		ID:           id,
		Title:        title,
		Body:         body,
		Author:       "someone",
		CreatedAt:    time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		SourceTag:    "offmychest",
		CategoryHint: hint,
	}
}

func newPipeline(store LetterStore, classifier Classifier, transformer Transformer) *Pipeline {
	logger := zerolog.Nop()

	return New(
		store,
		safety.New(nil),
		classifier,
		transformer,
		fakeSynth{},
		letters.NewAssembler(rand.New(rand.NewSource(4))),
		0,
		&logger,
	)
}

var (
	testCategories = []domain.Category{{ID: "c1", Name: "Love"}}
	testUsers      = []string{"u1", "u2"}
)

func TestPipeline_Preconditions(t *testing.T) {
	p := newPipeline(&fakeStore{}, &fakeClassifier{}, nil)

	_, err := p.Run(context.Background(), nil, nil, testUsers)
	assert.ErrorIs(t, err, ErrNoCategories)

	_, err = p.Run(context.Background(), nil, testCategories, nil)
	assert.ErrorIs(t, err, ErrNoUsers)
}

func TestPipeline_KeywordEndToEnd(t *testing.T) {
	store := &fakeStore{}
	logger := zerolog.Nop()

	p := New(
		store,
		safety.New(nil),
		classify.NewKeyword(rand.New(rand.NewSource(8))),
		nil,
		fakeSynth{},
		letters.NewAssembler(rand.New(rand.NewSource(4))),
		0,
		&logger,
	)

	posts := []domain.RawPost{
		post("p1", "I need advice", "My relationship with my partner is falling apart and I don't know what to do.", ""),
	}

	stats, err := p.Run(context.Background(), posts, testCategories, testUsers)
	require.NoError(t, err)

	assert.Equal(t, Stats{Processed: 1, Saved: 1}, stats)
	require.Len(t, store.saved, 1)

	letter := store.saved[0]
	assert.Equal(t, "c1", letter.CategoryID)
	assert.Equal(t, "quietriver", letter.DisplayName)
	assert.Equal(t, posts[0].CreatedAt, letter.CreatedAt)
	assert.Equal(t, letter.CreatedAt, letter.UpdatedAt)
	assert.Contains(t, testUsers, letter.AuthorID)
}

func TestPipeline_DeduplicatesAcrossBuckets(t *testing.T) {
	store := &fakeStore{}
	classifier := &fakeClassifier{category: testCategories[0]}
	p := newPipeline(store, classifier, nil)

	body := "A perfectly ordinary story about my day that is long enough to keep."
	posts := []domain.RawPost{
		post("dup", "first", body, "Love"),
		post("other", "second", body, ""),
		post("dup", "third", body, "Support"),
		post("dup", "fourth", body, ""),
	}

	stats, err := p.Run(context.Background(), posts, testCategories, testUsers)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 2, stats.Saved)
	require.Len(t, store.saved, 2)
	assert.Equal(t, "first", store.saved[0].Title)
	assert.Equal(t, "second", store.saved[1].Title)
}

func TestPipeline_SafetyRejectsBeforeOtherStages(t *testing.T) {
	store := &fakeStore{}
	classifier := &fakeClassifier{category: testCategories[0]}
	transformer := &fakeTransformer{}
	p := newPipeline(store, classifier, transformer)

	posts := []domain.RawPost{
		post("p1", "dark thoughts", "Lately I have been thinking about suicide more than I want to admit.", ""),
	}

	stats, err := p.Run(context.Background(), posts, testCategories, testUsers)
	require.NoError(t, err)

	assert.Equal(t, Stats{Processed: 1, Skipped: 1}, stats)
	assert.Equal(t, 0, classifier.calls, "classifier must not run on rejected posts")
	assert.Equal(t, 0, transformer.calls, "transformer must not run on rejected posts")
	assert.Empty(t, store.saved)
}

func TestPipeline_CategoryHintWins(t *testing.T) {
	store := &fakeStore{}
	classifier := &fakeClassifier{category: domain.Category{ID: "c2", Name: "Other"}}
	p := newPipeline(store, classifier, nil)

	cats := []domain.Category{
		{ID: "c1", Name: "Love"},
		{ID: "c2", Name: "Other"},
	}

	posts := []domain.RawPost{
		post("p1", "t", "A perfectly ordinary story about my day that is long enough.", "love"),
	}

	stats, err := p.Run(context.Background(), posts, cats, testUsers)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Saved)
	assert.Equal(t, 0, classifier.calls)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "c1", store.saved[0].CategoryID)
}

func TestPipeline_PersistenceFailureCountsFailed(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	classifier := &fakeClassifier{category: testCategories[0]}
	p := newPipeline(store, classifier, nil)

	posts := []domain.RawPost{
		post("p1", "one", "A perfectly ordinary story about my day, number one.", ""),
		post("p2", "two", "A perfectly ordinary story about my day, number two.", ""),
	}

	stats, err := p.Run(context.Background(), posts, testCategories, testUsers)
	require.NoError(t, err, "persistence failures must not abort the batch")

	assert.Equal(t, Stats{Processed: 2, Failed: 2}, stats)
}

func TestPipeline_CanceledContextStopsBetweenPosts(t *testing.T) {
	store := &fakeStore{}
	classifier := &fakeClassifier{category: testCategories[0]}
	p := newPipeline(store, classifier, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	posts := []domain.RawPost{
		post("p1", "one", "A perfectly ordinary story about my day, number one.", ""),
		post("p2", "two", "A perfectly ordinary story about my day, number two.", ""),
	}

	stats, err := p.Run(ctx, posts, testCategories, testUsers)
	assert.ErrorIs(t, err, context.Canceled)

	// saveDelay is zero here, so the cancellation check at the top of the
	// loop is the only thing stopping the run.
	assert.Equal(t, 0, stats.Processed)
	assert.Empty(t, store.saved)
}

func TestPipeline_ClassifierFailureCountsSkipped(t *testing.T) {
	store := &fakeStore{}
	classifier := &fakeClassifier{err: errors.New("no category resolvable")}
	p := newPipeline(store, classifier, nil)

	posts := []domain.RawPost{
		post("p1", "one", "A perfectly ordinary story about my day, number one.", ""),
	}

	stats, err := p.Run(context.Background(), posts, testCategories, testUsers)
	require.NoError(t, err)

	assert.Equal(t, Stats{Processed: 1, Skipped: 1}, stats)
	assert.Empty(t, store.saved)
}
