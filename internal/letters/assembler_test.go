package letters

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heardapp/letter-importer/internal/domain"
)

func testPost() domain.RawPost {
	return domain.RawPost{
		ID:        "abc123",
		Title:     "a title",
		Author:    "someone",
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		SourceTag: "offmychest",
	}
}

func TestAssembler_Assemble(t *testing.T) {
	a := NewAssembler(rand.New(rand.NewSource(2)))
	users := []string{"u1", "u2", "u3"}

	letter, err := a.Assemble(testPost(), "cat1", "quietriver", "😌", "a title", "the content", users)
	require.NoError(t, err)

	_, err = uuid.Parse(letter.ID)
	assert.NoError(t, err, "letter id must be a uuid")

	assert.Contains(t, users, letter.AuthorID)
	assert.Equal(t, "cat1", letter.CategoryID)
	assert.Equal(t, "quietriver", letter.DisplayName)
	assert.Equal(t, "😌", letter.MoodTag)
	assert.Equal(t, testPost().CreatedAt, letter.CreatedAt)
	assert.Equal(t, letter.CreatedAt, letter.UpdatedAt)
}

func TestAssembler_Validation(t *testing.T) {
	a := NewAssembler(rand.New(rand.NewSource(2)))
	users := []string{"u1"}

	tests := []struct {
		name        string
		categoryID  string
		displayName string
		users       []string
		wantErr     error
	}{
		{name: "empty user pool", categoryID: "c", displayName: "ok", users: nil, wantErr: ErrEmptyUserPool},
		{name: "missing category", categoryID: "", displayName: "ok", users: users, wantErr: ErrNoCategory},
		{name: "empty display name", categoryID: "c", displayName: "", users: users, wantErr: ErrBadDisplayName},
		{name: "oversized display name", categoryID: "c", displayName: strings.Repeat("a", 31), users: users, wantErr: ErrBadDisplayName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Assemble(testPost(), tt.categoryID, tt.displayName, "😌", "t", "c", tt.users)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
