// Package letters composes validated Letter records from pipeline output.
package letters

import (
	"errors"
	"fmt"
	"math/rand"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heardapp/letter-importer/internal/domain"
)

const maxDisplayNameChars = 30

var (
	ErrEmptyUserPool  = errors.New("user id pool is empty")
	ErrNoCategory     = errors.New("letter has no resolved category")
	ErrBadDisplayName = errors.New("display name out of bounds")
)

// Assembler builds immutable Letter records. The author is drawn uniformly
// from the user pool with the injected randomness source.
type Assembler struct {
	rnd *rand.Rand
}

func NewAssembler(rnd *rand.Rand) *Assembler {
	return &Assembler{rnd: rnd}
}

// Assemble validates the inputs and produces the Letter. Both timestamps
// carry the source post's creation instant; letters are never updated after
// insertion.
func (a *Assembler) Assemble(post domain.RawPost, categoryID, displayName, moodTag, title, content string, userIDs []string) (domain.Letter, error) {
	if len(userIDs) == 0 {
		return domain.Letter{}, ErrEmptyUserPool
	}

	if categoryID == "" {
		return domain.Letter{}, ErrNoCategory
	}

	if n := utf8.RuneCountInString(displayName); n == 0 || n > maxDisplayNameChars {
		return domain.Letter{}, fmt.Errorf("%w: %q", ErrBadDisplayName, displayName)
	}

	return domain.Letter{
		ID:          uuid.New().String(),
		AuthorID:    userIDs[a.rnd.Intn(len(userIDs))],
		DisplayName: displayName,
		Title:       title,
		Content:     content,
		CategoryID:  categoryID,
		MoodTag:     moodTag,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.CreatedAt,
	}, nil
}
