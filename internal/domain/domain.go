// Package domain holds the core value types shared across the import pipeline.
package domain

import "time"

// RawPost is a single post fetched from the content source. It is never
// mutated after fetching; the pipeline derives new values from it instead.
type RawPost struct {
	ID           string
	Title        string
	Body         string
	Author       string
	CreatedAt    time.Time
	SourceTag    string
	CategoryHint string
}

// Category is a letter grouping entity read from the database. The
// description, when present, is fed to the model-assisted classifier.
type Category struct {
	ID          string
	Name        string
	Description string
}

// Letter is the persisted output record. Both timestamps carry the source
// post's creation instant; letters are insert-only and have no update path.
type Letter struct {
	ID          string
	AuthorID    string
	DisplayName string
	Title       string
	Content     string
	CategoryID  string
	MoodTag     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AnonymousAuthor is the sentinel the source uses for deleted accounts.
const AnonymousAuthor = "deleted"
