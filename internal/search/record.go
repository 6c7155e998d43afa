/*
Package search implements relevance ranking over a small catalog of records.

The package is a pure, in-memory core: callers pass the corpus and the query
on every call and receive a freshly allocated result. Nothing is cached or
persisted between calls, so every function is safe for concurrent use.

Ranking runs a weighted substring scorer over script-aware tokens first and
falls back to a plain substring filter when the scorer finds nothing.
*/
package search

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the kind of catalog entry a record describes.
type Category string

// The closed set of categories a record may belong to.
const (
	CategoryCourse     Category = "course"
	CategoryExperiment Category = "experiment"
	CategoryArticle    Category = "article"
	CategoryNews       Category = "news"
	CategoryDataset    Category = "dataset"
)

// Categories returns every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryCourse,
		CategoryExperiment,
		CategoryArticle,
		CategoryNews,
		CategoryDataset,
	}
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryCourse, CategoryExperiment, CategoryArticle, CategoryNews, CategoryDataset:
		return true
	}
	return false
}

// ParseCategory converts user input into a Category, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Record is a single catalog entry. Records are owned by the caller and are
// never modified by this package.
type Record struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category    Category `json:"category" yaml:"category"`
	TargetURL   string   `json:"target_url,omitempty" yaml:"target_url,omitempty"`

	// Tags keep insertion order; it drives suggestion order.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Keywords is optional. nil and empty are equivalent.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// ScoredRecord pairs a record with the relevance score it received for one
// query. Scores are only comparable within a single call.
type ScoredRecord struct {
	Record
	Score int `json:"score"`
}

var (
	// ErrInvalidRecord wraps every record validation failure.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptyTitle indicates a record without a title.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrUnknownCategory indicates a category outside the closed set.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrDuplicateID indicates two records in one corpus share an id.
	ErrDuplicateID = errors.New("duplicate record id")
)

// ValidateRecord checks the preconditions a record must satisfy before it is
// handed to the ranking functions.
//
// Validation rules:
//   - Title must not be blank
//   - Category must be one of Categories()
func ValidateRecord(r Record) error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: id %d: %w", ErrInvalidRecord, r.ID, ErrEmptyTitle)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: id %d: %w %q", ErrInvalidRecord, r.ID, ErrUnknownCategory, r.Category)
	}
	return nil
}

// ValidateCorpus validates every record and checks id uniqueness. It stops
// at the first violation.
func ValidateCorpus(corpus []Record) error {
	seen := make(map[int]struct{}, len(corpus))
	for _, r := range corpus {
		if err := ValidateRecord(r); err != nil {
			return err
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: id %d: %w", ErrInvalidRecord, r.ID, ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
