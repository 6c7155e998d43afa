package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khanglvm/catalog-search/internal/logger"
	"github.com/khanglvm/catalog-search/internal/metrics"
	"github.com/khanglvm/catalog-search/internal/search"
	"github.com/khanglvm/catalog-search/internal/storage"
)

// ErrInvalidQuery is returned for malformed search parameters.
var ErrInvalidQuery = errors.New("invalid query")

// Query is a search request as received from a front end.
type Query struct {
	Text     string
	Category string // optional, one of search.Categories()
	Limit    int    // <= 0 means no limit
}

// Response is the outcome of one search.
type Response struct {
	Query    string          `json:"query"`
	Strategy search.Strategy `json:"strategy"`
	// Total counts matches before Limit was applied.
	Total   int             `json:"total"`
	Results []search.Record `json:"results"`
}

// Service ranks the store's corpus and records what it served.
type Service struct {
	store   *Store
	ranker  search.Ranker
	history storage.Storage
	logger  *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithHistory records every search in h. A nil h disables history.
func WithHistory(h storage.Storage) Option {
	return func(s *Service) { s.history = h }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSegmenter swaps the tokenizer used for scoring.
func WithSegmenter(seg search.Segmenter) Option {
	return func(s *Service) { s.ranker = search.Ranker{Segmenter: seg} }
}

// NewService creates a search service over store.
func NewService(store *Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying catalog.
func (s *Service) Store() *Store {
	return s.store
}

// Search ranks the catalog against q.Text, then applies the category filter
// and the limit. History failures are logged and never fail the search.
func (s *Service) Search(ctx context.Context, q Query) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var category search.Category
	if strings.TrimSpace(q.Category) != "" {
		c, err := search.ParseCategory(q.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}
		category = c
	}

	start := time.Now()
	results, strategy := s.ranker.SearchWithStrategy(q.Text, s.store.Records())
	elapsed := time.Since(start)

	if category != "" {
		filtered := results[:0]
		for _, r := range results {
			if r.Category == category {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	total := len(results)
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	if results == nil {
		results = []search.Record{}
	}

	metrics.ObserveSearch(string(strategy), len(results), elapsed)
	s.recordHistory(ctx, q.Text, strategy, len(results), elapsed)

	s.log(ctx).Debug("search served",
		zap.String("strategy", string(strategy)),
		zap.Int("total", total),
		zap.Int("returned", len(results)),
		zap.Duration("elapsed", elapsed),
	)

	return &Response{
		Query:    q.Text,
		Strategy: strategy,
		Total:    total,
		Results:  results,
	}, nil
}

// Explain returns the scored ranking for query without fallback, so callers
// can see why records were ordered the way they were.
func (s *Service) Explain(ctx context.Context, query string) ([]search.ScoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.ranker.Rank(query, s.store.Records()), nil
}

// Suggest returns autocomplete candidates for partial.
func (s *Service) Suggest(ctx context.Context, partial string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return search.Suggest(partial, s.store.Records()), nil
}

// Segment tokenizes text with the service's segmenter.
func (s *Service) Segment(text string) []string {
	if s.ranker.Segmenter != nil {
		return s.ranker.Segmenter.Segment(text)
	}
	return search.Segment(text)
}

// Get returns a single record.
func (s *Service) Get(id int) (search.Record, error) {
	return s.store.Get(id)
}

// List returns every record, optionally restricted to one category.
func (s *Service) List(category string) ([]search.Record, error) {
	records := s.store.Records()
	if strings.TrimSpace(category) == "" {
		return records, nil
	}

	c, err := search.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	out := make([]search.Record, 0, len(records))
	for _, r := range records {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) recordHistory(ctx context.Context, query string, strategy search.Strategy, count int, elapsed time.Duration) {
	if s.history == nil {
		return
	}
	err := s.history.RecordSearch(storage.SearchRecord{
		QueryHash:      storage.HashQuery(query),
		Strategy:       string(strategy),
		ResultsCount:   count,
		DurationMicros: elapsed.Microseconds(),
	})
	if err != nil {
		s.log(ctx).Warn("failed to record search history", zap.Error(err))
	}
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}
