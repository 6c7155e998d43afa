/*
Package storage provides data models for the search-history log.
*/
package storage

import "time"

// SearchRecord represents one served search.
type SearchRecord struct {
	// SearchID is a unique identifier for this search (UUID).
	SearchID string `json:"search_id"`

	// QueryHash is the SHA256 hash of the search query for privacy.
	QueryHash string `json:"query_hash"`

	// Strategy is the ranking path that produced the result
	// ("all", "scored" or "fuzzy").
	Strategy string `json:"strategy"`

	// ResultsCount is the number of results returned.
	ResultsCount int `json:"results_count"`

	// DurationMicros is how long ranking took.
	DurationMicros int64 `json:"duration_micros"`

	// Timestamp is when the search was performed.
	Timestamp time.Time `json:"timestamp"`
}

// SearchStats aggregates recorded searches over a time window.
type SearchStats struct {
	Total       int            `json:"total"`
	ZeroResults int            `json:"zero_results"`
	AvgResults  float64        `json:"avg_results"`
	AvgMicros   float64        `json:"avg_micros"`
	ByStrategy  map[string]int `json:"by_strategy"`
}
