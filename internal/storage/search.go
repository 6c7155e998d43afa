package storage

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// timeLayout is fixed width so stored UTC timestamps sort as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RecordSearch records a search for analytics. Missing SearchID and
// Timestamp are filled in. Write failures are logged, not returned.
func (s *SQLiteStorage) RecordSearch(search SearchRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	if search.SearchID == "" {
		search.SearchID = uuid.NewString()
	}
	if search.Timestamp.IsZero() {
		search.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO search_history (search_id, query_hash, strategy, results_count, duration_micros, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		search.SearchID,
		search.QueryHash,
		search.Strategy,
		search.ResultsCount,
		search.DurationMicros,
		search.Timestamp.UTC().Format(timeLayout),
	)

	if err != nil {
		s.logger.Warn("failed to record search", zap.Error(err))
	}

	return nil
}

// RecentSearches returns up to limit searches, newest first.
func (s *SQLiteStorage) RecentSearches(limit int) ([]SearchRecord, error) {
	if !s.enabled || s.db == nil {
		return []SearchRecord{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT search_id, query_hash, strategy, results_count, duration_micros, timestamp
		FROM search_history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		s.logger.Warn("failed to query search history", zap.Error(err))
		return []SearchRecord{}, nil
	}
	defer rows.Close()

	records := []SearchRecord{}
	for rows.Next() {
		var rec SearchRecord
		var timestampStr string

		if err := rows.Scan(
			&rec.SearchID,
			&rec.QueryHash,
			&rec.Strategy,
			&rec.ResultsCount,
			&rec.DurationMicros,
			&timestampStr,
		); err != nil {
			s.logger.Warn("failed to scan search row", zap.Error(err))
			continue
		}

		rec.Timestamp, err = time.Parse(timeLayout, timestampStr)
		if err != nil {
			s.logger.Warn("failed to parse timestamp", zap.String("value", timestampStr), zap.Error(err))
			continue
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetSearchStats aggregates searches recorded at or after since.
func (s *SQLiteStorage) GetSearchStats(since time.Time) (*SearchStats, error) {
	stats := &SearchStats{ByStrategy: map[string]int{}}
	if !s.enabled || s.db == nil {
		return stats, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := since.UTC().Format(timeLayout)

	row := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN results_count = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(results_count), 0),
			COALESCE(AVG(duration_micros), 0)
		FROM search_history
		WHERE timestamp >= ?
	`, cutoff)
	if err := row.Scan(&stats.Total, &stats.ZeroResults, &stats.AvgResults, &stats.AvgMicros); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT strategy, COUNT(*)
		FROM search_history
		WHERE timestamp >= ?
		GROUP BY strategy
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var strategy string
		var count int
		if err := rows.Scan(&strategy, &count); err != nil {
			return nil, err
		}
		stats.ByStrategy[strategy] = count
	}

	return stats, rows.Err()
}

// Cleanup removes old records based on retention policy.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention).UTC().Format(timeLayout)

	if _, err := s.db.Exec("DELETE FROM search_history WHERE timestamp < ?", cutoff); err != nil {
		s.logger.Warn("failed to cleanup search_history", zap.Error(err))
	}

	if _, err := s.db.Exec("VACUUM"); err != nil {
		s.logger.Warn("failed to vacuum database", zap.Error(err))
	}

	return nil
}
