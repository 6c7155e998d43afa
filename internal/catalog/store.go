/*
Package catalog holds the record corpus that the ranking core searches and
the service that every front end (CLI, HTTP API, MCP server) calls.

A catalog file is YAML or JSON with a single top-level list:

	records:
	  - id: 1
	    title: 碳中和预测实验
	    category: experiment
	    target_url: /experiments/1
	    tags: [碳中和, 预测]
*/
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/khanglvm/catalog-search/internal/search"
)

// ErrRecordNotFound is returned when no record has the requested ID.
var ErrRecordNotFound = errors.New("record not found")

type catalogFile struct {
	Records []search.Record `yaml:"records" json:"records"`
}

// Store is an in-memory corpus snapshot guarded for concurrent readers.
type Store struct {
	mu      sync.RWMutex
	records []search.Record
}

// NewStore creates a store holding a copy of records.
func NewStore(records []search.Record) *Store {
	return &Store{records: slices.Clone(records)}
}

// Load reads and validates a catalog file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return store, nil
}

// Parse decodes and validates catalog file contents.
func Parse(data []byte) (*Store, error) {
	// YAML is a superset of JSON, so one decoder serves both formats.
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := search.ValidateCorpus(file.Records); err != nil {
		return nil, err
	}

	return &Store{records: file.Records}, nil
}

// Reload replaces the corpus with the contents of path. On any error the
// current records are kept.
func (s *Store) Reload(path string) error {
	fresh, err := Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = fresh.records
	s.mu.Unlock()
	return nil
}

// Records returns a copy of the corpus in catalog order.
func (s *Store) Records() []search.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with the given ID.
func (s *Store) Get(id int) (search.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return search.Record{}, fmt.Errorf("%w: id %d", ErrRecordNotFound, id)
}

// Add appends a record after validating it against the current corpus.
func (s *Store) Add(r search.Record) error {
	if err := search.ValidateRecord(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.ID == r.ID {
			return fmt.Errorf("%w: %w: id %d", search.ErrInvalidRecord, search.ErrDuplicateID, r.ID)
		}
	}
	s.records = append(s.records, r)
	return nil
}

// Remove deletes the record with the given ID, keeping the order of the rest.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.records, func(r search.Record) bool { return r.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: id %d", ErrRecordNotFound, id)
	}
	s.records = slices.Delete(s.records, idx, idx+1)
	return nil
}

// NextID returns one more than the highest ID in the catalog.
func (s *Store) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	next := 1
	for _, r := range s.records {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return next
}

// Save writes the catalog atomically. Files ending in .json are written as
// indented JSON, everything else as YAML.
func (s *Store) Save(path string) error {
	data, err := s.Marshal(formatFor(path))
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// Format names a catalog serialization.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported catalog format %q (want yaml or json)", s)
	}
}

// Marshal serializes the catalog in the given format.
func (s *Store) Marshal(format Format) ([]byte, error) {
	file := catalogFile{Records: s.Records()}
	if file.Records == nil {
		file.Records = []search.Record{}
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(file, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

func formatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}
