// Package filestore is the fallback of last resort: one JSON container per
// table under a data directory. Every append reads the whole container back
// before rewriting it, so a crash between calls never loses prior appends,
// and the rewrite itself goes through a temp file plus rename.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abakirov/lakeview/internal/domain"
	"github.com/abakirov/lakeview/internal/tabular"
)

type Store struct {
	dir    string
	logger *zap.Logger

	// Guards whole-container read-modify-write cycles. The data layer is
	// caller-serialized by contract, but the ingest consumer and the HTTP
	// edge may share one manager, so the store protects itself.
	mu sync.RWMutex
}

func New(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

var _ tabular.Backend = (*Store)(nil)

func (s *Store) path(table string) string {
	return filepath.Join(s.dir, table+".json")
}

// CreateTable resets the named container to an empty sequence.
func (s *Store) CreateTable(ctx context.Context, t tabular.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(t.Name, []tabular.Record{}); err != nil {
		return err
	}
	s.logger.Info("local table reset", zap.String("table", t.Name), zap.String("path", s.path(t.Name)))
	return nil
}

// Append loads the existing records, assigns housekeeping fields if absent
// and rewrites the container. A write failure is fatal for the operation.
func (s *Store) Append(ctx context.Context, table string, rec tabular.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(table)
	if err != nil {
		return err
	}

	row := rec.Clone()
	if row.String(tabular.FieldID) == "" {
		row[tabular.FieldID] = fmt.Sprintf("%s_%d_%d", table, len(existing), time.Now().UnixNano())
	}
	if row.String(tabular.FieldCreatedAt) == "" {
		row[tabular.FieldCreatedAt] = time.Now().UTC().Format(time.RFC3339Nano)
	}

	return s.save(table, append(existing, row))
}

// Query returns the records matching the filter, in append order.
func (s *Store) Query(ctx context.Context, table string, filter tabular.Filter) ([]tabular.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.load(table)
	if err != nil {
		return nil, err
	}

	out := make([]tabular.Record, 0, len(records))
	for _, rec := range records {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// load reads the container; a missing file is an empty table, not an error.
func (s *Store) load(table string) ([]tabular.Record, error) {
	data, err := os.ReadFile(s.path(table))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrPersistence, s.path(table), err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []tabular.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrPersistence, s.path(table), err)
	}
	return records, nil
}

// save rewrites the container all-or-nothing: temp file in the same
// directory, then rename over the previous contents.
func (s *Store) save(table string, records []tabular.Record) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", domain.ErrPersistence, s.dir, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrPersistence, table, err)
	}

	tmp, err := os.CreateTemp(s.dir, table+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: temp file for %s: %v", domain.ErrPersistence, table, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", domain.ErrPersistence, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path(table)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %v", domain.ErrPersistence, tmpName, err)
	}
	return nil
}
