// Package memory provides an in-memory storage implementation for tests and
// the local simulator. It honors the same optimistic-concurrency contract as
// the SQLite store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/storage"
)

// Store keeps tables, hand records, and events in process memory.
type Store struct {
	mu      sync.Mutex
	tables  map[string]domain.Table
	records map[string][]domain.HandRecord
	events  []storage.EngineEvent
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		tables:  make(map[string]domain.Table),
		records: make(map[string][]domain.HandRecord),
	}
}

// cloneTable deep-copies a table through its JSON form, the same shape the
// SQLite store round-trips.
func cloneTable(table domain.Table) (domain.Table, error) {
	payload, err := json.Marshal(table)
	if err != nil {
		return domain.Table{}, fmt.Errorf("marshal table: %w", err)
	}
	var out domain.Table
	if err := json.Unmarshal(payload, &out); err != nil {
		return domain.Table{}, fmt.Errorf("unmarshal table: %w", err)
	}
	return out, nil
}

// CreateTable stores a new table at version 1.
func (s *Store) CreateTable(ctx context.Context, table domain.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clone, err := cloneTable(table)
	if err != nil {
		return err
	}
	clone.Version = 1

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tables[clone.ID]; exists {
		return fmt.Errorf("table %s already exists", clone.ID)
	}
	s.tables[clone.ID] = clone
	return nil
}

// LoadTable returns the stored table with its version token.
func (s *Store) LoadTable(ctx context.Context, id string) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}
	s.mu.Lock()
	table, ok := s.tables[id]
	s.mu.Unlock()
	if !ok {
		return domain.Table{}, storage.ErrNotFound
	}
	return cloneTable(table)
}

// SaveTable commits the table when the stored version matches the version
// the caller loaded, then bumps the version token.
func (s *Store) SaveTable(ctx context.Context, table domain.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clone, err := cloneTable(table)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tables[clone.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if current.Version != clone.Version {
		return storage.ErrVersionConflict
	}
	clone.Version++
	s.tables[clone.ID] = clone
	return nil
}

// ListActiveTableIDs returns ids of tables that are neither ended nor paused.
func (s *Store) ListActiveTableIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for id, table := range s.tables {
		if table.Phase != domain.PhaseEnded && !table.Paused {
			out = append(out, id)
		}
	}
	return out, nil
}

// AppendHandRecord appends an immutable hand summary.
func (s *Store) AppendHandRecord(ctx context.Context, record domain.HandRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.TableID] = append(s.records[record.TableID], record)
	return nil
}

// ListHandRecords returns up to limit records for a table, newest first.
func (s *Store) ListHandRecords(ctx context.Context, tableID string, limit int) ([]domain.HandRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.records[tableID]
	out := make([]domain.HandRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, records[i])
	}
	return out, nil
}

// AppendEngineEvent appends an engine event.
func (s *Store) AppendEngineEvent(ctx context.Context, event storage.EngineEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the appended engine events. Test helper.
func (s *Store) Events() []storage.EngineEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storage.EngineEvent, len(s.events))
	copy(out, s.events)
	return out
}
