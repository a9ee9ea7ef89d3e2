// Package sqlite persists tables, hand records, and engine events in a
// SQLite database. Table state is stored as a JSON payload beside a few
// indexed columns; writes go through an optimistic version check.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/cardroom/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store implements the storage contracts over a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path, applies
// pending migrations, and returns a ready Store.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids lock contention
	// between the engine and the driver.
	db.SetMaxOpenConns(1)

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(db, migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateTable stores a new table at version 1.
func (s *Store) CreateTable(ctx context.Context, table domain.Table) error {
	table.Version = 1
	payload, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO tables (id, variant, phase, paused, version, payload, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		table.ID,
		table.Variant,
		string(table.Phase),
		boolToInt(table.Paused),
		table.Version,
		string(payload),
		table.CreatedAt.UTC().UnixMilli(),
		table.UpdatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

// LoadTable returns the stored table with its version token.
func (s *Store) LoadTable(ctx context.Context, id string) (domain.Table, error) {
	var payload string
	var version int64
	row := s.db.QueryRowContext(ctx, "SELECT payload, version FROM tables WHERE id = ?", id)
	if err := row.Scan(&payload, &version); err != nil {
		if err == sql.ErrNoRows {
			return domain.Table{}, storage.ErrNotFound
		}
		return domain.Table{}, fmt.Errorf("load table: %w", err)
	}

	var table domain.Table
	if err := json.Unmarshal([]byte(payload), &table); err != nil {
		return domain.Table{}, fmt.Errorf("unmarshal table: %w", err)
	}
	table.Version = version
	return table, nil
}

// SaveTable commits the table when the stored version still matches the
// version it was loaded with, bumping the version token on success.
func (s *Store) SaveTable(ctx context.Context, table domain.Table) error {
	expected := table.Version
	table.Version = expected + 1
	payload, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
UPDATE tables
SET variant = ?, phase = ?, paused = ?, version = ?, payload = ?, updated_at = ?
WHERE id = ? AND version = ?
`,
		table.Variant,
		string(table.Phase),
		boolToInt(table.Paused),
		table.Version,
		string(payload),
		table.UpdatedAt.UTC().UnixMilli(),
		table.ID,
		expected,
	)
	if err != nil {
		return fmt.Errorf("update table: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update table rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := s.tableExists(ctx, table.ID)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}
		return storage.ErrVersionConflict
	}
	return nil
}

func (s *Store) tableExists(ctx context.Context, id string) (bool, error) {
	var found int
	row := s.db.QueryRowContext(ctx, "SELECT 1 FROM tables WHERE id = ?", id)
	if err := row.Scan(&found); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return true, nil
}

// ListActiveTableIDs returns ids of tables that are neither ended nor paused.
func (s *Store) ListActiveTableIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM tables WHERE phase != ? AND paused = 0 ORDER BY updated_at",
		string(domain.PhaseEnded),
	)
	if err != nil {
		return nil, fmt.Errorf("list active tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan table id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table ids: %w", err)
	}
	return ids, nil
}

// AppendHandRecord appends an immutable hand summary.
func (s *Store) AppendHandRecord(ctx context.Context, record domain.HandRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal hand record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO hand_records (table_id, hand_num, variant, payload, completed_at)
VALUES (?, ?, ?, ?, ?)
`,
		record.TableID,
		record.HandNum,
		record.Variant,
		string(payload),
		record.CompletedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert hand record: %w", err)
	}
	return nil
}

// ListHandRecords returns up to limit records for a table, newest first.
// A non-positive limit returns all records.
func (s *Store) ListHandRecords(ctx context.Context, tableID string, limit int) ([]domain.HandRecord, error) {
	query := "SELECT payload FROM hand_records WHERE table_id = ? ORDER BY hand_num DESC"
	args := []any{tableID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list hand records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.HandRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan hand record: %w", err)
		}
		var record domain.HandRecord
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			return nil, fmt.Errorf("unmarshal hand record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hand records: %w", err)
	}
	return records, nil
}

// AppendEngineEvent appends an engine event.
func (s *Store) AppendEngineEvent(ctx context.Context, event storage.EngineEvent) error {
	detail := "{}"
	if len(event.Detail) > 0 {
		encoded, err := json.Marshal(event.Detail)
		if err != nil {
			return fmt.Errorf("marshal event detail: %w", err)
		}
		detail = string(encoded)
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO engine_events (table_id, event_type, detail, created_at)
VALUES (?, ?, ?, ?)
`,
		event.TableID,
		event.Type,
		detail,
		timestamp.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert engine event: %w", err)
	}
	return nil
}

// ListEngineEvents returns events for a table in append order. Test and
// inspection helper.
func (s *Store) ListEngineEvents(ctx context.Context, tableID string) ([]storage.EngineEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT event_type, detail, created_at FROM engine_events WHERE table_id = ? ORDER BY id",
		tableID,
	)
	if err != nil {
		return nil, fmt.Errorf("list engine events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []storage.EngineEvent
	for rows.Next() {
		var eventType, detail string
		var createdAt int64
		if err := rows.Scan(&eventType, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan engine event: %w", err)
		}
		event := storage.EngineEvent{
			TableID:   tableID,
			Type:      eventType,
			Timestamp: time.UnixMilli(createdAt).UTC(),
		}
		if detail != "" && detail != "{}" {
			if err := json.Unmarshal([]byte(detail), &event.Detail); err != nil {
				return nil, fmt.Errorf("unmarshal event detail: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engine events: %w", err)
	}
	return events, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
