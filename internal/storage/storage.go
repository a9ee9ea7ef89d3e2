// Package storage defines the persistence contracts the flow engine depends
// on. The engine treats these collaborators as the sole durable record of
// table state; it holds no other durable state itself.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/cardroom/internal/game/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrVersionConflict indicates an optimistic-concurrency check failed: the
// stored version no longer matches the version the caller loaded.
var ErrVersionConflict = errors.New("table version conflict")

// TableStore persists table aggregates with optimistic concurrency. Loaded
// tables carry their stored version token; SaveTable commits only when the
// stored version still matches the token the table was loaded with.
type TableStore interface {
	CreateTable(ctx context.Context, table domain.Table) error
	LoadTable(ctx context.Context, id string) (domain.Table, error)
	SaveTable(ctx context.Context, table domain.Table) error
	// ListActiveTableIDs returns ids of tables that are neither ended nor
	// paused, for the auto-advance driver.
	ListActiveTableIDs(ctx context.Context) ([]string, error)
}

// HandRecordStore appends and reads immutable per-hand summaries.
type HandRecordStore interface {
	AppendHandRecord(ctx context.Context, record domain.HandRecord) error
	ListHandRecords(ctx context.Context, tableID string, limit int) ([]domain.HandRecord, error)
}

// EngineEvent records one observable engine occurrence for a table.
type EngineEvent struct {
	TableID   string
	Type      string
	Detail    map[string]string
	Timestamp time.Time
}

// EventStore appends engine events for operational history.
type EventStore interface {
	AppendEngineEvent(ctx context.Context, event EngineEvent) error
}
