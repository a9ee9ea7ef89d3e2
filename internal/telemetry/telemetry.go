// Package telemetry records engine events for operational history. Emission
// is best effort: a failed append is logged and never fails the transition
// that produced it.
package telemetry

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/storage"
)

// Event types appended to the engine event log.
const (
	EventPhaseEntered  = "phase_entered"
	EventActionApplied = "action_applied"
	EventHandSettled   = "hand_settled"
	EventTablePaused   = "table_paused"
	EventTableResumed  = "table_resumed"
)

// Emitter appends engine events to an event store. A nil Emitter discards
// everything, so callers never need a nil check.
type Emitter struct {
	store storage.EventStore
	now   func() time.Time
}

// NewEmitter creates an emitter backed by store. now defaults to time.Now.
func NewEmitter(store storage.EventStore, now func() time.Time) *Emitter {
	if now == nil {
		now = time.Now
	}
	return &Emitter{store: store, now: now}
}

// PhaseEntered records a committed phase transition.
func (e *Emitter) PhaseEntered(ctx context.Context, tableID string, phase domain.Phase, trigger domain.Trigger) {
	e.emit(ctx, tableID, EventPhaseEntered, map[string]string{
		"phase":   string(phase),
		"trigger": string(trigger),
	})
}

// ActionApplied records an accepted player action.
func (e *Emitter) ActionApplied(ctx context.Context, tableID, playerID, kind string) {
	e.emit(ctx, tableID, EventActionApplied, map[string]string{
		"player": playerID,
		"kind":   kind,
	})
}

// HandSettled records a completed settlement.
func (e *Emitter) HandSettled(ctx context.Context, tableID string, handNum, pot int) {
	e.emit(ctx, tableID, EventHandSettled, map[string]string{
		"hand": strconv.Itoa(handNum),
		"pot":  strconv.Itoa(pot),
	})
}

// TablePaused records an operator or fault pause.
func (e *Emitter) TablePaused(ctx context.Context, tableID, reason string) {
	e.emit(ctx, tableID, EventTablePaused, map[string]string{"reason": reason})
}

// TableResumed records a resume.
func (e *Emitter) TableResumed(ctx context.Context, tableID string) {
	e.emit(ctx, tableID, EventTableResumed, nil)
}

func (e *Emitter) emit(ctx context.Context, tableID, eventType string, detail map[string]string) {
	if e == nil || e.store == nil {
		return
	}
	event := storage.EngineEvent{
		TableID:   tableID,
		Type:      eventType,
		Detail:    detail,
		Timestamp: e.now().UTC(),
	}
	if err := e.store.AppendEngineEvent(ctx, event); err != nil {
		log.Printf("telemetry append failed table=%s type=%s err=%v", tableID, eventType, err)
	}
}
