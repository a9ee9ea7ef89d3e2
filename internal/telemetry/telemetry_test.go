package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/storage"
)

type fakeEventStore struct {
	events []storage.EngineEvent
	err    error
}

func (f *fakeEventStore) AppendEngineEvent(_ context.Context, event storage.EngineEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func TestEmitterRecordsPhaseEntered(t *testing.T) {
	store := &fakeEventStore{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	emitter := NewEmitter(store, func() time.Time { return now })

	emitter.PhaseEntered(context.Background(), "table-1", domain.PhaseDealing, domain.TriggerDeal)

	if len(store.events) != 1 {
		t.Fatalf("events = %d, want 1", len(store.events))
	}
	event := store.events[0]
	if event.Type != EventPhaseEntered || event.TableID != "table-1" {
		t.Fatalf("event = %+v, want phase_entered for table-1", event)
	}
	if event.Detail["phase"] != "Dealing" || event.Detail["trigger"] != "Deal" {
		t.Fatalf("detail = %v, want phase and trigger", event.Detail)
	}
	if !event.Timestamp.Equal(now) {
		t.Fatalf("timestamp = %v, want %v", event.Timestamp, now)
	}
}

func TestEmitterRecordsHandSettled(t *testing.T) {
	store := &fakeEventStore{}
	emitter := NewEmitter(store, nil)

	emitter.HandSettled(context.Background(), "table-1", 4, 15)

	if len(store.events) != 1 {
		t.Fatalf("events = %d, want 1", len(store.events))
	}
	detail := store.events[0].Detail
	if detail["hand"] != "4" || detail["pot"] != "15" {
		t.Fatalf("detail = %v, want hand 4 pot 15", detail)
	}
}

func TestEmitterSwallowsStoreErrors(t *testing.T) {
	store := &fakeEventStore{err: errors.New("disk full")}
	emitter := NewEmitter(store, nil)

	// Must not panic or surface the error.
	emitter.TablePaused(context.Background(), "table-1", "hook fault")
}

func TestNilEmitterIsSafe(t *testing.T) {
	var emitter *Emitter
	emitter.ActionApplied(context.Background(), "table-1", "p1", "fold")
}
