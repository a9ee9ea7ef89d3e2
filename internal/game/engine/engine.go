// Package engine orchestrates table transitions. It is the only writer of
// table state: every player action and every automatic advancement loads the
// table, applies exactly one transition under a per-table lease, and commits
// it back through an optimistic version check.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/cardroom/internal/broadcast"
	"github.com/louisbranch/cardroom/internal/game/domain"
	"github.com/louisbranch/cardroom/internal/game/rules"
	"github.com/louisbranch/cardroom/internal/platform/errors"
	"github.com/louisbranch/cardroom/internal/random"
	"github.com/louisbranch/cardroom/internal/storage"
	"github.com/louisbranch/cardroom/internal/telemetry"
)

const (
	defaultLeaseTimeout = 2 * time.Second
	defaultSaveRetries  = 3
)

// Config wires an Engine's collaborators.
type Config struct {
	Catalog     *rules.Catalog
	Tables      storage.TableStore
	Records     storage.HandRecordStore
	Emitter     *telemetry.Emitter
	Broadcaster broadcast.Broadcaster

	// TurnTimeout bounds each acting seat's think time. Zero disables turn
	// timers.
	TurnTimeout time.Duration
	// LeaseTimeout bounds how long a caller waits for a table's lease before
	// a Busy rejection.
	LeaseTimeout time.Duration
	// SaveRetries bounds reload attempts after an optimistic save conflict.
	SaveRetries int

	Now  func() time.Time
	Seed func() (int64, error)
}

// Engine advances tables through their variant state machines.
type Engine struct {
	catalog     *rules.Catalog
	tables      storage.TableStore
	records     storage.HandRecordStore
	emitter     *telemetry.Emitter
	broadcaster broadcast.Broadcaster

	turnTimeout  time.Duration
	leaseTimeout time.Duration
	saveRetries  int

	leases *leaseSet
	tracer trace.Tracer
	now    func() time.Time
	seed   func() (int64, error)
}

// New creates an engine from config, applying defaults for optional fields.
func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("rule catalog is required")
	}
	if cfg.Tables == nil {
		return nil, fmt.Errorf("table store is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Seed == nil {
		cfg.Seed = random.NewSeed
	}
	if cfg.Broadcaster == nil {
		cfg.Broadcaster = broadcast.Nop{}
	}
	if cfg.LeaseTimeout <= 0 {
		cfg.LeaseTimeout = defaultLeaseTimeout
	}
	if cfg.SaveRetries <= 0 {
		cfg.SaveRetries = defaultSaveRetries
	}
	return &Engine{
		catalog:      cfg.Catalog,
		tables:       cfg.Tables,
		records:      cfg.Records,
		emitter:      cfg.Emitter,
		broadcaster:  cfg.Broadcaster,
		turnTimeout:  cfg.TurnTimeout,
		leaseTimeout: cfg.LeaseTimeout,
		saveRetries:  cfg.SaveRetries,
		leases:       newLeaseSet(),
		tracer:       otel.Tracer("cardroom/engine"),
		now:          cfg.Now,
		seed:         cfg.Seed,
	}, nil
}

// CreateTable validates the variant against the catalog, creates the table in
// the Setup phase, and persists it.
func (e *Engine) CreateTable(ctx context.Context, input domain.CreateTableInput) (domain.Table, error) {
	entry, err := e.catalog.Lookup(input.Variant)
	if err != nil {
		return domain.Table{}, err
	}
	if max := entry.Descriptor.MaxSeats; max > 0 && len(input.Seats) > max {
		return domain.Table{}, errors.WithMetadata(errors.CodeMalformedAction,
			fmt.Sprintf("%s seats at most %d players, got %d", input.Variant, max, len(input.Seats)),
			map[string]string{"max_seats": fmt.Sprint(max), "seats": fmt.Sprint(len(input.Seats))})
	}

	table, err := domain.CreateTable(input, e.now, nil)
	if err != nil {
		return domain.Table{}, errors.Wrap(errors.CodeMalformedAction, err.Error(), err)
	}
	if err := e.tables.CreateTable(ctx, table); err != nil {
		return domain.Table{}, fmt.Errorf("persist table: %w", err)
	}
	table.Version = 1

	e.broadcaster.Broadcast(ctx, broadcast.Public(&table), broadcast.Private(&table))
	return table, nil
}

// Table loads a table by id.
func (e *Engine) Table(ctx context.Context, tableID string) (domain.Table, error) {
	table, err := e.tables.LoadTable(ctx, tableID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return domain.Table{}, errors.WithMetadata(errors.CodeNotFound,
				fmt.Sprintf("table %s not found", tableID),
				map[string]string{"table": tableID})
		}
		return domain.Table{}, fmt.Errorf("load table: %w", err)
	}
	return table, nil
}

// HandHistory returns up to limit completed hand records, newest first.
func (e *Engine) HandHistory(ctx context.Context, tableID string, limit int) ([]domain.HandRecord, error) {
	if e.records == nil {
		return nil, nil
	}
	return e.records.ListHandRecords(ctx, tableID, limit)
}

// StartHand starts the first hand at the host's request instead of waiting
// for the poll loop to pick the table up.
func (e *Engine) StartHand(ctx context.Context, tableID, playerID string) (domain.Table, error) {
	return e.withTable(ctx, tableID, "start_hand", func(t *domain.Table, entry rules.Entry) (domain.Trigger, error) {
		if err := requireRunning(t); err != nil {
			return "", err
		}
		if t.HostID != playerID {
			return "", errors.WithMetadata(errors.CodeMalformedAction,
				"only the host can start the table",
				map[string]string{"player": playerID})
		}
		return domain.TriggerStartHand, e.applyTrigger(ctx, t, entry, domain.TriggerStartHand)
	})
}

// Pause stops a table from accepting actions and automatic advancement.
func (e *Engine) Pause(ctx context.Context, tableID, reason string) (domain.Table, error) {
	return e.withTable(ctx, tableID, "pause", func(t *domain.Table, _ rules.Entry) (domain.Trigger, error) {
		if t.Paused {
			return "", errors.New(errors.CodeTablePaused, "table is already paused")
		}
		t.Paused = true
		t.PauseReason = reason
		e.emitter.TablePaused(ctx, tableID, reason)
		return "", nil
	})
}

// Resume lifts a pause. Turn deadlines restart from now so nobody times out
// for time spent paused.
func (e *Engine) Resume(ctx context.Context, tableID string) (domain.Table, error) {
	return e.withTable(ctx, tableID, "resume", func(t *domain.Table, _ rules.Entry) (domain.Trigger, error) {
		if !t.Paused {
			return "", errors.New(errors.CodeMalformedAction, "table is not paused")
		}
		t.Paused = false
		t.PauseReason = ""
		if t.TurnPos >= 0 && e.turnTimeout > 0 {
			t.TurnDeadline = e.now().UTC().Add(e.turnTimeout)
		}
		e.emitter.TableResumed(ctx, tableID)
		return "", nil
	})
}

// mutator applies one transition to the table. It returns the trigger that
// fired (empty for administrative mutations) so it can be reported after
// commit. Returning errSkipSave commits nothing.
type mutator func(t *domain.Table, entry rules.Entry) (domain.Trigger, error)

// errSkipSave signals that the mutator decided nothing needs committing.
var errSkipSave = stderrors.New("no transition due")

// withTable runs fn under the table's lease with a bounded optimistic-save
// retry loop, then emits telemetry and broadcasts the committed state.
func (e *Engine) withTable(ctx context.Context, tableID, operation string, fn mutator) (domain.Table, error) {
	ctx, span := e.tracer.Start(ctx, "engine."+operation,
		trace.WithAttributes(attribute.String("table.id", tableID)))
	defer span.End()

	if !e.leases.acquire(ctx, tableID, e.leaseTimeout) {
		return domain.Table{}, errors.WithMetadata(errors.CodeBusy,
			"table is busy with another transition",
			map[string]string{"table": tableID})
	}
	defer e.leases.release(tableID)

	var lastErr error
	for attempt := 0; attempt < e.saveRetries; attempt++ {
		table, err := e.Table(ctx, tableID)
		if err != nil {
			return domain.Table{}, err
		}
		entry, err := e.catalog.Lookup(table.Variant)
		if err != nil {
			return domain.Table{}, err
		}

		trigger, err := fn(&table, entry)
		if err != nil {
			if stderrors.Is(err, errSkipSave) {
				return table, errSkipSave
			}
			var domainErr *errors.Error
			if stderrors.As(err, &domainErr) {
				// Rejection: the table was not mutated in any way that
				// should persist.
				return domain.Table{}, err
			}
			// A hook fault is not the player's doing. Pause the table for
			// operator attention rather than leaving it wedged.
			return e.pauseOnFault(ctx, tableID, err)
		}

		table.UpdatedAt = e.now().UTC()
		if err := e.tables.SaveTable(ctx, table); err != nil {
			if stderrors.Is(err, storage.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return domain.Table{}, fmt.Errorf("save table: %w", err)
		}
		table.Version++

		if trigger != "" {
			e.emitter.PhaseEntered(ctx, tableID, table.Phase, trigger)
		}
		e.broadcaster.Broadcast(ctx, broadcast.Public(&table), broadcast.Private(&table))
		return table, nil
	}

	return domain.Table{}, errors.Wrap(errors.CodeStaleVersion,
		fmt.Sprintf("table %s changed concurrently; retries exhausted", tableID), lastErr)
}

// pauseOnFault marks the table paused after an internal hook fault. The
// faulty transition itself is discarded; only the pause is committed.
func (e *Engine) pauseOnFault(ctx context.Context, tableID string, cause error) (domain.Table, error) {
	log.Printf("engine hook fault table=%s err=%v", tableID, cause)

	table, loadErr := e.tables.LoadTable(ctx, tableID)
	if loadErr != nil {
		return domain.Table{}, fmt.Errorf("hook fault (reload failed: %v): %w", loadErr, cause)
	}
	table.Paused = true
	table.PauseReason = fmt.Sprintf("hook fault: %v", cause)
	table.UpdatedAt = e.now().UTC()
	if saveErr := e.tables.SaveTable(ctx, table); saveErr != nil {
		return domain.Table{}, fmt.Errorf("hook fault (pause failed: %v): %w", saveErr, cause)
	}
	e.emitter.TablePaused(ctx, tableID, table.PauseReason)
	return domain.Table{}, fmt.Errorf("table paused after hook fault: %w", cause)
}

// requireRunning rejects mutations on paused or ended tables.
func requireRunning(t *domain.Table) error {
	if t.Paused {
		return errors.WithMetadata(errors.CodeTablePaused,
			"table is paused",
			map[string]string{"table": t.ID, "reason": t.PauseReason})
	}
	if t.Phase == domain.PhaseEnded {
		return errors.New(errors.CodeInvalidTransition, "table has ended")
	}
	return nil
}
