// Package driver polls active tables and applies due transitions. It is the
// sole source of automatic progress: every ante collection, deal, round
// completion, settlement, and turn-timer forfeit flows through here.
package driver

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/louisbranch/cardroom/internal/game/engine"
	"github.com/louisbranch/cardroom/internal/storage"
)

const (
	defaultPollInterval = 250 * time.Millisecond
	defaultWorkers      = 4
)

// Config tunes the polling loop.
type Config struct {
	// PollInterval is the pause between polling cycles.
	PollInterval time.Duration
	// Workers is the number of tables advanced concurrently per cycle.
	Workers int
}

// Driver advances tables in the background.
type Driver struct {
	engine   *engine.Engine
	tables   storage.TableStore
	interval time.Duration
	workers  int
}

// New creates a driver, applying defaults for unset config fields.
func New(eng *engine.Engine, tables storage.TableStore, cfg Config) *Driver {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &Driver{
		engine:   eng,
		tables:   tables,
		interval: cfg.PollInterval,
		workers:  cfg.Workers,
	}
}

// Run polls until the context is cancelled. Each cycle advances every active
// table by at most one transition, so a failure on one table never starves
// the rest.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.runCycle(ctx)
		}
	}
}

// runCycle performs one polling cycle.
func (d *Driver) runCycle(ctx context.Context) {
	ids, err := d.tables.ListActiveTableIDs(ctx)
	if err != nil {
		log.Printf("driver list active tables err=%v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	work := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range work {
				d.advance(ctx, id)
			}
		}()
	}
	for _, id := range ids {
		select {
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return
		case work <- id:
		}
	}
	close(work)
	wg.Wait()
}

// advance applies at most one due transition to the table. Failures are
// logged and retried naturally on the next cycle.
func (d *Driver) advance(ctx context.Context, tableID string) {
	advanced, err := d.engine.AutoAdvance(ctx, tableID)
	if err != nil {
		log.Printf("driver advance table=%s err=%v", tableID, err)
		return
	}
	if advanced {
		log.Printf("driver advanced table=%s", tableID)
	}
}
