// Package tabled wires the table service: the variant catalog, the SQLite
// store, the flow engine, the auto-advance driver, and a gRPC health server.
package tabled

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/louisbranch/cardroom/internal/broadcast"
	"github.com/louisbranch/cardroom/internal/game/driver"
	"github.com/louisbranch/cardroom/internal/game/engine"
	"github.com/louisbranch/cardroom/internal/game/variants"
	platformcmd "github.com/louisbranch/cardroom/internal/platform/cmd"
	"github.com/louisbranch/cardroom/internal/storage/sqlite"
	"github.com/louisbranch/cardroom/internal/telemetry"
)

// Config holds the tabled service configuration.
type Config struct {
	DBPath       string        `env:"CARDROOM_DB_PATH" envDefault:"cardroom.db"`
	Port         int           `env:"CARDROOM_PORT" envDefault:"8080"`
	PollInterval time.Duration `env:"CARDROOM_POLL_INTERVAL" envDefault:"250ms"`
	Workers      int           `env:"CARDROOM_WORKERS" envDefault:"4"`
	TurnTimeout  time.Duration `env:"CARDROOM_TURN_TIMEOUT" envDefault:"30s"`
	LeaseTimeout time.Duration `env:"CARDROOM_LEASE_TIMEOUT" envDefault:"2s"`
	SaveRetries  int           `env:"CARDROOM_SAVE_RETRIES" envDefault:"3"`
}

// ParseConfig loads configuration from the environment, then lets flags
// override it.
func ParseConfig(args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet(platformcmd.ServiceTabled, flag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "gRPC listen port")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "driver polling interval")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "driver worker count")
	fs.DurationVar(&cfg.TurnTimeout, "turn-timeout", cfg.TurnTimeout, "per-seat think time, 0 disables")
	fs.DurationVar(&cfg.LeaseTimeout, "lease-timeout", cfg.LeaseTimeout, "per-table lease wait")
	fs.IntVar(&cfg.SaveRetries, "save-retries", cfg.SaveRetries, "optimistic save retry budget")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the service and blocks until the context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	catalog, err := variants.NewCatalog()
	if err != nil {
		return fmt.Errorf("build variant catalog: %w", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	eng, err := engine.New(engine.Config{
		Catalog:      catalog,
		Tables:       store,
		Records:      store,
		Emitter:      telemetry.NewEmitter(store, nil),
		Broadcaster:  broadcast.Logger{},
		TurnTimeout:  cfg.TurnTimeout,
		LeaseTimeout: cfg.LeaseTimeout,
		SaveRetries:  cfg.SaveRetries,
	})
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	drv := driver.New(eng, store, driver.Config{
		PollInterval: cfg.PollInterval,
		Workers:      cfg.Workers,
	})

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", cfg.Port, err)
	}

	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errc := make(chan error, 2)
	go func() {
		log.Printf("tabled listening port=%d db=%s variants=%d", cfg.Port, cfg.DBPath, len(catalog.Codes()))
		errc <- server.Serve(listener)
	}()
	go func() {
		errc <- drv.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		server.GracefulStop()
		return ctx.Err()
	case err := <-errc:
		server.GracefulStop()
		return err
	}
}
