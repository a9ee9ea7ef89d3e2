package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/cardroom/internal/cmd/tabled"
	platformcmd "github.com/louisbranch/cardroom/internal/platform/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := tabled.ParseConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("tabled config: %v", err)
	}

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceTabled, func(ctx context.Context) error {
		return tabled.Run(ctx, cfg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("tabled: %v", err)
	}
}
