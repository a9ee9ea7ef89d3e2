package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/cardroom/internal/cmd/simulate"
	platformcmd "github.com/louisbranch/cardroom/internal/platform/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := simulate.ParseConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("simulate config: %v", err)
	}

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSimulate, func(ctx context.Context) error {
		return simulate.Run(ctx, cfg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("simulate: %v", err)
	}
}
