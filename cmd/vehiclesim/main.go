package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/vehicle/internal/config"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := injector.InitializeApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Provide().Sync() }()

	if err = a.SpawnScenario(); err != nil {
		a.Logger.Warn("Scenario incomplete", log.Error(err))
	}

	if err = a.Run(ctx); err != nil {
		a.Logger.Error("Simulator stopped", log.Error(err))
		os.Exit(1)
	}
}
