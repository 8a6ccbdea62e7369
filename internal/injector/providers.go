package injector

import (
	"context"

	"github.com/google/wire"

	"github.com/zeusync/vehicle/internal/app"
	"github.com/zeusync/vehicle/internal/config"
	"github.com/zeusync/vehicle/internal/core/ai"
	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/storage"
	"github.com/zeusync/vehicle/internal/core/vehicle"
	"github.com/zeusync/vehicle/internal/core/world"
	"github.com/zeusync/vehicle/internal/server"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideStore,
	bus.New,
	ProvideWorld,
	ProvideServer,
	app.New,
)

func ProvideLogger(cfg config.Config) (*log.Logger, error) {
	return log.NewWithConfig(cfg.Log)
}

func ProvideStore(ctx context.Context, cfg config.Config, logger log.Log) (*storage.Store, error) {
	return storage.LoadDir(ctx, cfg.DataDir, logger)
}

func ProvideWorld(cfg config.Config, store *storage.Store, b bus.EventBus, logger log.Log) *world.World {
	return world.New(store, b, logger,
		world.WithAIFactory(ai.Factory(logger, nil)),
		world.WithKitOptions(
			vehicle.WithMaxNestingDepth(cfg.Vehicle.MaxNestingDepth),
			vehicle.WithAccessoryDespawn(cfg.Vehicle.AccessoryDespawn),
		),
	)
}

func ProvideServer(cfg config.Config, w *world.World, b bus.EventBus, logger log.Log) *server.Server {
	return server.NewServer(cfg.Server, w, b, logger)
}
