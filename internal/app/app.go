// Package app runs the vehicle simulator: the world tick, the observer server
// and the start-up scenario.
package app

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/vehicle/internal/config"
	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/storage"
	"github.com/zeusync/vehicle/internal/core/world"
	"github.com/zeusync/vehicle/internal/server"
)

type App struct {
	Config config.Config
	Logger log.Log
	Store  *storage.Store
	Bus    bus.EventBus
	World  *world.World
	Server *server.Server
}

func New(cfg config.Config, logger log.Log, store *storage.Store, b bus.EventBus, w *world.World, srv *server.Server) *App {
	return &App{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Bus:    b,
		World:  w,
		Server: srv,
	}
}

// SpawnScenario places the configured start-up creatures. Unknown entries
// are reported together after every spawn was attempted.
func (a *App) SpawnScenario() error {
	var errs []error
	for _, s := range a.Config.Scenario {
		count := s.Count
		if count == 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			c, err := a.World.SpawnCreature(s.Entry, s.Map, s.Pos())
			if err != nil {
				errs = append(errs, err)
				break
			}
			a.Logger.Info("Scenario creature spawned",
				log.GUID("unit", c.GUID()),
				log.Uint32("entry", s.Entry),
				log.Uint32("map", s.Map),
				log.Bool("vehicle", c.VehicleKit() != nil))
		}
	}
	return errors.Join(errs...)
}

// Run serves observers and ticks the world until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.Server.Start(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.tick(ctx)
		return nil
	})

	if a.Config.DataCheck > 0 {
		g.Go(func() error {
			a.watchData(ctx)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		return a.Server.Stop(stopCtx)
	})

	return g.Wait()
}

func (a *App) tick(ctx context.Context) {
	ticker := time.NewTicker(a.Config.Tick)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			a.World.Update(now)
		case <-ctx.Done():
			return
		}
	}
}

// watchData warns when the data files on disk no longer match the tables in
// use. Tables are only read at start-up.
func (a *App) watchData(ctx context.Context) {
	ticker := time.NewTicker(a.Config.DataCheck)
	defer ticker.Stop()

	warned := false
	for {
		select {
		case <-ticker.C:
			changed, err := a.Store.Changed(a.Config.DataDir)
			if err != nil {
				a.Logger.Warn("Data check failed", log.Error(err))
				continue
			}
			if changed && !warned {
				a.Logger.Warn("Static data changed on disk, restart to apply", log.String("dir", a.Config.DataDir))
			}
			warned = changed
		case <-ctx.Done():
			return
		}
	}
}
