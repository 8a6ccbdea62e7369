package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/vehicle/internal/config"
	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/storage/storagetest"
	"github.com/zeusync/vehicle/internal/core/world"
	"github.com/zeusync/vehicle/internal/server"
)

func newTestApp(cfg config.Config) *App {
	b := bus.New()
	logger := log.NewNop()
	store := storagetest.Store()
	w := world.New(store, b, logger)
	return New(cfg, logger, store, b, w, server.NewServer(cfg.Server, w, b, logger))
}

func TestSpawnScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Scenario = []config.Spawn{
		{Entry: storagetest.CreatureEscortTank, Map: 1, Count: 2},
		{Entry: storagetest.CreatureWolf, Map: 1},
		{Entry: 4242, Map: 1, Count: 3},
	}
	a := newTestApp(cfg)

	err := a.SpawnScenario()

	require.ErrorIs(t, err, world.ErrUnknownEntry)
	// two escort tanks with two accessories each, plus the wolf
	assert.Equal(t, 7, a.World.Len())
	assert.Len(t, a.World.Snapshots(), 2)
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.ListenAddr = "127.0.0.1:0"
	cfg.Tick = 5 * time.Millisecond
	cfg.DataCheck = 0
	a := newTestApp(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.Server.Addr() != "" }, time.Second, 5*time.Millisecond)
	resp, err := http.Get("http://" + a.Server.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
