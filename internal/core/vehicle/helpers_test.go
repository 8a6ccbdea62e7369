package vehicle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/vehicle/internal/core/events"
	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/storage/storagetest"
	"github.com/zeusync/vehicle/internal/core/vehicle"
	"github.com/zeusync/vehicle/internal/core/world"
)

const testMap uint32 = 1

var spawnPos = models.NewPosition(10, 20, 0, 0)

type harness struct {
	world *world.World
	bus   bus.EventBus
	now   time.Time
}

func newHarness(t *testing.T, opts ...world.Option) *harness {
	t.Helper()
	h := &harness{
		bus: bus.New(),
		now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	opts = append([]world.Option{world.WithClock(func() time.Time { return h.now })}, opts...)
	h.world = world.New(storagetest.Store(), h.bus, log.NewNop(), opts...)
	return h
}

func (h *harness) creature(t *testing.T, entry uint32) *world.Creature {
	t.Helper()
	c, err := h.world.SpawnCreature(entry, testMap, spawnPos)
	require.NoError(t, err)
	return c
}

func (h *harness) player(name string) *world.Player {
	return h.world.SpawnPlayer(name, testMap, models.NewPosition(0, 0, 0, 0), 1)
}

// record collects the types of every notification broadcast on the test map.
func (h *harness) record(t *testing.T) *[]string {
	t.Helper()
	var seen []string
	_, err := h.bus.SubscribeTopic(events.MapTopic(testMap), bus.AnyType, func(e bus.Event) error {
		seen = append(seen, e.Type())
		return nil
	})
	require.NoError(t, err)
	return &seen
}

// requireConsistent checks the free seat count against the seat table and
// that every passenger points back at the kit.
func requireConsistent(t *testing.T, kit *vehicle.Kit) {
	t.Helper()
	free := 0
	for _, s := range kit.Seats() {
		p := s.Passenger()
		if p == nil {
			if s.Template().IsUsable() {
				free++
			}
			continue
		}
		require.Same(t, kit, p.Vehicle(), "passenger of seat %d", s.Index())
		require.Equal(t, s.Index(), p.MovementInfo().Transport().Seat)
	}
	require.Equal(t, free, kit.FreeSeats())
}

func seatIndices(kit *vehicle.Kit) []int8 {
	out := make([]int8, 0)
	for _, s := range kit.Seats() {
		out = append(out, s.Index())
	}
	return out
}

type boardCall struct {
	passenger models.GUID
	seat      int8
	boarded   bool
}

type recordingAI struct {
	calls []boardCall
}

func (r *recordingAI) PassengerBoarded(passenger vehicle.Actor, seat int8, boarded bool) {
	r.calls = append(r.calls, boardCall{passenger: passenger.GUID(), seat: seat, boarded: boarded})
}
