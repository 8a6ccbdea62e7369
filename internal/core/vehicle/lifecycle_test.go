package vehicle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/storage/storagetest"
	"github.com/zeusync/vehicle/internal/core/vehicle"
	"github.com/zeusync/vehicle/internal/core/world"
)

func TestInstall_PowerPolicies(t *testing.T) {
	tests := []struct {
		name      string
		entry     uint32
		powerType models.Power
		energy    uint32
	}{
		{name: "steam", entry: storagetest.CreatureMammoth, powerType: models.PowerEnergy, energy: 100},
		{name: "pyrite", entry: storagetest.CreatureDemolisher, powerType: models.PowerEnergy, energy: 50},
		{name: "inferred energy", entry: storagetest.CreatureTank, powerType: models.PowerEnergy, energy: 100},
		{name: "inferred mana", entry: storagetest.CreatureBike, powerType: models.PowerMana, energy: 0},
		{name: "no abilities", entry: storagetest.CreatureCrate, powerType: models.PowerMana, energy: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			c := h.creature(t, tt.entry)

			assert.Equal(t, tt.powerType, c.PowerType())
			assert.Equal(t, tt.energy, c.MaxPower(models.PowerEnergy))
			assert.Equal(t, tt.energy, c.Power(models.PowerEnergy))
		})
	}
}

func TestReset_MountableFlag(t *testing.T) {
	h := newHarness(t)
	tank := h.creature(t, storagetest.CreatureTank)
	crate := h.creature(t, storagetest.CreatureCrate)

	assert.True(t, tank.HasNPCFlag(models.NPCFlagSpellClick))
	assert.False(t, crate.HasNPCFlag(models.NPCFlagSpellClick), "no usable seats, nothing to advertise")
}

func TestInstallAccessories(t *testing.T) {
	h := newHarness(t)
	escort := h.creature(t, storagetest.CreatureEscortTank)
	kit := escort.VehicleKit()

	gunner, ok := kit.GetPassenger(1).(*world.Creature)
	require.True(t, ok)
	wolf, ok := kit.GetPassenger(2).(*world.Creature)
	require.True(t, ok)

	assert.Equal(t, storagetest.CreatureGunner, gunner.Entry())
	assert.Equal(t, storagetest.CreatureWolf, wolf.Entry())
	assert.True(t, gunner.IsTemporarySummon())
	assert.Equal(t, escort.GUID(), gunner.Summoner())
	assert.Nil(t, kit.GetPassenger(0))
	assert.Equal(t, 1, kit.FreeSeats())
	assert.True(t, escort.HasNPCFlag(models.NPCFlagSpellClick))
	assert.Equal(t, 3, h.world.Len())
	requireConsistent(t, kit)
}

func TestReset_AccessoriesIdempotent(t *testing.T) {
	h := newHarness(t)
	kit := h.creature(t, storagetest.CreatureEscortTank).VehicleKit()
	gunner := kit.GetPassenger(1)
	wolf := kit.GetPassenger(2)

	kit.Reset()
	kit.Reset()

	assert.Same(t, gunner, kit.GetPassenger(1))
	assert.Same(t, wolf, kit.GetPassenger(2))
	assert.Equal(t, 3, h.world.Len())
	requireConsistent(t, kit)
}

func TestReset_ReplacesWrongOccupant(t *testing.T) {
	h := newHarness(t)
	kit := h.creature(t, storagetest.CreatureEscortTank).VehicleKit()
	pl := h.player("squatter")

	require.NoError(t, pl.EnterVehicle(kit, 1))
	require.Same(t, pl, kit.GetPassenger(1))

	kit.Reset()

	assert.Nil(t, pl.Vehicle())
	replacement := kit.GetPassenger(1)
	require.NotNil(t, replacement)
	assert.Equal(t, storagetest.CreatureGunner, replacement.Entry())
	requireConsistent(t, kit)
}

func TestDie(t *testing.T) {
	h := newHarness(t)
	escort := h.creature(t, storagetest.CreatureEscortTank)
	kit := escort.VehicleKit()
	gunner := kit.GetPassenger(1).(*world.Creature)
	wolf := kit.GetPassenger(2).(*world.Creature)
	pl := h.player("driver")
	require.NoError(t, pl.EnterVehicle(kit, 0))

	require.NoError(t, h.world.Kill(escort.GUID()))

	assert.Equal(t, models.DeathStateJustDied, escort.DeathState())
	assert.Equal(t, models.DeathStateJustDied, gunner.DeathState())
	assert.Equal(t, models.DeathStateJustDied, wolf.DeathState())
	assert.Nil(t, pl.Vehicle())
	assert.Nil(t, gunner.Vehicle())
	assert.Nil(t, wolf.Vehicle())
	assert.Equal(t, kit.UsableSeats(), kit.FreeSeats())
	assert.Equal(t, pl.GUID(), pl.Viewpoint())

	h.world.Update(h.now)
	assert.Equal(t, models.DeathStateCorpse, gunner.DeathState())
	assert.Equal(t, 4, h.world.Len(), "corpses linger until their timer runs out")

	h.world.Update(h.now.Add(vehicle.DefaultAccessoryDespawn + time.Second))
	assert.Equal(t, 2, h.world.Len())
	_, found := h.world.Unit(gunner.GUID())
	assert.False(t, found)
}

func TestDie_NestedSummonsDepthBound(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		dead  []bool
	}{
		{name: "within bound", depth: vehicle.DefaultMaxNestingDepth, dead: []bool{true, true, true}},
		{name: "bounded", depth: 2, dead: []bool{true, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, world.WithKitOptions(vehicle.WithMaxNestingDepth(tt.depth)))
			tank := h.creature(t, storagetest.CreatureTank)

			carrier := tank.VehicleKit()
			seat := int8(1)
			var chain []*world.Creature
			for range 3 {
				summoned, err := tank.SummonCreature(storagetest.CreatureBike, tank.Position(), models.SummonCorpseTimedDespawn, time.Minute)
				require.NoError(t, err)
				bike := summoned.(*world.Creature)
				require.NoError(t, bike.EnterVehicle(carrier, seat))
				chain = append(chain, bike)
				carrier, seat = bike.VehicleKit(), 0
			}

			require.NoError(t, h.world.Kill(tank.GUID()))

			for i, bike := range chain {
				assert.Equal(t, tt.dead[i], !bike.IsAlive(), "bike %d", i)
				assert.Nil(t, bike.Vehicle(), "bike %d", i)
				requireConsistent(t, bike.VehicleKit())
			}
			requireConsistent(t, tank.VehicleKit())
		})
	}
}

func TestUninstall(t *testing.T) {
	h := newHarness(t)
	escort := h.creature(t, storagetest.CreatureEscortTank)
	kit := escort.VehicleKit()
	gunner := kit.GetPassenger(1).(*world.Creature)
	pl := h.player("driver")
	require.NoError(t, pl.EnterVehicle(kit, 0))

	kit.Uninstall()

	assert.Nil(t, pl.Vehicle())
	assert.Nil(t, gunner.Vehicle())
	assert.Equal(t, models.DeathStateAlive, gunner.DeathState(), "uninstall despawns instead of killing")
	for _, s := range kit.Seats() {
		assert.Nil(t, s.Passenger())
	}

	h.world.Update(h.now)
	assert.Equal(t, 2, h.world.Len(), "summoned accessories are gone, the player stays")
	_, found := h.world.Unit(pl.GUID())
	assert.True(t, found)
}

func TestRemoveUnit_UninstallsVehicle(t *testing.T) {
	h := newHarness(t)
	escort := h.creature(t, storagetest.CreatureEscortTank)
	pl := h.player("driver")
	require.NoError(t, h.world.Board(pl.GUID(), escort.GUID(), 0))

	kit := escort.VehicleKit()
	accessories := []vehicle.Actor{kit.GetPassenger(1), kit.GetPassenger(2)}

	require.NoError(t, h.world.Remove(escort.GUID()))

	assert.Nil(t, pl.Vehicle())
	assert.Equal(t, 3, h.world.Len(), "accessories wait for the next update")
	for _, acc := range accessories {
		assert.Nil(t, acc.Vehicle())
		_, found := h.world.Unit(acc.GUID())
		assert.True(t, found)
	}

	h.world.Update(h.now)
	assert.Equal(t, 1, h.world.Len())
	for _, acc := range accessories {
		_, found := h.world.Unit(acc.GUID())
		assert.False(t, found)
	}
	_, found := h.world.Unit(pl.GUID())
	assert.True(t, found)
}

func TestRemoveAllPassengers_Nested(t *testing.T) {
	h := newHarness(t)
	tank := h.creature(t, storagetest.CreatureTank)
	bike := h.creature(t, storagetest.CreatureBike)
	rider := h.creature(t, storagetest.CreatureGunner)
	driver := h.creature(t, storagetest.CreatureGunner)

	require.NoError(t, bike.EnterVehicle(tank.VehicleKit(), 1))
	require.NoError(t, driver.EnterVehicle(tank.VehicleKit(), 0))
	require.NoError(t, rider.EnterVehicle(bike.VehicleKit(), 0))

	tank.VehicleKit().RemoveAllPassengers()

	assert.Nil(t, bike.Vehicle())
	assert.Nil(t, rider.Vehicle())
	assert.Nil(t, driver.Vehicle())
	assert.Equal(t, 2, tank.VehicleKit().FreeSeats())
	assert.Equal(t, 1, bike.VehicleKit().FreeSeats())
	assert.Equal(t, storagetest.FactionTank, tank.Faction())
	requireConsistent(t, tank.VehicleKit())
	requireConsistent(t, bike.VehicleKit())
}

func TestRemoveAllPassengers_DepthBound(t *testing.T) {
	h := newHarness(t, world.WithKitOptions(vehicle.WithMaxNestingDepth(1)))
	tank := h.creature(t, storagetest.CreatureTank)
	bike := h.creature(t, storagetest.CreatureBike)
	rider := h.creature(t, storagetest.CreatureGunner)

	require.NoError(t, bike.EnterVehicle(tank.VehicleKit(), 1))
	require.NoError(t, rider.EnterVehicle(bike.VehicleKit(), 0))

	tank.VehicleKit().RemoveAllPassengers()

	assert.Nil(t, bike.Vehicle())
	assert.Same(t, bike.VehicleKit(), rider.Vehicle(), "passengers below the depth bound stay with their carrier")
	requireConsistent(t, tank.VehicleKit())
	requireConsistent(t, bike.VehicleKit())
}

func TestRelocatePassengers(t *testing.T) {
	h := newHarness(t)
	tank := h.creature(t, storagetest.CreatureTank)
	gunner := h.creature(t, storagetest.CreatureGunner)
	driver := h.creature(t, storagetest.CreatureGunner)
	require.NoError(t, gunner.EnterVehicle(tank.VehicleKit(), 1))
	require.NoError(t, driver.EnterVehicle(tank.VehicleKit(), 0))

	dest := models.NewPosition(100, 200, 5, 1)
	require.NoError(t, h.world.MoveUnit(tank.GUID(), dest))

	assert.Equal(t, dest.Vec3, tank.Position().Vec3)
	assert.Equal(t, models.NewPosition(99, 200, 6, 0).Vec3, gunner.Position().Vec3)
	assert.InDelta(t, 1+3.141592653589793, gunner.Position().O, 1e-9)
	assert.Equal(t, models.NewPosition(101, 200, 5.5, 0).Vec3, driver.Position().Vec3)
	assert.InDelta(t, 1.0, driver.Position().O, 1e-9)
}
