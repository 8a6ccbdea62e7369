// Package storagetest builds a small static store for tests.
package storagetest

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/storage"
)

// Seat templates.
const (
	SeatDriver uint32 = 1
	SeatGunner uint32 = 2
	SeatCargo  uint32 = 3
)

// Vehicle templates.
const (
	// VehicleTank seats a driver at 0, a gunner at 1 and cargo at 2.
	VehicleTank uint32 = 10
	// VehicleBike has a single usable seat at 0.
	VehicleBike uint32 = 11
	// VehicleHusk has no seats.
	VehicleHusk uint32 = 12
	// VehicleSteam and VehiclePyrite seat a driver at 0 and a gunner at 1.
	VehicleSteam  uint32 = 13
	VehiclePyrite uint32 = 14
	// VehicleCrate only has an unusable seat at 0.
	VehicleCrate uint32 = 15
	// VehicleSparse has gunner seats at 1, 4 and 6.
	VehicleSparse uint32 = 16
)

// Spells.
const (
	SpellFrostbolt uint32 = 500
	SpellRam       uint32 = 501
)

// Creature templates.
const (
	CreatureTank       uint32 = 1000
	CreatureGunner     uint32 = 1001
	CreatureMammoth    uint32 = 1002
	CreatureDemolisher uint32 = 1003
	CreatureBike       uint32 = 1004
	CreatureCrate      uint32 = 1005
	CreatureWolf       uint32 = 1006
	CreatureEscortTank uint32 = 1007
	CreatureSparse     uint32 = 1008
	CreatureBroken     uint32 = 1009
)

const (
	FactionTank   uint32 = 14
	FactionGunner uint32 = 35
)

// Store returns a fresh store with the fixture tables.
func Store() *storage.Store {
	s := storage.NewStore()

	s.AddSeat(storage.SeatEntry{
		ID:     SeatDriver,
		Offset: mgl64.Vec3{1, 0, 0.5},
		Flags:  storage.SeatFlagUsable | storage.SeatFlagMainRider | storage.SeatFlagCanCast,
	})
	s.AddSeat(storage.SeatEntry{
		ID:           SeatGunner,
		Offset:       mgl64.Vec3{-1, 0, 1},
		PassengerYaw: 3.141592653589793,
		Flags:        storage.SeatFlagUsable,
	})
	s.AddSeat(storage.SeatEntry{ID: SeatCargo, Offset: mgl64.Vec3{0, -1, 0}})

	s.AddVehicle(storage.VehicleEntry{ID: VehicleTank, Seats: [storage.MaxSeat]uint32{SeatDriver, SeatGunner, SeatCargo}})
	s.AddVehicle(storage.VehicleEntry{ID: VehicleBike, Seats: [storage.MaxSeat]uint32{SeatGunner}})
	s.AddVehicle(storage.VehicleEntry{ID: VehicleHusk})
	s.AddVehicle(storage.VehicleEntry{
		ID:        VehicleSteam,
		Seats:     [storage.MaxSeat]uint32{SeatDriver, SeatGunner},
		PowerType: storage.VehiclePowerSteam,
	})
	s.AddVehicle(storage.VehicleEntry{
		ID:        VehiclePyrite,
		Seats:     [storage.MaxSeat]uint32{SeatDriver, SeatGunner},
		PowerType: storage.VehiclePowerPyrite,
	})
	s.AddVehicle(storage.VehicleEntry{ID: VehicleCrate, Seats: [storage.MaxSeat]uint32{SeatCargo}})
	s.AddVehicle(storage.VehicleEntry{ID: VehicleSparse, Seats: [storage.MaxSeat]uint32{0, SeatGunner, 0, 0, SeatGunner, 0, SeatGunner}})

	s.AddSpell(storage.SpellEntry{ID: SpellFrostbolt, Name: "Frostbolt", PowerType: models.PowerMana})
	s.AddSpell(storage.SpellEntry{ID: SpellRam, Name: "Ram", PowerType: models.PowerEnergy})

	s.AddCreature(storage.CreatureEntry{
		Entry:     CreatureTank,
		Name:      "Siege Tank",
		Faction:   FactionTank,
		Spells:    []uint32{0, 9999, SpellRam, SpellFrostbolt},
		VehicleID: VehicleTank,
	})
	s.AddCreature(storage.CreatureEntry{Entry: CreatureGunner, Name: "Gunner", Faction: FactionGunner})
	s.AddCreature(storage.CreatureEntry{Entry: CreatureMammoth, Name: "Mammoth", Faction: FactionTank, VehicleID: VehicleSteam})
	s.AddCreature(storage.CreatureEntry{Entry: CreatureDemolisher, Name: "Demolisher", Faction: FactionTank, VehicleID: VehiclePyrite})
	s.AddCreature(storage.CreatureEntry{
		Entry:     CreatureBike,
		Name:      "Bike",
		Faction:   FactionTank,
		Spells:    []uint32{SpellFrostbolt, SpellRam},
		VehicleID: VehicleBike,
	})
	s.AddCreature(storage.CreatureEntry{Entry: CreatureCrate, Name: "Crate", Faction: FactionTank, VehicleID: VehicleCrate})
	s.AddCreature(storage.CreatureEntry{Entry: CreatureWolf, Name: "Wolf", Faction: FactionGunner})
	s.AddCreature(storage.CreatureEntry{Entry: CreatureEscortTank, Name: "Escort Tank", Faction: FactionTank, VehicleID: VehicleTank})
	s.AddCreature(storage.CreatureEntry{Entry: CreatureSparse, Name: "Sparse", Faction: FactionTank, VehicleID: VehicleSparse})
	s.AddCreature(storage.CreatureEntry{Entry: CreatureBroken, Name: "Broken", Faction: FactionTank, VehicleID: 404})

	s.SetAccessories(CreatureEscortTank, []storage.AccessoryEntry{
		{Accessory: CreatureGunner, Seat: 1, Minion: true},
		{Accessory: CreatureWolf, Seat: 2},
	})

	return s
}
