// Package vehicle implements the occupancy table of a mountable unit: seat
// search, boarding and leaving, control handoff to the main rider and the
// lifecycle hooks that keep accessories and capacity flags in step with the
// seats.
//
// A Kit is owned by the simulation tick that drives its base unit and is not
// safe for concurrent use.
package vehicle

import (
	"time"

	"github.com/zeusync/vehicle/internal/core/events"
	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/movement"
)

// Actor is what the kit needs from any unit, whether it is the vehicle itself
// or a passenger.
type Actor interface {
	GUID() models.GUID
	Entry() uint32

	SetNPCFlag(models.NPCFlags)
	RemoveNPCFlag(models.NPCFlags)
	HasNPCFlag(models.NPCFlags) bool
	SetUnitFlag(models.UnitFlags)
	RemoveUnitFlag(models.UnitFlags)
	AddUnitState(models.UnitState)
	ClearUnitState(models.UnitState)

	MovementInfo() *movement.Info
	Position() models.Position
	SetPosition(models.Position)
	// ClearMotion drops every queued movement generator.
	ClearMotion()
	MoveIdle()

	CharmerGUID() models.GUID
	SetCharmerGUID(models.GUID)
	CharmGUID() models.GUID
	SetCharmGUID(models.GUID)
	Faction() uint32
	SetFaction(uint32)
	InitCharmInfo() *models.CharmInfo
	RemoveCharmInfo()
	RemoveAurasByType(models.AuraType)

	SendMessageToSet(n events.Notification, self bool)
	SendMonsterMoveTransport(transport Actor)

	// Vehicle is the kit this unit is riding, nil when on foot.
	Vehicle() *Kit
	// VehicleKit is the kit this unit carries when it is itself a vehicle.
	VehicleKit() *Kit
	EnterVehicle(kit *Kit, seat int8) error
	ExitVehicle()
}

// Player is a directly controlled unit.
type Player interface {
	Actor

	SetViewpoint(target Actor)
	ResetViewpoint()
	SetClientControl(target Actor, allow bool)
	VehicleSpellInitialize()
	RemovePetActionBar()
	InGroup() bool
	SetGroupUpdateFlag(models.GroupUpdateFlags)
}

// Creature is an autonomous unit driven by a Behavior.
type Creature interface {
	Actor

	AI() Behavior
	Spells() []uint32
	SetPowerType(models.Power)
	SetMaxPower(models.Power, uint32)
	SetPower(models.Power, uint32)
	SummonCreature(entry uint32, pos models.Position, kind models.SummonType, despawn time.Duration) (Creature, error)
	IsTemporarySummon() bool
	UnSummon()
	SetDeathState(models.DeathState)
}

// Behavior is the scripted layer of a creature vehicle.
type Behavior interface {
	PassengerBoarded(passenger Actor, seat int8, boarded bool)
}
