package storage

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/vehicle/internal/core/models"
)

// MaxSeat is the number of seat slots on a vehicle template.
const MaxSeat = 8

type SeatFlags uint32

const (
	SeatFlagMainRider SeatFlags = 0x00000800
	SeatFlagCanCast   SeatFlags = 0x00020000
	SeatFlagUsable    SeatFlags = 0x02000000
)

// SeatEntry is a static seat template.
type SeatEntry struct {
	ID           uint32
	Offset       mgl64.Vec3
	PassengerYaw float64
	Flags        SeatFlags
}

func (s *SeatEntry) IsUsable() bool {
	return s.Flags&SeatFlagUsable != 0
}

func (s *SeatEntry) IsMainRider() bool {
	return s.Flags&SeatFlagMainRider != 0
}

func (s *SeatEntry) CanCast() bool {
	return s.Flags&SeatFlagCanCast != 0
}

// VehiclePower classifies which resource a vehicle runs on.
type VehiclePower uint8

const (
	// VehiclePowerDefault infers the resource from the base unit's abilities.
	VehiclePowerDefault VehiclePower = iota
	VehiclePowerSteam
	VehiclePowerPyrite
)

// ParseVehiclePower reports false for names it does not know. An empty name
// selects VehiclePowerDefault.
func ParseVehiclePower(s string) (VehiclePower, bool) {
	switch s {
	case "", "default":
		return VehiclePowerDefault, true
	case "steam":
		return VehiclePowerSteam, true
	case "pyrite":
		return VehiclePowerPyrite, true
	default:
		return VehiclePowerDefault, false
	}
}

func (p VehiclePower) String() string {
	switch p {
	case VehiclePowerSteam:
		return "steam"
	case VehiclePowerPyrite:
		return "pyrite"
	default:
		return "default"
	}
}

// VehicleEntry is a static vehicle template. A zero seat id marks an unassigned slot.
type VehicleEntry struct {
	ID        uint32
	Seats     [MaxSeat]uint32
	PowerType VehiclePower
}

// CreatureEntry is a static creature template.
type CreatureEntry struct {
	Entry     uint32
	Name      string
	Faction   uint32
	Spells    []uint32
	VehicleID uint32
}

// SpellEntry carries the subset of ability data the vehicle code reads.
type SpellEntry struct {
	ID        uint32
	Name      string
	PowerType models.Power
}

// AccessoryEntry places a scripted passenger into a fixed seat of a vehicle.
type AccessoryEntry struct {
	Accessory uint32
	Seat      int8
	Minion    bool
}
