package vehicle

import (
	"fmt"

	"github.com/zeusync/vehicle/internal/core/events"
	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/movement"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/storage"
)

// AddPassenger seats unit, which must already be associated with k through
// EnterVehicle. AnySeat picks the first usable empty seat; a specific seat that
// is occupied has its passenger evicted first. A unit already seated on k
// changes seats. Nothing is mutated when an error is returned.
func (k *Kit) AddPassenger(unit Actor, index int8) error {
	if unit.Vehicle() != k {
		return ErrNotInVehicle
	}

	var seat *Seat
	if index == AnySeat {
		for _, s := range k.seats {
			if s.passenger == nil && s.template.IsUsable() {
				seat = s
				break
			}
		}
		if seat == nil {
			return ErrNoSeatAvailable
		}
	} else {
		seat = k.seat(index)
		if seat == nil {
			return fmt.Errorf("seat %d: %w", index, ErrNoSeatAvailable)
		}
		if seat.passenger == unit {
			return nil
		}
		if prev := seat.passenger; prev != nil {
			prev.ExitVehicle()
			if seat.passenger != nil {
				k.logger.Error("Seat occupant did not leave on eviction",
					log.Seat(seat.index),
					log.GUID("passenger", prev.GUID()),
				)
				return fmt.Errorf("seat %d: %w", index, ErrEvictionFailed)
			}
		}
	}

	if k.seatOf(unit) != nil {
		k.RemovePassenger(unit)
	}

	seat.passenger = unit
	tpl := seat.template

	if tpl.IsUsable() {
		if k.freeSeats == 0 {
			k.logger.Error("Free seat count out of sync with seat table", log.Seat(seat.index))
			panic(ErrSeatCountUnderflow)
		}
		k.freeSeats--
		if k.freeSeats == 0 {
			k.base.RemoveNPCFlag(k.mountableFlag())
		}
	}

	unit.AddUnitState(models.UnitStateOnVehicle)

	mi := unit.MovementInfo()
	mi.SetTransportData(k.base.GUID(), tpl.Offset, tpl.PassengerYaw, k.clock(), seat.index, uint32(tpl.Flags))
	mi.AddFlag(movement.FlagOnTransport)

	if tpl.IsMainRider() {
		k.transferControl(unit)
	}

	if pl, ok := unit.(Player); ok {
		pl.SetViewpoint(k.base)
		unit.SendMessageToSet(events.ForceMoveRoot{GUID: unit.GUID(), Flags: rootFlags(mi.VehicleSeatFlags())}, true)
	}

	unit.SendMonsterMoveTransport(k.base)

	k.logger.Debug("Passenger boarded",
		log.GUID("passenger", unit.GUID()),
		log.Seat(seat.index),
		log.Int("free_seats", k.freeSeats),
	)

	if cr, ok := k.base.(Creature); ok {
		k.RelocatePassengers(k.base.Position())
		if ai := cr.AI(); ai != nil {
			ai.PassengerBoarded(unit, seat.index, true)
		}
	}

	return nil
}

// transferControl hands driving authority of the base to unit.
func (k *Kit) transferControl(unit Actor) {
	k.base.ClearMotion()
	k.base.MoveIdle()
	k.base.SetCharmerGUID(unit.GUID())
	unit.SetCharmGUID(k.base.GUID())

	k.savedFaction = k.base.Faction()
	k.base.SetFaction(unit.Faction())

	var spells []uint32
	if cr, ok := k.base.(Creature); ok {
		spells = cr.Spells()
	}
	k.base.InitCharmInfo().InitVehicleActions(spells)

	if pl, ok := unit.(Player); ok {
		k.base.SetUnitFlag(models.UnitFlagPlayerControlled)
		pl.SetClientControl(k.base, true)
		pl.VehicleSpellInitialize()
		if pl.InGroup() {
			pl.SetGroupUpdateFlag(models.GroupUpdateVehicle)
		}
	}

	k.logger.Debug("Control transferred", log.GUID("rider", unit.GUID()))
}

func rootFlags(seatFlags uint32) uint32 {
	if storage.SeatFlags(seatFlags)&storage.SeatFlagCanCast != 0 {
		return events.RootFlagCanRotate
	}
	return 0
}
