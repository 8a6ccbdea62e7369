package vehicle

import (
	"github.com/zeusync/vehicle/internal/core/events"
	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/movement"
	"github.com/zeusync/vehicle/internal/core/observability/log"
)

// RemovePassenger frees the seat held by unit and reverts every side effect of
// AddPassenger. It does nothing when unit is not riding k. The association
// itself is cleared by the caller, normally ExitVehicle.
func (k *Kit) RemovePassenger(unit Actor) {
	if unit.Vehicle() != k {
		return
	}

	seat := k.seatOf(unit)
	if seat == nil {
		return
	}

	seat.passenger = nil
	tpl := seat.template

	if tpl.IsUsable() {
		if k.freeSeats == 0 {
			k.base.SetNPCFlag(k.mountableFlag())
		}
		if k.freeSeats < k.usableSeats {
			k.freeSeats++
		} else {
			k.logger.Error("Free seat count exceeds usable seats", log.Seat(seat.index))
		}
	}

	unit.ClearUnitState(models.UnitStateOnVehicle)

	mi := unit.MovementInfo()
	mi.ClearTransportData()
	mi.RemoveFlag(movement.FlagOnTransport)

	if tpl.IsMainRider() {
		k.detransferControl(unit)
	}

	if pl, ok := unit.(Player); ok {
		pl.ResetViewpoint()
		unit.SendMessageToSet(events.ForceMoveUnroot{GUID: unit.GUID(), Flags: rootFlags(uint32(tpl.Flags))}, true)
	}

	k.logger.Debug("Passenger left",
		log.GUID("passenger", unit.GUID()),
		log.Seat(seat.index),
		log.Int("free_seats", k.freeSeats),
	)

	if cr, ok := k.base.(Creature); ok {
		if ai := cr.AI(); ai != nil {
			ai.PassengerBoarded(unit, seat.index, false)
		}
	}
}

// detransferControl returns driving authority of the base to its own behavior.
func (k *Kit) detransferControl(unit Actor) {
	unit.RemoveAurasByType(models.AuraControlVehicle)
	k.base.RemoveUnitFlag(models.UnitFlagPlayerControlled)
	unit.SetCharmGUID(models.EmptyGUID)
	k.base.SetCharmerGUID(models.EmptyGUID)
	k.base.ClearUnitState(models.UnitStateControlled)
	k.base.SetFaction(k.savedFaction)
	k.base.RemoveCharmInfo()

	if pl, ok := unit.(Player); ok {
		pl.SetClientControl(unit, true)
		pl.RemovePetActionBar()
		if pl.InGroup() {
			pl.SetGroupUpdateFlag(models.GroupUpdateVehicle)
		}
	}

	k.logger.Debug("Control returned", log.GUID("rider", unit.GUID()))
}

// RemoveAllPassengers empties the table. Passengers that are vehicles
// themselves are emptied first, depth first, down to the configured nesting
// depth; deeper passengers stay aboard their own carrier.
func (k *Kit) RemoveAllPassengers() {
	type frame struct {
		kit       *Kit
		next      int
		descended bool
	}

	stack := []*frame{{kit: k}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.kit.seats) {
			stack = stack[:len(stack)-1]
			continue
		}

		passenger := top.kit.seats[top.next].passenger
		if passenger == nil {
			top.next++
			continue
		}

		if nested := passenger.VehicleKit(); nested != nil && !top.descended && nested.hasPassengers() {
			top.descended = true
			if len(stack) < k.maxDepth {
				stack = append(stack, &frame{kit: nested})
				continue
			}
			k.logger.Warn("Vehicle nesting too deep, inner passengers kept aboard",
				log.GUID("carrier", passenger.GUID()),
				log.Int("depth", len(stack)),
			)
		}

		passenger.ExitVehicle()
		top.next++
		top.descended = false
	}
}
