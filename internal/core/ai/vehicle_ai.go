// Package ai holds the scripted behavior layer of creature vehicles.
package ai

import (
	"encoding/json"

	"github.com/zeusync/vehicle/internal/core/events"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/vehicle"
	"github.com/zeusync/vehicle/internal/core/world"
)

var _ vehicle.Behavior = (*VehicleAI)(nil)

// ReactionFunc is a scripted reaction to a passenger taking or leaving a seat.
type ReactionFunc func(ai *VehicleAI, passenger vehicle.Actor, seat int8, boarded bool)

// VehicleAI tracks who sits where on its blackboard, tells observers about it
// and runs the reactions registered for the seat.
type VehicleAI struct {
	base      vehicle.Actor
	board     *Blackboard
	reactions map[int8][]ReactionFunc
	logger    log.Log
}

func NewVehicleAI(base vehicle.Actor, board *Blackboard, logger log.Log) *VehicleAI {
	return &VehicleAI{
		base:      base,
		board:     board,
		reactions: make(map[int8][]ReactionFunc),
		logger:    logger.With(log.GUID("vehicle", base.GUID())),
	}
}

// OnSeat registers fn for seat. vehicle.AnySeat registers it for every seat.
func (a *VehicleAI) OnSeat(seat int8, fn ReactionFunc) {
	a.reactions[seat] = append(a.reactions[seat], fn)
}

func (a *VehicleAI) Base() vehicle.Actor     { return a.base }
func (a *VehicleAI) Blackboard() *Blackboard { return a.board }

func (a *VehicleAI) PassengerBoarded(passenger vehicle.Actor, seat int8, boarded bool) {
	count, _ := a.board.GetInt(KeyPassengers)
	if boarded {
		a.board.Set(SeatKey(seat), passenger.GUID())
		a.board.Set(KeyLastBoarded, passenger.GUID())
		count++
	} else {
		a.board.Delete(SeatKey(seat))
		if count > 0 {
			count--
		}
	}
	a.board.Set(KeyPassengers, count)

	a.base.SendMessageToSet(events.PassengerChange{
		Vehicle:   a.base.GUID(),
		Passenger: passenger.GUID(),
		Seat:      seat,
		Boarded:   boarded,
	}, false)

	a.logger.Debug("Passenger change",
		log.GUID("passenger", passenger.GUID()),
		log.Seat(seat),
		log.Bool("boarded", boarded),
		log.Int("passengers", count),
	)

	for _, fn := range a.reactions[seat] {
		fn(a, passenger, seat, boarded)
	}
	if seat != vehicle.AnySeat {
		for _, fn := range a.reactions[vehicle.AnySeat] {
			fn(a, passenger, seat, boarded)
		}
	}
}

// MarshalJSON exports the behavior state for inspection.
func (a *VehicleAI) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Vehicle    string      `json:"vehicle"`
		Blackboard *Blackboard `json:"blackboard"`
	}{
		Vehicle:    a.base.GUID().String(),
		Blackboard: a.board,
	})
}

// Factory gives every creature whose template carries a vehicle its own
// VehicleAI. setup, when set, registers reactions on each new behavior.
func Factory(logger log.Log, setup func(*VehicleAI)) world.AIFactory {
	return func(c *world.Creature) vehicle.Behavior {
		if c.Template().VehicleID == 0 {
			return nil
		}
		a := NewVehicleAI(c, NewBlackboard(nil), logger)
		if setup != nil {
			setup(a)
		}
		return a
	}
}
