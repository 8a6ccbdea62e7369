package vehicle

import (
	"time"

	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/storage"
)

const (
	// AnySeat asks AddPassenger to pick the first usable empty seat.
	AnySeat int8 = -1
	// NoSeat is returned by GetNextEmptySeat when nothing is available.
	NoSeat int8 = -1

	DefaultMaxNestingDepth  = 4
	DefaultAccessoryDespawn = 30 * time.Second
)

// Seat is one slot of the occupancy table. Only the passenger changes after
// construction, and only inside AddPassenger/RemovePassenger.
type Seat struct {
	index     int8
	template  *storage.SeatEntry
	passenger Actor
}

func (s *Seat) Index() int8                  { return s.index }
func (s *Seat) Template() *storage.SeatEntry { return s.template }
func (s *Seat) Passenger() Actor             { return s.passenger }

// Kit is the occupancy controller of one vehicle.
type Kit struct {
	info  *storage.VehicleEntry
	base  Actor
	store *storage.Store

	// seats is ordered by seat index.
	seats []*Seat
	// freeSeats counts usable seats without a passenger.
	freeSeats   int
	usableSeats int

	// savedFaction is the base faction before a main rider took control.
	savedFaction uint32
	// dieDepth is set by a carrier's Die just before this kit's base dies.
	dieDepth int

	logger           log.Log
	clock            func() time.Time
	maxDepth         int
	accessoryDespawn time.Duration
}

type Option func(*Kit)

func WithLogger(logger log.Log) Option {
	return func(k *Kit) { k.logger = logger }
}

func WithClock(clock func() time.Time) Option {
	return func(k *Kit) { k.clock = clock }
}

// WithMaxNestingDepth bounds how deep RemoveAllPassengers and Die descend
// into passengers that are vehicles themselves.
func WithMaxNestingDepth(depth int) Option {
	return func(k *Kit) { k.maxDepth = depth }
}

// WithAccessoryDespawn sets the corpse despawn delay of summoned accessories.
func WithAccessoryDespawn(d time.Duration) Option {
	return func(k *Kit) { k.accessoryDespawn = d }
}

// NewKit builds the seat table of base from its vehicle template. Seat slots
// that are unassigned or reference an unknown seat template are skipped.
func NewKit(base Actor, info *storage.VehicleEntry, store *storage.Store, opts ...Option) *Kit {
	k := &Kit{
		info:             info,
		base:             base,
		store:            store,
		logger:           log.NewNop(),
		clock:            time.Now,
		maxDepth:         DefaultMaxNestingDepth,
		accessoryDespawn: DefaultAccessoryDespawn,
	}
	for _, opt := range opts {
		opt(k)
	}
	k.logger = k.logger.With(log.GUID("vehicle", base.GUID()), log.Uint32("vehicle_id", info.ID))

	for i, seatID := range info.Seats {
		if seatID == 0 {
			continue
		}
		tpl := store.Seat(seatID)
		if tpl == nil {
			k.logger.Debug("Seat template missing, slot skipped",
				log.Int("slot", i),
				log.Uint32("seat_id", seatID),
			)
			continue
		}
		k.seats = append(k.seats, &Seat{index: int8(i), template: tpl})
		if tpl.IsUsable() {
			k.usableSeats++
		}
	}
	k.freeSeats = k.usableSeats

	return k
}

func (k *Kit) Base() Actor                 { return k.base }
func (k *Kit) Info() *storage.VehicleEntry { return k.info }

// FreeSeats is the number of usable seats without a passenger.
func (k *Kit) FreeSeats() int { return k.freeSeats }

func (k *Kit) UsableSeats() int { return k.usableSeats }

// Seats returns the seat table in seat index order. The slice is a copy; the
// seats are not.
func (k *Kit) Seats() []*Seat {
	out := make([]*Seat, len(k.seats))
	copy(out, k.seats)
	return out
}

func (k *Kit) seat(index int8) *Seat {
	if i := k.position(index); i >= 0 {
		return k.seats[i]
	}
	return nil
}

// position returns the slice position of the seat with the given index, or -1.
func (k *Kit) position(index int8) int {
	for i, s := range k.seats {
		if s.index == index {
			return i
		}
	}
	return -1
}

func (k *Kit) seatOf(unit Actor) *Seat {
	for _, s := range k.seats {
		if s.passenger == unit {
			return s
		}
	}
	return nil
}

func (k *Kit) hasPassengers() bool {
	for _, s := range k.seats {
		if s.passenger != nil {
			return true
		}
	}
	return false
}

// mountableFlag is the capability flag advertising free seats on the base.
func (k *Kit) mountableFlag() models.NPCFlags {
	if _, ok := k.base.(Player); ok {
		return models.NPCFlagPlayerVehicle
	}
	return models.NPCFlagSpellClick
}

// SeatState is a read-only view of one seat.
type SeatState struct {
	Index     int8        `json:"index"`
	SeatID    uint32      `json:"seat_id"`
	Usable    bool        `json:"usable"`
	MainRider bool        `json:"main_rider"`
	CanCast   bool        `json:"can_cast"`
	Occupied  bool        `json:"occupied"`
	Passenger models.GUID `json:"passenger"`
	Entry     uint32      `json:"entry,omitempty"`
}

type Snapshot struct {
	Vehicle     models.GUID `json:"vehicle"`
	VehicleID   uint32      `json:"vehicle_id"`
	FreeSeats   int         `json:"free_seats"`
	UsableSeats int         `json:"usable_seats"`
	Seats       []SeatState `json:"seats"`
}

func (k *Kit) Snapshot() Snapshot {
	snap := Snapshot{
		Vehicle:     k.base.GUID(),
		VehicleID:   k.info.ID,
		FreeSeats:   k.freeSeats,
		UsableSeats: k.usableSeats,
		Seats:       make([]SeatState, 0, len(k.seats)),
	}
	for _, s := range k.seats {
		st := SeatState{
			Index:     s.index,
			SeatID:    s.template.ID,
			Usable:    s.template.IsUsable(),
			MainRider: s.template.IsMainRider(),
			CanCast:   s.template.CanCast(),
		}
		if s.passenger != nil {
			st.Occupied = true
			st.Passenger = s.passenger.GUID()
			st.Entry = s.passenger.Entry()
		}
		snap.Seats = append(snap.Seats, st)
	}
	return snap
}
