package vehicle

import "fmt"

// HasEmptySeat reports whether the seat exists and has no passenger.
func (k *Kit) HasEmptySeat(index int8) bool {
	s := k.seat(index)
	return s != nil && s.passenger == nil
}

// GetPassenger returns the passenger of a seat. Missing and empty seats both
// yield nil.
func (k *Kit) GetPassenger(index int8) Actor {
	if s := k.seat(index); s != nil {
		return s.passenger
	}
	return nil
}

// GetNextEmptySeat scans the table cyclically in seat index order, starting
// at index itself, for a usable seat without a passenger. It returns NoSeat
// when index does not exist or the scan wraps back to it.
func (k *Kit) GetNextEmptySeat(index int8, next bool) int8 {
	start := k.position(index)
	if start < 0 {
		return NoSeat
	}

	n := len(k.seats)
	i := start
	for k.seats[i].passenger != nil || !k.seats[i].template.IsUsable() {
		if next {
			i = (i + 1) % n
		} else {
			i = (i - 1 + n) % n
		}
		if i == start {
			return NoSeat
		}
	}
	return k.seats[i].index
}

// CheckSeat returns the error AddPassenger would reject a newcomer with before
// touching any seat. A specific seat only has to exist, since its occupant is
// evicted.
func (k *Kit) CheckSeat(index int8) error {
	if index != AnySeat {
		if k.seat(index) == nil {
			return fmt.Errorf("seat %d: %w", index, ErrNoSeatAvailable)
		}
		return nil
	}
	for _, s := range k.seats {
		if s.passenger == nil && s.template.IsUsable() {
			return nil
		}
	}
	return ErrNoSeatAvailable
}

// SeatOf returns the index of the seat unit holds, or NoSeat.
func (k *Kit) SeatOf(unit Actor) int8 {
	if s := k.seatOf(unit); s != nil {
		return s.index
	}
	return NoSeat
}
