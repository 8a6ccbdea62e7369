package vehicle

import "errors"

var (
	ErrNotInVehicle       = errors.New("unit is not associated with this vehicle")
	ErrNoSeatAvailable    = errors.New("no seat available")
	ErrEvictionFailed     = errors.New("seat occupant did not leave")
	ErrSeatCountUnderflow = errors.New("free seat count underflow")
)
