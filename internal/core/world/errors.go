package world

import "errors"

var (
	ErrUnknownUnit   = errors.New("unknown unit")
	ErrUnknownEntry  = errors.New("unknown creature entry")
	ErrUnknownKit    = errors.New("unknown vehicle template")
	ErrNotAVehicle   = errors.New("unit is not a vehicle")
	ErrNotACreature  = errors.New("unit is not a creature")
	ErrNoVehicle     = errors.New("no vehicle to enter")
	ErrVehicleCycle  = errors.New("vehicle would carry itself")
	ErrHasVehicle    = errors.New("unit already carries a vehicle")
	ErrNotMountable  = errors.New("vehicle is not accepting passengers")
	ErrUnitDespawned = errors.New("unit has despawned")
)
