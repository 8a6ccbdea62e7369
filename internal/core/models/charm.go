package models

// MaxVehicleActions is the width of a vehicle action bar.
const MaxVehicleActions = 6

// CharmInfo is the action record of a unit currently controlled by another.
type CharmInfo struct {
	Owner   GUID
	Actions []uint32
}

// InitVehicleActions fills the action bar from the vehicle's abilities,
// skipping empty slots.
func (c *CharmInfo) InitVehicleActions(spells []uint32) {
	c.Actions = c.Actions[:0]
	for _, id := range spells {
		if len(c.Actions) == MaxVehicleActions {
			break
		}
		if id == 0 {
			continue
		}
		c.Actions = append(c.Actions, id)
	}
}
