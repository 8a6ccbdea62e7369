package models

// TypeID separates directly-controlled units from autonomous ones.
type TypeID uint8

const (
	TypeUnit TypeID = iota
	TypePlayer
)

func (t TypeID) String() string {
	if t == TypePlayer {
		return "player"
	}
	return "unit"
}

// NPCFlags are interaction capabilities advertised to other units.
type NPCFlags uint32

const (
	NPCFlagSpellClick    NPCFlags = 0x01000000
	NPCFlagPlayerVehicle NPCFlags = 0x02000000
)

// UnitFlags are generic unit field flags.
type UnitFlags uint32

const (
	UnitFlagPlayerControlled UnitFlags = 0x00000008
)

// UnitState is server-side bookkeeping that is never sent to clients.
type UnitState uint32

const (
	UnitStateControlled UnitState = 0x00000400
	UnitStateOnVehicle  UnitState = 0x00800000
)

// Power is a resource pool type.
type Power uint8

const (
	PowerMana Power = iota
	PowerRage
	PowerFocus
	PowerEnergy
	PowerHappiness
)

func (p Power) String() string {
	switch p {
	case PowerMana:
		return "mana"
	case PowerRage:
		return "rage"
	case PowerFocus:
		return "focus"
	case PowerEnergy:
		return "energy"
	case PowerHappiness:
		return "happiness"
	default:
		return "unknown"
	}
}

type DeathState uint8

const (
	DeathStateAlive DeathState = iota
	DeathStateJustDied
	DeathStateCorpse
	DeathStateDead
)

// AuraType classifies active effects for bulk removal.
type AuraType uint16

const (
	AuraNone           AuraType = 0
	AuraControlVehicle AuraType = 236
)

// GroupUpdateFlags mark which member fields a group broadcast must refresh.
type GroupUpdateFlags uint32

const (
	GroupUpdateVehicle GroupUpdateFlags = 0x00040000
)

// SummonType controls how a summoned unit leaves the world.
type SummonType uint8

const (
	SummonManualDespawn SummonType = iota
	SummonCorpseTimedDespawn
	SummonTimedDespawn
)
