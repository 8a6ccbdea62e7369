// Package storage holds the read-only static tables: seat and vehicle
// templates, creature templates, ability data and accessory lists.
package storage

// Store is immutable once loaded and safe to share between goroutines.
type Store struct {
	seats       map[uint32]*SeatEntry
	vehicles    map[uint32]*VehicleEntry
	creatures   map[uint32]*CreatureEntry
	spells      map[uint32]*SpellEntry
	accessories map[uint32][]AccessoryEntry
	checksum    uint64
}

func NewStore() *Store {
	return &Store{
		seats:       make(map[uint32]*SeatEntry),
		vehicles:    make(map[uint32]*VehicleEntry),
		creatures:   make(map[uint32]*CreatureEntry),
		spells:      make(map[uint32]*SpellEntry),
		accessories: make(map[uint32][]AccessoryEntry),
	}
}

// Seat returns the seat template for id, or nil.
func (s *Store) Seat(id uint32) *SeatEntry {
	return s.seats[id]
}

func (s *Store) Vehicle(id uint32) *VehicleEntry {
	return s.vehicles[id]
}

func (s *Store) Creature(entry uint32) *CreatureEntry {
	return s.creatures[entry]
}

func (s *Store) Spell(id uint32) *SpellEntry {
	return s.spells[id]
}

// Accessories returns the accessory list for a base creature entry. A nil
// result means the creature has no accessories configured.
func (s *Store) Accessories(entry uint32) []AccessoryEntry {
	return s.accessories[entry]
}

// Checksum is the xxhash of the source files the store was loaded from, zero
// for stores assembled in code.
func (s *Store) Checksum() uint64 {
	return s.checksum
}

// The Add* setters are used by the loader and by tests; a later entry with the
// same id replaces the earlier one.

func (s *Store) AddSeat(e SeatEntry) {
	s.seats[e.ID] = &e
}

func (s *Store) AddVehicle(e VehicleEntry) {
	s.vehicles[e.ID] = &e
}

func (s *Store) AddCreature(e CreatureEntry) {
	s.creatures[e.Entry] = &e
}

func (s *Store) AddSpell(e SpellEntry) {
	s.spells[e.ID] = &e
}

func (s *Store) SetAccessories(entry uint32, list []AccessoryEntry) {
	s.accessories[entry] = list
}

// Counts reports table sizes, used for startup logging.
func (s *Store) Counts() map[string]int {
	return map[string]int{
		"seats":       len(s.seats),
		"vehicles":    len(s.vehicles),
		"creatures":   len(s.creatures),
		"spells":      len(s.spells),
		"accessories": len(s.accessories),
	}
}
