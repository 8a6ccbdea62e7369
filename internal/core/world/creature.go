package world

import (
	"time"

	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/storage"
	"github.com/zeusync/vehicle/internal/core/vehicle"
)

var _ vehicle.Creature = (*Creature)(nil)

type summonInfo struct {
	summoner models.GUID
	kind     models.SummonType
	despawn  time.Duration
}

// Creature is a world-driven unit built from a creature template.
type Creature struct {
	*Unit

	template   *storage.CreatureEntry
	ai         vehicle.Behavior
	powerType  models.Power
	maxPower   map[models.Power]uint32
	power      map[models.Power]uint32
	deathState models.DeathState
	summon     *summonInfo
	// despawnAt is zero until a despawn timer runs.
	despawnAt time.Time
}

func newCreature(w *World, tpl *storage.CreatureEntry, mapID uint32, pos models.Position) *Creature {
	c := &Creature{
		Unit:     newUnit(w, models.TypeUnit, tpl.Entry, tpl.Name, mapID, pos, tpl.Faction),
		template: tpl,
		maxPower: make(map[models.Power]uint32),
		power:    make(map[models.Power]uint32),
	}
	c.self = c
	return c
}

func (c *Creature) Template() *storage.CreatureEntry { return c.template }
func (c *Creature) AI() vehicle.Behavior             { return c.ai }

// SetAI replaces the creature's behavior.
func (c *Creature) SetAI(b vehicle.Behavior) { c.ai = b }

func (c *Creature) Spells() []uint32 { return c.template.Spells }

func (c *Creature) SetPowerType(p models.Power) { c.powerType = p }
func (c *Creature) PowerType() models.Power     { return c.powerType }

func (c *Creature) SetMaxPower(p models.Power, v uint32) { c.maxPower[p] = v }
func (c *Creature) MaxPower(p models.Power) uint32       { return c.maxPower[p] }

func (c *Creature) SetPower(p models.Power, v uint32) {
	if limit := c.maxPower[p]; v > limit {
		v = limit
	}
	c.power[p] = v
}

func (c *Creature) Power(p models.Power) uint32 { return c.power[p] }

// SummonCreature spawns a temporary creature on the summoner's map.
func (c *Creature) SummonCreature(entry uint32, pos models.Position, kind models.SummonType, despawn time.Duration) (vehicle.Creature, error) {
	summoned, err := c.world.summonCreature(c, entry, pos, kind, despawn)
	if err != nil {
		return nil, err
	}
	return summoned, nil
}

func (c *Creature) IsTemporarySummon() bool { return c.summon != nil }

// Summoner is the unit that summoned this creature, empty for spawned ones.
func (c *Creature) Summoner() models.GUID {
	if c.summon == nil {
		return models.EmptyGUID
	}
	return c.summon.summoner
}

// UnSummon schedules a temporary summon for removal on the next update.
func (c *Creature) UnSummon() {
	if c.summon == nil || c.removed {
		return
	}
	c.world.queueRemoval(c.Unit)
}

func (c *Creature) DeathState() models.DeathState { return c.deathState }
func (c *Creature) IsAlive() bool                 { return c.deathState == models.DeathStateAlive }

// SetDeathState records a death transition. A creature that just died empties
// its own seats and, if it is a corpse-timed summon, starts its despawn timer.
func (c *Creature) SetDeathState(s models.DeathState) {
	if c.deathState == s {
		return
	}
	c.deathState = s
	if s != models.DeathStateJustDied {
		return
	}
	if c.kit != nil {
		c.kit.Die()
	}
	if c.summon != nil && c.summon.kind == models.SummonCorpseTimedDespawn {
		c.despawnAt = c.world.clock().Add(c.summon.despawn)
	}
}
