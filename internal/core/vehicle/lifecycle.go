package vehicle

import (
	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/storage"
)

// powerPolicy configures the resource pool of a creature vehicle.
type powerPolicy func(k *Kit, base Creature)

var powerPolicies = map[storage.VehiclePower]powerPolicy{
	storage.VehiclePowerSteam:   fixedEnergy(100),
	storage.VehiclePowerPyrite:  fixedEnergy(50),
	storage.VehiclePowerDefault: inferPower,
}

func fixedEnergy(amount uint32) powerPolicy {
	return func(_ *Kit, base Creature) {
		setEnergy(base, amount)
	}
}

// inferPower gives the vehicle energy if its first costed ability uses
// energy. Mana users keep their default pool.
func inferPower(k *Kit, base Creature) {
	for _, id := range base.Spells() {
		if id == 0 {
			continue
		}
		spell := k.store.Spell(id)
		if spell == nil {
			continue
		}
		switch spell.PowerType {
		case models.PowerMana:
			return
		case models.PowerEnergy:
			setEnergy(base, 100)
			return
		}
	}
}

func setEnergy(base Creature, amount uint32) {
	base.SetPowerType(models.PowerEnergy)
	base.SetMaxPower(models.PowerEnergy, amount)
	base.SetPower(models.PowerEnergy, amount)
}

// Install prepares a freshly attached kit: creature vehicles get their power
// pool configured, then Reset runs.
func (k *Kit) Install() {
	if cr, ok := k.base.(Creature); ok {
		policy, found := powerPolicies[k.info.PowerType]
		if !found {
			policy = inferPower
		}
		policy(k, cr)
	}

	k.logger.Debug("Vehicle installed", log.String("power", k.info.PowerType.String()))
	k.Reset()
}

// Reset re-exposes the mountable flag when seats are free. Autonomous vehicles
// get their accessories reinstalled first.
func (k *Kit) Reset() {
	if _, ok := k.base.(Player); ok {
		if k.freeSeats > 0 {
			k.base.SetNPCFlag(models.NPCFlagPlayerVehicle)
		}
		return
	}

	k.InstallAllAccessories()
	if k.freeSeats > 0 {
		k.base.SetNPCFlag(models.NPCFlagSpellClick)
	}
}

// Die kills temporary summons riding the vehicle, then dismounts everyone.
// Summons that are vehicles themselves die the same way, down to the
// configured nesting depth; deeper ones are only dismounted.
func (k *Kit) Die() {
	depth := max(k.dieDepth, 1)
	k.dieDepth = 0

	for _, s := range k.seats {
		cr, ok := s.passenger.(Creature)
		if !ok || !cr.IsTemporarySummon() {
			continue
		}
		nested := cr.VehicleKit()
		if nested != nil {
			if depth >= k.maxDepth {
				k.logger.Warn("Vehicle nesting too deep, passenger vehicle not killed",
					log.GUID("carrier", cr.GUID()),
					log.Int("depth", depth),
				)
				continue
			}
			nested.dieDepth = depth + 1
		}
		cr.SetDeathState(models.DeathStateJustDied)
		if nested != nil {
			nested.dieDepth = 0
		}
	}
	k.RemoveAllPassengers()
}

// Uninstall despawns temporary summons riding the vehicle, then dismounts
// everyone. The kit must not be used afterwards.
func (k *Kit) Uninstall() {
	for _, s := range k.seats {
		if cr, ok := s.passenger.(Creature); ok && cr.IsTemporarySummon() {
			cr.UnSummon()
		}
	}
	k.RemoveAllPassengers()
	k.logger.Debug("Vehicle uninstalled")
}

// InstallAllAccessories seats every accessory configured for the base entry.
// Running it again leaves correctly populated seats alone.
func (k *Kit) InstallAllAccessories() {
	for _, acc := range k.store.Accessories(k.base.Entry()) {
		k.InstallAccessory(acc.Accessory, acc.Seat, acc.Minion)
	}
}

// InstallAccessory summons entry into seat unless a unit of that entry already
// sits there; any other occupant is evicted.
func (k *Kit) InstallAccessory(entry uint32, index int8, minion bool) {
	if passenger := k.GetPassenger(index); passenger != nil {
		if passenger.Entry() == entry {
			return
		}
		passenger.ExitVehicle()
	}

	summoner, ok := k.base.(Creature)
	if !ok {
		return
	}

	pos := k.base.Position()
	pos.O = 0
	accessory, err := summoner.SummonCreature(entry, pos, models.SummonCorpseTimedDespawn, k.accessoryDespawn)
	if err != nil {
		k.logger.Debug("Accessory summon failed",
			log.Uint32("entry", entry),
			log.Seat(index),
			log.Error(err),
		)
		return
	}

	if err = accessory.EnterVehicle(k, index); err != nil {
		k.logger.Warn("Accessory could not board",
			log.Uint32("entry", entry),
			log.Seat(index),
			log.Bool("minion", minion),
			log.Error(err),
		)
		accessory.UnSummon()
	}
}

// RelocatePassengers moves every passenger to its seat offset from pos.
func (k *Kit) RelocatePassengers(pos models.Position) {
	for _, s := range k.seats {
		if s.passenger == nil {
			continue
		}
		tr := s.passenger.MovementInfo().Transport()
		s.passenger.SetPosition(pos.Offset(tr.Offset, tr.Orientation))
	}
}
