// Package world is the unit registry the vehicle kits run against. It owns
// players and creatures, gives creature templates with a vehicle their kit and
// drives despawn timers from Update.
//
// Exported World methods lock the world; Unit, Player and Creature methods do
// not and must run under Do or from inside another World call.
package world

import (
	"fmt"
	"sync"
	"time"

	"github.com/zeusync/vehicle/internal/core/events"
	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/storage"
	"github.com/zeusync/vehicle/internal/core/vehicle"
)

// AIFactory builds the behavior of a freshly spawned creature. It may return nil.
type AIFactory func(c *Creature) vehicle.Behavior

type World struct {
	mu sync.Mutex

	store      *storage.Store
	bus        bus.EventBus
	logger     log.Log
	clock      func() time.Time
	aiFactory  AIFactory
	kitOptions []vehicle.Option

	units   map[models.GUID]vehicle.Actor
	pending []*Unit
}

type Option func(*World)

func WithClock(clock func() time.Time) Option {
	return func(w *World) { w.clock = clock }
}

func WithAIFactory(f AIFactory) Option {
	return func(w *World) { w.aiFactory = f }
}

// WithKitOptions are applied to every kit the world creates.
func WithKitOptions(opts ...vehicle.Option) Option {
	return func(w *World) { w.kitOptions = append(w.kitOptions, opts...) }
}

func New(store *storage.Store, b bus.EventBus, logger log.Log, opts ...Option) *World {
	w := &World{
		store:  store,
		bus:    b,
		logger: logger,
		clock:  time.Now,
		units:  make(map[models.GUID]vehicle.Actor),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Do runs fn with the world locked.
func (w *World) Do(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
}

func (w *World) Store() *storage.Store { return w.store }

func (w *World) SpawnPlayer(name string, mapID uint32, pos models.Position, faction uint32) *Player {
	w.mu.Lock()
	defer w.mu.Unlock()

	p := newPlayer(w, name, mapID, pos, faction)
	w.register(p)
	return p
}

// SpawnCreature places a creature of the given template. Templates that name a
// vehicle get a kit, which is installed right away.
func (w *World) SpawnCreature(entry uint32, mapID uint32, pos models.Position) (*Creature, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.spawnCreature(entry, mapID, pos, nil)
}

// AttachVehicle turns an existing unit into a vehicle of the given template.
func (w *World) AttachVehicle(guid models.GUID, vehicleID uint32) (*vehicle.Kit, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.units[guid]
	if !ok {
		return nil, ErrUnknownUnit
	}
	u := unitOf(a)
	if u.kit != nil {
		return nil, ErrHasVehicle
	}
	info := w.store.Vehicle(vehicleID)
	if info == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKit, vehicleID)
	}
	w.attach(u, info)
	return u.kit, nil
}

// Board seats passenger on the vehicle carried by vehicleGUID.
func (w *World) Board(passenger, vehicleGUID models.GUID, seat int8) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.units[passenger]
	if !ok {
		return fmt.Errorf("passenger: %w", ErrUnknownUnit)
	}
	v, ok := w.units[vehicleGUID]
	if !ok {
		return fmt.Errorf("vehicle: %w", ErrUnknownUnit)
	}
	kit := v.VehicleKit()
	if kit == nil {
		return ErrNotAVehicle
	}
	return p.EnterVehicle(kit, seat)
}

// Click is the interaction path onto a mountable unit: the clicker takes the
// first free seat and, when that seat drives, gets the control effect while
// the vehicle is marked controlled.
func (w *World) Click(clicker, vehicleGUID models.GUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.units[clicker]
	if !ok {
		return fmt.Errorf("clicker: %w", ErrUnknownUnit)
	}
	v, ok := w.units[vehicleGUID]
	if !ok {
		return fmt.Errorf("vehicle: %w", ErrUnknownUnit)
	}
	kit := v.VehicleKit()
	if kit == nil {
		return ErrNotAVehicle
	}
	if !v.HasNPCFlag(models.NPCFlagSpellClick | models.NPCFlagPlayerVehicle) {
		return ErrNotMountable
	}

	if err := c.EnterVehicle(kit, vehicle.AnySeat); err != nil {
		return err
	}
	if storage.SeatFlags(c.MovementInfo().VehicleSeatFlags())&storage.SeatFlagMainRider != 0 {
		unitOf(c).AddAura(models.AuraControlVehicle)
		v.AddUnitState(models.UnitStateControlled)
	}
	return nil
}

// Unboard removes passenger from whatever it is riding.
func (w *World) Unboard(passenger models.GUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.units[passenger]
	if !ok {
		return ErrUnknownUnit
	}
	if p.Vehicle() == nil {
		return vehicle.ErrNotInVehicle
	}
	p.ExitVehicle()
	return nil
}

// MoveUnit relocates a unit and, if it is a vehicle, its passengers.
func (w *World) MoveUnit(guid models.GUID, pos models.Position) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.units[guid]
	if !ok {
		return ErrUnknownUnit
	}
	a.SetPosition(pos)
	if kit := a.VehicleKit(); kit != nil {
		kit.RelocatePassengers(pos)
	}
	return nil
}

// Kill puts a creature into the just-died state.
func (w *World) Kill(guid models.GUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.units[guid]
	if !ok {
		return ErrUnknownUnit
	}
	c, ok := a.(*Creature)
	if !ok {
		return ErrNotACreature
	}
	c.SetDeathState(models.DeathStateJustDied)
	return nil
}

// Remove takes a unit out of the world immediately.
func (w *World) Remove(guid models.GUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.units[guid]
	if !ok {
		return ErrUnknownUnit
	}
	w.remove(unitOf(a))
	return nil
}

// Update advances corpse states and despawn timers, then removes every unit
// queued for removal.
func (w *World) Update(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, a := range w.units {
		c, ok := a.(*Creature)
		if !ok {
			continue
		}
		if c.deathState == models.DeathStateJustDied {
			c.deathState = models.DeathStateCorpse
		}
		if !c.despawnAt.IsZero() && !now.Before(c.despawnAt) {
			w.queueRemoval(c.Unit)
		}
	}

	pending := w.pending
	w.pending = nil
	for _, u := range pending {
		w.remove(u)
	}
}

// Unit looks up a unit by GUID. The result must only be used under Do.
func (w *World) Unit(guid models.GUID) (vehicle.Actor, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.units[guid]
	return a, ok
}

// Creature looks up a creature without locking. Call it under Do.
func (w *World) Creature(guid models.GUID) (*Creature, bool) {
	c, ok := w.units[guid].(*Creature)
	return c, ok
}

// Len is the number of units in the world.
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.units)
}

// Snapshot reports the seats of the vehicle carried by guid.
func (w *World) Snapshot(guid models.GUID) (vehicle.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.units[guid]
	if !ok {
		return vehicle.Snapshot{}, ErrUnknownUnit
	}
	kit := a.VehicleKit()
	if kit == nil {
		return vehicle.Snapshot{}, ErrNotAVehicle
	}
	return kit.Snapshot(), nil
}

// Snapshots reports every vehicle in the world.
func (w *World) Snapshots() []vehicle.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]vehicle.Snapshot, 0)
	for _, a := range w.units {
		if kit := a.VehicleKit(); kit != nil {
			out = append(out, kit.Snapshot())
		}
	}
	return out
}

func (w *World) spawnCreature(entry uint32, mapID uint32, pos models.Position, summon *summonInfo) (*Creature, error) {
	tpl := w.store.Creature(entry)
	if tpl == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntry, entry)
	}

	c := newCreature(w, tpl, mapID, pos)
	c.summon = summon
	if summon != nil && summon.kind == models.SummonTimedDespawn {
		c.despawnAt = w.clock().Add(summon.despawn)
	}
	if w.aiFactory != nil {
		c.ai = w.aiFactory(c)
	}
	w.register(c)

	if tpl.VehicleID != 0 {
		info := w.store.Vehicle(tpl.VehicleID)
		if info == nil {
			w.logger.Warn("Creature references unknown vehicle",
				log.Uint32("entry", entry),
				log.Uint32("vehicle_id", tpl.VehicleID),
			)
			return c, nil
		}
		w.attach(c.Unit, info)
	}
	return c, nil
}

func (w *World) summonCreature(summoner *Creature, entry uint32, pos models.Position, kind models.SummonType, despawn time.Duration) (*Creature, error) {
	if summoner.removed {
		return nil, ErrUnitDespawned
	}
	return w.spawnCreature(entry, summoner.mapID, pos, &summonInfo{
		summoner: summoner.guid,
		kind:     kind,
		despawn:  despawn,
	})
}

func (w *World) attach(u *Unit, info *storage.VehicleEntry) {
	opts := append([]vehicle.Option{
		vehicle.WithLogger(w.logger),
		vehicle.WithClock(w.clock),
	}, w.kitOptions...)
	u.kit = vehicle.NewKit(u.self, info, w.store, opts...)
	u.kit.Install()
}

func (w *World) register(a vehicle.Actor) {
	w.units[a.GUID()] = a
	w.logger.Debug("Unit spawned", log.GUID("unit", a.GUID()), log.Uint32("entry", a.Entry()))
}

func (w *World) queueRemoval(u *Unit) {
	for _, p := range w.pending {
		if p == u {
			return
		}
	}
	w.pending = append(w.pending, u)
}

func (w *World) remove(u *Unit) {
	if u.removed {
		return
	}
	u.removed = true

	u.ExitVehicle()
	if u.kit != nil {
		u.kit.Uninstall()
	}
	delete(w.units, u.guid)
	w.broadcast(u, events.UnitDespawned{GUID: u.guid})
	w.logger.Debug("Unit removed", log.GUID("unit", u.guid))
}

func (w *World) broadcast(u *Unit, n events.Notification) {
	if err := events.Publish(w.bus, u.mapID, u.guid, n); err != nil {
		w.logger.Warn("Notification delivery failed",
			log.GUID("unit", u.guid),
			log.String("type", n.NotificationType()),
			log.Error(err),
		)
	}
}

// unitOf returns the shared state behind a world-owned actor.
func unitOf(a vehicle.Actor) *Unit {
	switch v := a.(type) {
	case *Player:
		return v.Unit
	case *Creature:
		return v.Unit
	default:
		panic(fmt.Sprintf("world: foreign actor %T", a))
	}
}
