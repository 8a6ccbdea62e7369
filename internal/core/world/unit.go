package world

import (
	"github.com/zeusync/vehicle/internal/core/events"
	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/movement"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/vehicle"
)

// Unit is the state shared by players and creatures. It is always embedded;
// self points at the embedding value so the kit sees the same identity the
// world registered.
type Unit struct {
	self  vehicle.Actor
	world *World

	guid    models.GUID
	typeID  models.TypeID
	entry   uint32
	name    string
	mapID   uint32
	pos     models.Position
	faction uint32

	npcFlags  models.NPCFlags
	unitFlags models.UnitFlags
	state     models.UnitState
	movement  movement.Info
	idle      bool
	motion    []models.Position

	charmer   models.GUID
	charm     models.GUID
	charmInfo *models.CharmInfo
	auras     map[models.AuraType]int

	vehicle *vehicle.Kit
	kit     *vehicle.Kit
	removed bool
}

func newUnit(w *World, typeID models.TypeID, entry uint32, name string, mapID uint32, pos models.Position, faction uint32) *Unit {
	u := &Unit{
		world:   w,
		guid:    models.NewGUID(),
		typeID:  typeID,
		entry:   entry,
		name:    name,
		mapID:   mapID,
		pos:     pos,
		faction: faction,
		auras:   make(map[models.AuraType]int),
	}
	u.movement.ClearTransportData()
	return u
}

func (u *Unit) GUID() models.GUID     { return u.guid }
func (u *Unit) TypeID() models.TypeID { return u.typeID }
func (u *Unit) Entry() uint32         { return u.entry }
func (u *Unit) Name() string          { return u.name }
func (u *Unit) MapID() uint32         { return u.mapID }

func (u *Unit) SetNPCFlag(f models.NPCFlags)      { u.npcFlags |= f }
func (u *Unit) RemoveNPCFlag(f models.NPCFlags)   { u.npcFlags &^= f }
func (u *Unit) HasNPCFlag(f models.NPCFlags) bool { return u.npcFlags&f != 0 }

func (u *Unit) SetUnitFlag(f models.UnitFlags)      { u.unitFlags |= f }
func (u *Unit) RemoveUnitFlag(f models.UnitFlags)   { u.unitFlags &^= f }
func (u *Unit) HasUnitFlag(f models.UnitFlags) bool { return u.unitFlags&f != 0 }

func (u *Unit) AddUnitState(s models.UnitState)      { u.state |= s }
func (u *Unit) ClearUnitState(s models.UnitState)    { u.state &^= s }
func (u *Unit) HasUnitState(s models.UnitState) bool { return u.state&s != 0 }

func (u *Unit) MovementInfo() *movement.Info { return &u.movement }
func (u *Unit) Position() models.Position    { return u.pos }
func (u *Unit) SetPosition(p models.Position) {
	u.pos = p
}

// MoveTo queues a waypoint for the unit's own motion.
func (u *Unit) MoveTo(p models.Position) {
	u.idle = false
	u.motion = append(u.motion, p)
}

// Motion returns the queued waypoints.
func (u *Unit) Motion() []models.Position { return u.motion }
func (u *Unit) IsIdle() bool              { return u.idle }

func (u *Unit) ClearMotion() {
	u.motion = u.motion[:0]
}

func (u *Unit) MoveIdle() {
	u.idle = true
}

func (u *Unit) CharmerGUID() models.GUID     { return u.charmer }
func (u *Unit) SetCharmerGUID(g models.GUID) { u.charmer = g }
func (u *Unit) CharmGUID() models.GUID       { return u.charm }
func (u *Unit) SetCharmGUID(g models.GUID)   { u.charm = g }
func (u *Unit) Faction() uint32              { return u.faction }
func (u *Unit) SetFaction(f uint32)          { u.faction = f }

func (u *Unit) InitCharmInfo() *models.CharmInfo {
	if u.charmInfo == nil {
		u.charmInfo = &models.CharmInfo{}
	}
	u.charmInfo.Owner = u.charmer
	return u.charmInfo
}

func (u *Unit) CharmInfo() *models.CharmInfo { return u.charmInfo }

func (u *Unit) RemoveCharmInfo() {
	u.charmInfo = nil
}

// AddAura applies an effect of type t. Auras stack by count.
func (u *Unit) AddAura(t models.AuraType) {
	u.auras[t]++
}

func (u *Unit) HasAura(t models.AuraType) bool {
	return u.auras[t] > 0
}

func (u *Unit) RemoveAurasByType(t models.AuraType) {
	delete(u.auras, t)
}

// SendMessageToSet broadcasts n to everyone on the unit's map. With self set,
// a player also gets its own copy.
func (u *Unit) SendMessageToSet(n events.Notification, self bool) {
	if self {
		if pl, ok := u.self.(*Player); ok {
			pl.inbox = append(pl.inbox, n)
		}
	}
	u.world.broadcast(u, n)
}

func (u *Unit) SendMonsterMoveTransport(transport vehicle.Actor) {
	tr := u.movement.Transport()
	u.world.broadcast(u, events.MonsterMoveTransport{
		GUID:        u.guid,
		Transport:   transport.GUID(),
		Offset:      tr.Offset,
		Orientation: tr.Orientation,
		Seat:        tr.Seat,
	})
}

func (u *Unit) Vehicle() *vehicle.Kit    { return u.vehicle }
func (u *Unit) VehicleKit() *vehicle.Kit { return u.kit }

// EnterVehicle associates the unit with kit and takes a seat. A unit riding
// another vehicle leaves it only once the target has room, and is put back
// if boarding still fails.
func (u *Unit) EnterVehicle(kit *vehicle.Kit, seat int8) error {
	if kit == nil {
		return ErrNoVehicle
	}
	if u.removed {
		return ErrUnitDespawned
	}
	for carrier := kit.Base(); carrier != nil; {
		if carrier == u.self {
			return ErrVehicleCycle
		}
		next := carrier.Vehicle()
		if next == nil {
			break
		}
		carrier = next.Base()
	}

	var (
		prev     *vehicle.Kit
		prevSeat = vehicle.NoSeat
	)
	if u.vehicle != nil && u.vehicle != kit {
		if err := kit.CheckSeat(seat); err != nil {
			return err
		}
		prev, prevSeat = u.vehicle, u.vehicle.SeatOf(u.self)
		u.ExitVehicle()
	}

	joined := u.vehicle
	u.vehicle = kit
	if err := kit.AddPassenger(u.self, seat); err != nil {
		u.vehicle = joined
		if prev != nil {
			u.reboard(prev, prevSeat)
		}
		return err
	}
	return nil
}

// reboard puts the unit back into the seat it left for a board that failed.
func (u *Unit) reboard(kit *vehicle.Kit, seat int8) {
	u.vehicle = kit
	if err := kit.AddPassenger(u.self, seat); err != nil {
		u.vehicle = nil
		u.world.logger.Warn("Unit could not return to its vehicle",
			log.GUID("unit", u.guid),
			log.GUID("vehicle", kit.Base().GUID()),
			log.Seat(seat),
			log.Error(err),
		)
	}
}

// ExitVehicle leaves the current vehicle, if any.
func (u *Unit) ExitVehicle() {
	kit := u.vehicle
	if kit == nil {
		return
	}
	kit.RemovePassenger(u.self)
	u.vehicle = nil
	u.world.logger.Debug("Unit left vehicle",
		log.GUID("unit", u.guid),
		log.GUID("vehicle", kit.Base().GUID()),
	)
}
