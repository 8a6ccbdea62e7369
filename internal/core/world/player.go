package world

import (
	"github.com/zeusync/vehicle/internal/core/events"
	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/vehicle"
)

var _ vehicle.Player = (*Player)(nil)

// Player is a unit steered by a remote client.
type Player struct {
	*Unit

	viewpoint     models.GUID
	clientControl models.GUID
	actionBar     []uint32
	inGroup       bool
	groupUpdate   models.GroupUpdateFlags
	inbox         []events.Notification
}

func newPlayer(w *World, name string, mapID uint32, pos models.Position, faction uint32) *Player {
	p := &Player{Unit: newUnit(w, models.TypePlayer, 0, name, mapID, pos, faction)}
	p.self = p
	p.viewpoint = p.guid
	p.clientControl = p.guid
	return p
}

func (p *Player) SetViewpoint(target vehicle.Actor) {
	p.viewpoint = target.GUID()
}

func (p *Player) ResetViewpoint() {
	p.viewpoint = p.guid
}

// Viewpoint is the unit the client camera follows.
func (p *Player) Viewpoint() models.GUID { return p.viewpoint }

// SetClientControl hands the client's movement input to target. Revoking
// control of the current target returns it to the player.
func (p *Player) SetClientControl(target vehicle.Actor, allow bool) {
	switch {
	case allow:
		p.clientControl = target.GUID()
	case p.clientControl == target.GUID():
		p.clientControl = p.guid
	}
}

// ClientControl is the unit the client currently moves.
func (p *Player) ClientControl() models.GUID { return p.clientControl }

// VehicleSpellInitialize loads the action bar of the charmed vehicle.
func (p *Player) VehicleSpellInitialize() {
	p.actionBar = p.actionBar[:0]
	target, ok := p.world.units[p.charm]
	if !ok {
		return
	}
	if info := unitOf(target).charmInfo; info != nil {
		p.actionBar = append(p.actionBar, info.Actions...)
	}
}

func (p *Player) RemovePetActionBar() {
	p.actionBar = nil
}

// ActionBar is the vehicle action bar shown to the client.
func (p *Player) ActionBar() []uint32 { return p.actionBar }

func (p *Player) InGroup() bool { return p.inGroup }

// JoinGroup marks the player as a group member.
func (p *Player) JoinGroup() { p.inGroup = true }

func (p *Player) SetGroupUpdateFlag(f models.GroupUpdateFlags) {
	p.groupUpdate |= f
}

// GroupUpdateFlags returns and clears the pending group refresh mask.
func (p *Player) GroupUpdateFlags() models.GroupUpdateFlags {
	f := p.groupUpdate
	p.groupUpdate = 0
	return f
}

// Inbox returns the notifications sent to the player's own client.
func (p *Player) Inbox() []events.Notification { return p.inbox }
