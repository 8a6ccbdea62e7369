// Package events defines the notifications units broadcast to nearby
// observers. They travel over the bus, one topic per map.
package events

import (
	"strconv"
	"time"

	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/models"
)

const (
	TypeForceMoveRoot        = "movement.force_root"
	TypeForceMoveUnroot      = "movement.force_unroot"
	TypeMonsterMoveTransport = "movement.transport"
	TypePassengerBoarded     = "vehicle.passenger_boarded"
	TypePassengerLeft        = "vehicle.passenger_left"
	TypeUnitDespawned        = "unit.despawned"
)

// RootFlagCanRotate keeps in-place rotation allowed while rooted.
const RootFlagCanRotate uint32 = 2

// Notification is anything a unit can broadcast.
type Notification interface {
	NotificationType() string
}

type ForceMoveRoot struct {
	GUID  models.GUID `json:"guid"`
	Flags uint32      `json:"flags"`
}

func (ForceMoveRoot) NotificationType() string { return TypeForceMoveRoot }

type ForceMoveUnroot struct {
	GUID  models.GUID `json:"guid"`
	Flags uint32      `json:"flags"`
}

func (ForceMoveUnroot) NotificationType() string { return TypeForceMoveUnroot }

// MonsterMoveTransport tells observers the unit now moves with Transport.
type MonsterMoveTransport struct {
	GUID        models.GUID `json:"guid"`
	Transport   models.GUID `json:"transport"`
	Offset      [3]float64  `json:"offset"`
	Orientation float64     `json:"orientation"`
	Seat        int8        `json:"seat"`
}

func (MonsterMoveTransport) NotificationType() string { return TypeMonsterMoveTransport }

type PassengerChange struct {
	Vehicle   models.GUID `json:"vehicle"`
	Passenger models.GUID `json:"passenger"`
	Seat      int8        `json:"seat"`
	Boarded   bool        `json:"boarded"`
}

func (p PassengerChange) NotificationType() string {
	if p.Boarded {
		return TypePassengerBoarded
	}
	return TypePassengerLeft
}

type UnitDespawned struct {
	GUID models.GUID `json:"guid"`
}

func (UnitDespawned) NotificationType() string { return TypeUnitDespawned }

// MapTopic is the bus topic carrying notifications for one map.
func MapTopic(mapID uint32) string {
	return "map:" + strconv.FormatUint(uint64(mapID), 10)
}

// Publish wraps n in a bus event on the map's topic.
func Publish(b bus.EventBus, mapID uint32, source models.GUID, n Notification) error {
	return b.PublishToTopic(MapTopic(mapID), bus.NewEvent(n.NotificationType(), source.String(), n))
}

// Envelope is the JSON frame handed to remote observers.
type Envelope struct {
	Type   string    `json:"type"`
	Source string    `json:"source"`
	Time   time.Time `json:"time"`
	Data   any       `json:"data"`
}

func NewEnvelope(e bus.Event) Envelope {
	return Envelope{Type: e.Type(), Source: e.Source(), Time: e.Timestamp(), Data: e.Data()}
}
