// Package movement holds the per-unit movement state shared with the
// transport and vehicle systems.
package movement

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/vehicle/internal/core/models"
)

type Flags uint32

const (
	FlagNone        Flags = 0x00000000
	FlagForward     Flags = 0x00000001
	FlagBackward    Flags = 0x00000002
	FlagRoot        Flags = 0x00000800
	FlagOnTransport Flags = 0x00000200
)

// TransportInfo anchors a unit to a transport. Offset and Orientation are
// relative to the transport's own position and facing.
type TransportInfo struct {
	GUID        models.GUID
	Offset      mgl64.Vec3
	Orientation float64
	Time        time.Time
	Seat        int8
	SeatFlags   uint32
}

type Info struct {
	flags     Flags
	transport TransportInfo
}

func (m *Info) Flags() Flags {
	return m.flags
}

func (m *Info) HasFlag(f Flags) bool {
	return m.flags&f != 0
}

func (m *Info) AddFlag(f Flags) {
	m.flags |= f
}

func (m *Info) RemoveFlag(f Flags) {
	m.flags &^= f
}

// SetTransportData records where on the transport the unit sits.
func (m *Info) SetTransportData(guid models.GUID, offset mgl64.Vec3, orientation float64, at time.Time, seat int8, seatFlags uint32) {
	m.transport = TransportInfo{
		GUID:        guid,
		Offset:      offset,
		Orientation: orientation,
		Time:        at,
		Seat:        seat,
		SeatFlags:   seatFlags,
	}
}

func (m *Info) ClearTransportData() {
	m.transport = TransportInfo{Seat: -1}
}

func (m *Info) Transport() TransportInfo {
	return m.transport
}

// OnTransport reports whether transport data is currently set.
func (m *Info) OnTransport() bool {
	return m.transport.GUID != models.EmptyGUID
}

func (m *Info) VehicleSeatFlags() uint32 {
	return m.transport.SeatFlags
}
