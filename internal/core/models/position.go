package models

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Position is a world location plus facing (radians).
type Position struct {
	mgl64.Vec3
	O float64
}

func NewPosition(x, y, z, o float64) Position {
	return Position{Vec3: mgl64.Vec3{x, y, z}, O: o}
}

// Offset returns p moved by delta with orientation advanced by yaw.
// Orientation is normalized into [0, 2π).
func (p Position) Offset(delta mgl64.Vec3, yaw float64) Position {
	return Position{Vec3: p.Vec3.Add(delta), O: NormalizeOrientation(p.O + yaw)}
}

func NormalizeOrientation(o float64) float64 {
	o = math.Mod(o, 2*math.Pi)
	if o < 0 {
		o += 2 * math.Pi
	}
	return o
}
