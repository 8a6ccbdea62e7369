package models

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestPositionOffset(t *testing.T) {
	p := NewPosition(10, 20, 30, 1.5*math.Pi)
	got := p.Offset(mgl64.Vec3{1, -2, 0.5}, math.Pi)

	assert.Equal(t, mgl64.Vec3{11, 18, 30.5}, got.Vec3)
	assert.InDelta(t, 0.5*math.Pi, got.O, 1e-9)
}

func TestNormalizeOrientation(t *testing.T) {
	assert.InDelta(t, 1.5*math.Pi, NormalizeOrientation(-0.5*math.Pi), 1e-9)
	assert.InDelta(t, 0, NormalizeOrientation(2*math.Pi), 1e-9)
}

func TestInitVehicleActions(t *testing.T) {
	var c CharmInfo
	c.InitVehicleActions([]uint32{0, 1, 2, 0, 3, 4, 5, 6, 7})
	assert.Equal(t, []uint32{1, 2, 3, 4, 5, 6}, c.Actions)

	c.InitVehicleActions(nil)
	assert.Empty(t, c.Actions)
}
