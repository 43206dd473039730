package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/smasonuk/meshpack"
)

// DefaultFocal is the projection scale for a 480 pixel high screen: a point
// one unit to the side at depth one lands this many pixels from the centre.
const DefaultFocal = 700

const maxPitch = math.Pi/2 - 0.01

// Camera orbits Target at Distance. Yaw turns around the world Y axis and
// Pitch tilts up and down; with both zero the camera sits on +Z looking
// down -Z.
type Camera struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32

	// Near is the clip plane distance. Zero uses 1% of Distance.
	Near float32
	// Focal is the projection scale in pixels. Zero scales DefaultFocal to
	// the screen height.
	Focal float32
}

// FitCamera aims at the centre of m from far enough away to see all of it.
func FitCamera(m *meshpack.Mesh) Camera {
	radius := m.Extents().Len() / 2
	if radius == 0 {
		radius = 1
	}
	return Camera{Target: m.Center(), Distance: radius * 3}
}

func (c Camera) Eye() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	offset := mgl32.Vec3{float32(cp * sy), float32(sp), float32(cp * cy)}
	return c.Target.Add(offset.Mul(c.Distance))
}

func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Orbit turns the camera around its target. Pitch stops just short of
// straight up or down.
func (c *Camera) Orbit(yaw, pitch float32) {
	c.Yaw += yaw
	c.Pitch = mgl32.Clamp(c.Pitch+pitch, -maxPitch, maxPitch)
}

// Zoom multiplies the distance by factor.
func (c *Camera) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	c.Distance *= factor
}

func (c Camera) near() float32 {
	if c.Near > 0 {
		return c.Near
	}
	if c.Distance > 0 {
		return c.Distance * 0.01
	}
	return 0.01
}

func (c Camera) focal(height int) float32 {
	if c.Focal > 0 {
		return c.Focal
	}
	return DefaultFocal * float32(height) / 480
}
