package raster

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Light is a spotlight at the camera pointing along the view direction, plus
// a flat ambient term.
type Light struct {
	// Ambient is the minimum brightness of any face, from 0 to 1.
	Ambient float32
	// ConePower sharpens the spotlight. Higher values give a tighter cone.
	ConePower float64
}

func DefaultLight() Light {
	return Light{Ambient: 0.65, ConePower: 10}
}

// Brightness is the light reaching a face with unit normal n whose midpoint
// is mid, both in camera space. The result is between Ambient and 1.
func (l Light) Brightness(n, mid mgl32.Vec3) float32 {
	diffuse := -n.Z()
	if diffuse < 0 {
		diffuse = 0
	}

	spot := 1.0
	if d := mid.Len(); d > 0 {
		cosAngle := float64(mid.Z() / d)
		if cosAngle < 0 {
			cosAngle = 0
		}
		spot = math.Pow(cosAngle, l.ConePower)
	}

	b := l.Ambient + diffuse*float32(spot)*(1-l.Ambient)
	return mgl32.Clamp(b, 0, 1)
}

// Shade darkens c by brightness. Full brightness leaves c unchanged; each
// channel bottoms out at 7.
func Shade(c color.RGBA, brightness float32) color.RGBA {
	sub := 240 - int(brightness*240)
	return color.RGBA{
		R: uint8(clamp(int(c.R)-sub, 7, 255)),
		G: uint8(clamp(int(c.G)-sub, 7, 255)),
		B: uint8(clamp(int(c.B)-sub, 7, 255)),
		A: c.A,
	}
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Palette colours submeshes in turn.
var Palette = []color.RGBA{
	{R: 220, G: 200, B: 180, A: 255},
	{R: 110, G: 170, B: 230, A: 255},
	{R: 230, G: 120, B: 100, A: 255},
	{R: 130, G: 210, B: 120, A: 255},
	{R: 210, G: 180, B: 90, A: 255},
	{R: 180, G: 130, B: 220, A: 255},
}

// SubmeshColor is the palette entry for submesh i.
func SubmeshColor(i int) color.RGBA {
	return Palette[i%len(Palette)]
}
