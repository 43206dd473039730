// Package raster turns a mesh into screen-space polygons ready to paint
// back to front. It does no drawing itself.
package raster

import (
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/smasonuk/meshpack"
)

// Point is a projected corner. U and V address a texture with its origin at
// the top left.
type Point struct {
	X, Y float32
	U, V float32
}

// Polygon is one visible triangle after near-plane clipping, so it has three
// or four points.
type Polygon struct {
	Points     []Point
	Depth      float32
	Brightness float32
	Color      color.RGBA
	Submesh    int
	// Textured is set when every corner had a texture coordinate.
	Textured bool
}

// Project transforms every triangle of m by model and the camera view,
// drops the ones facing away or behind the near plane, and returns the rest
// sorted farthest first.
func Project(m *meshpack.Mesh, model mgl32.Mat4, cam Camera, width, height int, light Light) []Polygon {
	view := cam.View().Mul4(model)
	near := cam.near()
	focal := cam.focal(height)
	cx, cy := float32(width)/2, float32(height)/2

	polys := make([]Polygon, 0, m.TriangleCount())
	for sub, tri := range m.Triangles() {
		var ct meshpack.Triangle
		pts := make([]camPoint, 3)
		textured := true
		for i, v := range tri {
			pts[i] = camPoint{pos: toCamera(view, v.Position), uv: v.TexCoord}
			ct[i].Position = pts[i].pos
			textured = textured && v.HasTexCoord
		}

		n := ct.FaceNormal()
		mid := ct.Midpoint()
		if n.Dot(mid) >= 0 {
			continue
		}

		clipped := clipNear(pts, near)
		if len(clipped) < 3 {
			continue
		}

		screen := make([]Point, len(clipped))
		for i, p := range clipped {
			x, y := ToScreen(p.pos, focal, cx, cy)
			screen[i] = Point{X: x, Y: y, U: p.uv.X(), V: 1 - p.uv.Y()}
		}

		b := light.Brightness(n, mid)
		polys = append(polys, Polygon{
			Points:     screen,
			Depth:      mid.Len(),
			Brightness: b,
			Color:      Shade(SubmeshColor(sub), b),
			Submesh:    sub,
			Textured:   textured,
		})
	}

	sortByDistance(polys)
	return polys
}

// toCamera applies view and flips y and z so that z grows away from the
// viewer and y grows down the screen.
func toCamera(view mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	v := mgl32.TransformCoordinate(p, view)
	return mgl32.Vec3{v.X(), -v.Y(), -v.Z()}
}

// ToScreen projects a camera-space point onto a screen centred on cx, cy.
func ToScreen(p mgl32.Vec3, focal, cx, cy float32) (x, y float32) {
	return focal*p.X()/p.Z() + cx, focal*p.Y()/p.Z() + cy
}

// FromScreen inverts ToScreen for a point at depth z.
func FromScreen(x, y, z, focal, cx, cy float32) mgl32.Vec3 {
	return mgl32.Vec3{(x - cx) * z / focal, (y - cy) * z / focal, z}
}

// sortByDistance puts the farthest polygons first so that painting in order
// leaves the nearest on top.
func sortByDistance(polys []Polygon) {
	sort.SliceStable(polys, func(i, j int) bool {
		return polys[i].Depth > polys[j].Depth
	})
}
