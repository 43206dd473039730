package meshpack

import "github.com/go-gl/mathgl/mgl32"

// Vertex3 is a position or normal.
type Vertex3 = mgl32.Vec3

// Vertex2 is a texture coordinate (u, v).
type Vertex2 = mgl32.Vec2

// Vertex is one resolved triangle corner. Position is always set; Normal and
// TexCoord are only meaningful when the matching Has flag is true.
type Vertex struct {
	Position    Vertex3
	Normal      Vertex3
	TexCoord    Vertex2
	HasNormal   bool
	HasTexCoord bool
}

// Triangle is three resolved vertices in the winding order of the source face.
type Triangle [3]Vertex

// FaceNormal returns the unit normal of the triangle's plane. Degenerate
// triangles return (0, 0, 1).
func (t Triangle) FaceNormal() Vertex3 {
	u := t[1].Position.Sub(t[0].Position)
	v := t[2].Position.Sub(t[1].Position)
	n := u.Cross(v)
	if n.Len() == 0 {
		return Vertex3{0, 0, 1}
	}
	return n.Normalize()
}

// Midpoint is the centroid of the three positions.
func (t Triangle) Midpoint() Vertex3 {
	return t[0].Position.Add(t[1].Position).Add(t[2].Position).Mul(1.0 / 3)
}
