package meshpack

import (
	"iter"
	"math"
	"slices"
)

// Mesh is a fully parsed and triangulated OBJ model. It is immutable once
// returned by Load or Parse and may be shared between goroutines. Accessors
// return copies.
type Mesh struct {
	source    string
	positions []Vertex3
	normals   []Vertex3
	texcoords []Vertex2
	submeshes []Submesh
}

// Submesh is a run of faces between group directives, along with the
// triangles they expand to.
type Submesh struct {
	Name      string
	Faces     []Face
	Triangles []Triangle
}

func (sm Submesh) clone() Submesh {
	return Submesh{
		Name:      sm.Name,
		Faces:     slices.Clone(sm.Faces),
		Triangles: slices.Clone(sm.Triangles),
	}
}

// Source is the path the mesh was loaded from, if any.
func (m *Mesh) Source() string {
	if m == nil {
		return ""
	}
	return m.source
}

func (m *Mesh) Positions() []Vertex3 {
	return slices.Clone(m.pos())
}

func (m *Mesh) Normals() []Vertex3 {
	if m == nil {
		return nil
	}
	return slices.Clone(m.normals)
}

func (m *Mesh) TexCoords() []Vertex2 {
	if m == nil {
		return nil
	}
	return slices.Clone(m.texcoords)
}

// Submeshes returns a deep copy of the submeshes in file order.
func (m *Mesh) Submeshes() []Submesh {
	parts := m.parts()
	if parts == nil {
		return nil
	}
	out := make([]Submesh, len(parts))
	for i, sm := range parts {
		out[i] = sm.clone()
	}
	return out
}

// Submesh returns a copy of submesh i.
func (m *Mesh) Submesh(i int) Submesh {
	return m.parts()[i].clone()
}

func (m *Mesh) pos() []Vertex3 {
	if m == nil {
		return nil
	}
	return m.positions
}

func (m *Mesh) parts() []Submesh {
	if m == nil {
		return nil
	}
	return m.submeshes
}

func (m *Mesh) NumPositions() int { return len(m.pos()) }
func (m *Mesh) NumSubmeshes() int { return len(m.parts()) }

func (m *Mesh) NumNormals() int {
	if m == nil {
		return 0
	}
	return len(m.normals)
}

func (m *Mesh) NumTexCoords() int {
	if m == nil {
		return 0
	}
	return len(m.texcoords)
}

// TriangleCount is the total number of triangles over all submeshes.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, sm := range m.parts() {
		n += len(sm.Triangles)
	}
	return n
}

// Triangles yields every triangle with the index of its submesh, in file
// order.
func (m *Mesh) Triangles() iter.Seq2[int, Triangle] {
	return func(yield func(int, Triangle) bool) {
		for i, sm := range m.parts() {
			for _, t := range sm.Triangles {
				if !yield(i, t) {
					return
				}
			}
		}
	}
}

// build expands every face into triangles. Indices were range-checked while
// parsing.
func (m *Mesh) build() {
	for i := range m.submeshes {
		sm := &m.submeshes[i]
		n := 0
		for _, f := range sm.Faces {
			n += f.TriangleCount()
		}
		sm.Triangles = make([]Triangle, 0, n)
		for _, f := range sm.Faces {
			for _, c := range f.Corners() {
				sm.Triangles = append(sm.Triangles, Triangle{
					m.resolve(f.Ref(c[0])),
					m.resolve(f.Ref(c[1])),
					m.resolve(f.Ref(c[2])),
				})
			}
		}
	}
}

func (m *Mesh) resolve(r FaceVertexRef) Vertex {
	v := Vertex{Position: m.positions[r.PositionIndex()]}
	if i, ok := r.NormalIndex(); ok {
		v.Normal = m.normals[i]
		v.HasNormal = true
	}
	if i, ok := r.TexCoordIndex(); ok {
		v.TexCoord = m.texcoords[i]
		v.HasTexCoord = true
	}
	return v
}

// Bounds returns the axis-aligned box around all positions. ok is false for
// a mesh without positions.
func (m *Mesh) Bounds() (min, max Vertex3, ok bool) {
	pts := m.pos()
	if len(pts) == 0 {
		return min, max, false
	}
	inf := float32(math.Inf(1))
	min = Vertex3{inf, inf, inf}
	max = Vertex3{-inf, -inf, -inf}
	for _, p := range pts {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max, true
}

// Extents is the size of the bounding box along each axis.
func (m *Mesh) Extents() Vertex3 {
	min, max, ok := m.Bounds()
	if !ok {
		return Vertex3{}
	}
	return max.Sub(min)
}

// Center is the middle of the bounding box.
func (m *Mesh) Center() Vertex3 {
	min, max, ok := m.Bounds()
	if !ok {
		return Vertex3{}
	}
	return min.Add(max).Mul(0.5)
}

// Stats summarises a mesh.
type Stats struct {
	Positions  int
	Normals    int
	TexCoords  int
	Submeshes  int
	Triangles  int
	Quads      int
	Pentagons  int
	OutTris    int
	EmptyParts int
}

// Stats counts attributes and faces by kind. Triangles, Quads and Pentagons
// count source faces; OutTris counts triangles after expansion.
func (m *Mesh) Stats() Stats {
	s := Stats{
		Positions: m.NumPositions(),
		Normals:   m.NumNormals(),
		TexCoords: m.NumTexCoords(),
		Submeshes: m.NumSubmeshes(),
		OutTris:   m.TriangleCount(),
	}
	for _, sm := range m.parts() {
		if len(sm.Faces) == 0 {
			s.EmptyParts++
		}
		for _, f := range sm.Faces {
			switch f.Kind() {
			case Triangular:
				s.Triangles++
			case Quad:
				s.Quads++
			case Pentagon:
				s.Pentagons++
			}
		}
	}
	return s
}
