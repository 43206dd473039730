package meshpack

// MaxFaceVertices is the largest polygon the loader can triangulate.
const MaxFaceVertices = 5

// FaceVertexRef holds the 1-based OBJ indices of one polygon corner. A zero
// TexCoord or Normal means the token did not reference that attribute.
type FaceVertexRef struct {
	Position int
	TexCoord int
	Normal   int
}

// PositionIndex returns the 0-based position index.
func (r FaceVertexRef) PositionIndex() int {
	return r.Position - 1
}

// TexCoordIndex returns the 0-based texcoord index, or false when absent.
func (r FaceVertexRef) TexCoordIndex() (int, bool) {
	if r.TexCoord == 0 {
		return 0, false
	}
	return r.TexCoord - 1, true
}

// NormalIndex returns the 0-based normal index, or false when absent.
func (r FaceVertexRef) NormalIndex() (int, bool) {
	if r.Normal == 0 {
		return 0, false
	}
	return r.Normal - 1, true
}

// PolygonKind tags a face by its corner count.
type PolygonKind int

const (
	Triangular PolygonKind = 3
	Quad       PolygonKind = 4
	Pentagon   PolygonKind = 5
)

func (k PolygonKind) String() string {
	switch k {
	case Triangular:
		return "triangle"
	case Quad:
		return "quad"
	case Pentagon:
		return "pentagon"
	}
	return "invalid"
}

// Face is a triangle, quad or pentagon as listed in the file.
type Face struct {
	refs [MaxFaceVertices]FaceVertexRef
	n    int
}

// NewFace builds a face from 3 to MaxFaceVertices refs. It returns false if
// the count is out of range.
func NewFace(refs ...FaceVertexRef) (Face, bool) {
	var f Face
	if len(refs) < 3 || len(refs) > MaxFaceVertices {
		return f, false
	}
	f.n = copy(f.refs[:], refs)
	return f, true
}

func (f *Face) add(r FaceVertexRef) {
	f.refs[f.n] = r
	f.n++
}

// Len is the number of corners.
func (f Face) Len() int {
	return f.n
}

// Ref returns corner i.
func (f Face) Ref(i int) FaceVertexRef {
	return f.refs[i]
}

// Refs returns a copy of the corners.
func (f Face) Refs() []FaceVertexRef {
	out := make([]FaceVertexRef, f.n)
	copy(out, f.refs[:f.n])
	return out
}

// Kind reports whether the face is a triangle, quad or pentagon.
func (f Face) Kind() PolygonKind {
	return PolygonKind(f.n)
}

// triangulation lists the corner triples emitted for each polygon size.
// Quads fan from corner 0. Pentagons use a sliding window (0,1,2) (1,2,3)
// (2,3,4) rather than a fan. Existing models depend on that order.
var triangulation = map[PolygonKind][][3]int{
	Triangular: {{0, 1, 2}},
	Quad:       {{0, 1, 2}, {0, 2, 3}},
	Pentagon:   {{0, 1, 2}, {1, 2, 3}, {2, 3, 4}},
}

// Corners returns the corner triples the face expands to.
func (f Face) Corners() [][3]int {
	return triangulation[f.Kind()]
}

// TriangleCount is the number of triangles the face expands to.
func (f Face) TriangleCount() int {
	return len(triangulation[f.Kind()])
}
