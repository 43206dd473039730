package meshpack

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// five positions, two normals, three texcoords
const header = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0.5 2 0
vn 0 0 1
vn 0 0 -1
vt 0 0
vt 1 0
vt 1 1
`

func parseString(t *testing.T, src string, opts ...Option) *Mesh {
	t.Helper()
	m, err := Parse(strings.NewReader(src), opts...)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func parseErr(t *testing.T, src string, opts ...Option) *ParseError {
	t.Helper()
	m, err := Parse(strings.NewReader(src), opts...)
	require.Error(t, err)
	assert.Nil(t, m)
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "expected *ParseError, got %T: %v", err, err)
	return pe
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		line string
		want directive
	}{
		{"v 1 2 3", dirPosition},
		{"v\t1 2 3", dirPosition},
		{"  v 1 2 3", dirPosition},
		{"vn 0 1 0", dirNormal},
		{"vt 0.5 0.5", dirTexCoord},
		{"f 1/1/1 2/2/2 3/3/3", dirFace},
		{"g body", dirGroup},
		{"g", dirGroup},
		{"s off", dirIgnore},
		{"usemtl steel", dirIgnore},
		{"o teapot", dirIgnore},
		{"mtllib car.mtl", dirIgnore},
		{"vp 0.1 0.2", dirIgnore},
		{"v", dirIgnore},
		{"# v 1 2 3", dirIgnore},
		{"   # comment", dirIgnore},
		{"", dirIgnore},
		{"   ", dirIgnore},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.line))
		})
	}
}

func TestParseFaceVertexRef(t *testing.T) {
	testCases := []struct {
		tok  string
		want FaceVertexRef
		ok   bool
	}{
		{"1/2/3", FaceVertexRef{Position: 1, TexCoord: 2, Normal: 3}, true},
		{"4//5", FaceVertexRef{Position: 4, Normal: 5}, true},
		{"6/7", FaceVertexRef{Position: 6, TexCoord: 7}, true},
		{"7", FaceVertexRef{}, false},
		{"1/2/3/4", FaceVertexRef{}, false},
		{"a/2/3", FaceVertexRef{}, false},
		{"1/b", FaceVertexRef{}, false},
		{"1//", FaceVertexRef{}, false},
		{"1/2/", FaceVertexRef{}, false},
		{"+1/+1/+1", FaceVertexRef{Position: 1, TexCoord: 1, Normal: 1}, true},
		{"1/2/3x", FaceVertexRef{}, false},
		{"", FaceVertexRef{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.tok, func(t *testing.T) {
			ref, ok := parseFaceVertexRef(tc.tok)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, ref)
			}
		})
	}
}

func TestAttributeCountsAndOrder(t *testing.T) {
	m := parseString(t, header)

	assert.Equal(t, 5, m.NumPositions())
	assert.Equal(t, 2, m.NumNormals())
	assert.Equal(t, 3, m.NumTexCoords())
	assert.Equal(t, Vertex3{1, 1, 0}, m.Positions()[2])
	assert.Equal(t, Vertex3{0.5, 2, 0}, m.Positions()[4])
	assert.Equal(t, Vertex3{0, 0, -1}, m.Normals()[1])
	assert.Equal(t, Vertex2{1, 1}, m.TexCoords()[2])

	// no faces still gives one (empty) submesh
	require.Equal(t, 1, m.NumSubmeshes())
	assert.Empty(t, m.Submeshes()[0].Faces)
	assert.Equal(t, 0, m.TriangleCount())
}

func TestTriangleCount(t *testing.T) {
	src := header + `f 1/1/1 2/2/1 3/3/1
f 1/1/1 2/2/1 3/3/1 4/1/1
f 1//1 2//1 3//1 4//1
f 1/1 2/2 3/3 4/1 5/2
`
	m := parseString(t, src)

	// t + 2q + 3p with t=1, q=2, p=1
	assert.Equal(t, 1+2*2+3*1, m.TriangleCount())

	s := m.Stats()
	assert.Equal(t, 1, s.Triangles)
	assert.Equal(t, 2, s.Quads)
	assert.Equal(t, 1, s.Pentagons)
	assert.Equal(t, 8, s.OutTris)
}

func TestQuadTriangulation(t *testing.T) {
	m := parseString(t, header+"f 1/1/1 2/2/1 3/3/1 4/1/1\n")

	tris := m.Submeshes()[0].Triangles
	require.Len(t, tris, 2)
	pos := m.Positions()
	assert.Equal(t, [3]Vertex3{pos[0], pos[1], pos[2]}, positionsOf(tris[0]))
	assert.Equal(t, [3]Vertex3{pos[0], pos[2], pos[3]}, positionsOf(tris[1]))
}

func TestPentagonSlidingWindow(t *testing.T) {
	m := parseString(t, header+"f 1/1/1 2/2/1 3/3/1 4/1/1 5/2/1\n")

	pos := m.Positions()
	a, b, c, d, e := pos[0], pos[1], pos[2], pos[3], pos[4]

	tris := m.Submeshes()[0].Triangles
	require.Len(t, tris, 3)
	assert.Equal(t, [3]Vertex3{a, b, c}, positionsOf(tris[0]))
	assert.Equal(t, [3]Vertex3{b, c, d}, positionsOf(tris[1]))
	assert.Equal(t, [3]Vertex3{c, d, e}, positionsOf(tris[2]))
}

func TestSentinelOmission(t *testing.T) {
	m := parseString(t, header+"f 1//2 2//2 3//2\n")

	tri := m.Submeshes()[0].Triangles[0]
	for i, v := range tri {
		assert.False(t, v.HasTexCoord, "vertex %d", i)
		assert.Equal(t, Vertex2{}, v.TexCoord)
		assert.True(t, v.HasNormal, "vertex %d", i)
		assert.Equal(t, Vertex3{0, 0, -1}, v.Normal)
	}
	assert.Equal(t, Vertex3{1, 0, 0}, tri[1].Position)

	m = parseString(t, header+"f 1/1 2/2 3/3\n")
	tri = m.Submeshes()[0].Triangles[0]
	for _, v := range tri {
		assert.True(t, v.HasTexCoord)
		assert.False(t, v.HasNormal)
	}
	assert.Equal(t, Vertex2{1, 1}, tri[2].TexCoord)
}

func TestSubmeshSplitting(t *testing.T) {
	testCases := []struct {
		name  string
		body  string
		faces []int
		names []string
	}{
		{
			name:  "groups between faces",
			body:  "f 1/1 2/2 3/3\ng\nf 1/1 2/2 3/3\ng\ng\nf 1/1 2/2 3/3\n",
			faces: []int{1, 1, 1},
			names: []string{"", "", ""},
		},
		{
			name:  "leading group is a no-op",
			body:  "g wheels\nf 1/1 2/2 3/3\ng body\nf 1/1 2/2 3/3 4/1\n",
			faces: []int{1, 1},
			names: []string{"wheels", "body"},
		},
		{
			name:  "consecutive groups keep the last name",
			body:  "g a\ng b\nf 1/1 2/2 3/3\nf 1/1 2/2 3/3\n",
			faces: []int{2},
			names: []string{"b"},
		},
		{
			name:  "trailing group leaves an empty submesh",
			body:  "f 1/1 2/2 3/3\ng tail\n",
			faces: []int{1, 0},
			names: []string{"", "tail"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := parseString(t, header+tc.body)
			require.Equal(t, len(tc.faces), m.NumSubmeshes())
			for i, sm := range m.Submeshes() {
				assert.Len(t, sm.Faces, tc.faces[i], "submesh %d", i)
				assert.Equal(t, tc.names[i], sm.Name, "submesh %d", i)
			}
		})
	}
}

func TestIgnoredLines(t *testing.T) {
	src := "# exported\r\n" +
		"mtllib car.mtl\r\n" +
		"o car\r\n" +
		"v 0 0 0\r\n" +
		"v 1 0 0 1.0\r\n" +
		"v 0 1 0\r\n" +
		"vt 0 0 0\r\n" +
		"usemtl paint\r\n" +
		"s 1\r\n" +
		"   \r\n" +
		"  # indented comment\r\n" +
		"f 1/1 2/1 3/1\r\n"

	m := parseString(t, src)
	assert.Equal(t, 3, m.NumPositions())
	assert.Equal(t, 1, m.NumTexCoords())
	assert.Equal(t, 1, m.TriangleCount())
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		kind ErrorKind
		line int
		want error
	}{
		{"short position", "v 1.0 2.0\n", MalformedDirective, 1, ErrMalformedDirective},
		{"bad normal", header + "vn 0 x 1\n", MalformedDirective, 11, ErrMalformedDirective},
		{"short texcoord", header + "vt 0.5\n", MalformedDirective, 11, ErrMalformedDirective},
		{"bare position token", header + "f 1 2 3\n", UnrecognizedFaceToken, 11, ErrUnrecognizedFaceToken},
		{"garbage token", header + "f 1/1/1 2/2/2 q\n", UnrecognizedFaceToken, 11, ErrUnrecognizedFaceToken},
		{"two vertex face", header + "f 1/1/1 2/2/2\n", PolygonTooSmall, 11, ErrPolygonTooSmall},
		{"empty face", header + "f\n", PolygonTooSmall, 11, ErrPolygonTooSmall},
		{"hexagon", header + "v 3 3 3\nf 1/1 2/2 3/3 4/1 5/2 6/3\n", PolygonTooLarge, 12, ErrPolygonTooLarge},
		{"face before vertices", "f 1/1 2/2 3/3\n" + header, IndexOutOfRange, 1, ErrIndexOutOfRange},
		{"position past end", header + "f 1/1 2/2 9/3\n", IndexOutOfRange, 11, ErrIndexOutOfRange},
		{"zero position", header + "f 0/1 2/2 3/3\n", IndexOutOfRange, 11, ErrIndexOutOfRange},
		{"negative position", header + "f -1/1 2/2 3/3\n", IndexOutOfRange, 11, ErrIndexOutOfRange},
		{"normal past end", header + "f 1//3 2//1 3//1\n", IndexOutOfRange, 11, ErrIndexOutOfRange},
		{"texcoord past end", header + "f 1/4 2/1 3/1\n", IndexOutOfRange, 11, ErrIndexOutOfRange},
		{"line too long", header + "v " + strings.Repeat("1", 2*maxLineLength) + "\n", MalformedDirective, 11, ErrMalformedDirective},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pe := parseErr(t, tc.src)
			assert.Equal(t, tc.kind, pe.Kind)
			assert.Equal(t, tc.line, pe.Line)
			assert.ErrorIs(t, pe, tc.want)
			assert.Equal(t, tc.kind, KindOf(pe))
			assert.Contains(t, pe.Error(), "line")
		})
	}
}

func TestParseErrorUnknownKind(t *testing.T) {
	pe := &ParseError{Line: 3, Text: "x"}
	assert.Equal(t, `line 3: ErrorKind(0) ("x")`, pe.Error())
	assert.False(t, errors.Is(pe, ErrMalformedDirective))

	pe = &ParseError{Kind: ErrorKind(42), Line: 1, Err: errors.New("odd")}
	assert.Equal(t, `line 1: ErrorKind(42): odd ("")`, pe.Error())
}

func TestParseErrorKeepsRawLine(t *testing.T) {
	pe := parseErr(t, header+"f  1/1/1   2/2/2\n")
	assert.Equal(t, "f  1/1/1   2/2/2", pe.Text)
}

func TestMaxPolygonVertices(t *testing.T) {
	pent := header + "f 1/1 2/2 3/3 4/1 5/2\n"

	pe := parseErr(t, pent, WithMaxPolygonVertices(4))
	assert.Equal(t, PolygonTooLarge, pe.Kind)

	m := parseString(t, header+"f 1/1 2/2 3/3 4/1\n", WithMaxPolygonVertices(4))
	assert.Equal(t, 2, m.TriangleCount())

	_, err := Parse(strings.NewReader(pent), WithMaxPolygonVertices(6))
	require.Error(t, err)
	_, err = Parse(strings.NewReader(pent), WithMaxPolygonVertices(2))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.obj"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Equal(t, FileNotFound, KindOf(err))
	assert.Nil(t, m)

	assert.Equal(t, 0, m.NumPositions())
	assert.Equal(t, 0, m.NumNormals())
	assert.Equal(t, 0, m.NumTexCoords())
	assert.Equal(t, 0, m.NumSubmeshes())
	assert.Equal(t, 0, m.TriangleCount())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(header+"g top\nf 1/1/1 2/2/1 3/3/1 4/1/1\n"), 0o644))

	m, err := Load(path, WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, path, m.Source())
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, "top", m.Submeshes()[0].Name)
}

func TestLoadWrapsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 1 2\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedDirective)
	assert.NotErrorIs(t, err, ErrFileNotFound)
	assert.Contains(t, err.Error(), path)
}

func positionsOf(t Triangle) [3]Vertex3 {
	return [3]Vertex3{t[0].Position, t[1].Position, t[2].Position}
}
