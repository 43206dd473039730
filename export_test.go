package meshpack

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedOBJ = header + `g front
f 1/1/1 2/2/1 3/3/1 4/1/1
f 1//2 2//2 3//2
g back
f 1/1 2/2 3/3 4/1 5/2
`

func TestWriteOBJRoundTrip(t *testing.T) {
	m := parseString(t, mixedOBJ)

	var buf bytes.Buffer
	require.NoError(t, m.WriteOBJ(&buf))

	again := parseString(t, buf.String())
	require.Equal(t, m.NumSubmeshes(), again.NumSubmeshes())
	assert.Equal(t, m.Positions(), again.Positions())
	assert.Equal(t, m.Normals(), again.Normals())
	assert.Equal(t, m.TexCoords(), again.TexCoords())
	for i, sm := range m.Submeshes() {
		assert.Equal(t, sm.Name, again.Submeshes()[i].Name)
		assert.Equal(t, sm.Triangles, again.Submeshes()[i].Triangles)
	}

	// every face in the output is already a triangle
	assert.Equal(t, again.TriangleCount(), again.Stats().Triangles)
}

func TestWriteOBJTokens(t *testing.T) {
	m := parseString(t, mixedOBJ)

	var buf bytes.Buffer
	require.NoError(t, m.WriteOBJ(&buf))
	out := buf.String()

	assert.Contains(t, out, "f 1/1/1 2/2/1 3/3/1\n")
	assert.Contains(t, out, "f 1/1/1 3/3/1 4/1/1\n")
	assert.Contains(t, out, "f 1//2 2//2 3//2\n")
	assert.Contains(t, out, "f 2/2 3/3 4/1\n")
	assert.Contains(t, out, "v 0.5 2 0\n")
}

func TestWriteDXF(t *testing.T) {
	m := parseString(t, mixedOBJ)

	var buf bytes.Buffer
	require.NoError(t, m.WriteDXF(&buf))
	out := buf.String()

	assert.Equal(t, m.TriangleCount(), strings.Count(out, "3DFACE\n"))
	assert.True(t, strings.HasPrefix(out, "0\nSECTION\n2\nHEADER\n0\nENDSEC\n"))
	assert.True(t, strings.HasSuffix(out, "0\nENDSEC\n0\nEOF\n"))
	// fourth corner repeats the third
	assert.Contains(t, out, "12\n1\n22\n1\n32\n0\n13\n1\n23\n1\n33\n0\n")
}

func TestSaveFiles(t *testing.T) {
	m := parseString(t, mixedOBJ)
	dir := t.TempDir()

	objPath := filepath.Join(dir, "out.obj")
	require.NoError(t, m.SaveOBJ(objPath))
	loaded, err := Load(objPath)
	require.NoError(t, err)
	assert.Equal(t, m.TriangleCount(), loaded.TriangleCount())

	dxfPath := filepath.Join(dir, "out.dxf")
	require.NoError(t, m.SaveDXF(dxfPath))
	data, err := os.ReadFile(dxfPath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	assert.Error(t, m.SaveDXF(filepath.Join(dir, "missing", "out.dxf")))
}
