package meshpack

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteOBJ writes the mesh back out as OBJ with every face already
// triangulated. Attribute arrays are written unchanged, so parsing the output
// gives the same triangles in the same order.
func (m *Mesh) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if m.Source() != "" {
		fmt.Fprintf(bw, "# triangulated from %s\n", m.Source())
	}
	for _, p := range m.pos() {
		fmt.Fprintf(bw, "v %s %s %s\n", ftoa(p[0]), ftoa(p[1]), ftoa(p[2]))
	}
	for _, t := range m.TexCoords() {
		fmt.Fprintf(bw, "vt %s %s\n", ftoa(t[0]), ftoa(t[1]))
	}
	for _, n := range m.Normals() {
		fmt.Fprintf(bw, "vn %s %s %s\n", ftoa(n[0]), ftoa(n[1]), ftoa(n[2]))
	}

	for i, sm := range m.parts() {
		if len(sm.Faces) == 0 {
			continue
		}
		if i > 0 || sm.Name != "" {
			fmt.Fprintf(bw, "g %s\n", sm.Name)
		}
		for _, f := range sm.Faces {
			for _, c := range f.Corners() {
				fmt.Fprintf(bw, "f %s %s %s\n", refToken(f.Ref(c[0])), refToken(f.Ref(c[1])), refToken(f.Ref(c[2])))
			}
		}
	}
	return bw.Flush()
}

func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func refToken(r FaceVertexRef) string {
	switch {
	case r.TexCoord != 0 && r.Normal != 0:
		return fmt.Sprintf("%d/%d/%d", r.Position, r.TexCoord, r.Normal)
	case r.Normal != 0:
		return fmt.Sprintf("%d//%d", r.Position, r.Normal)
	default:
		return fmt.Sprintf("%d/%d", r.Position, r.TexCoord)
	}
}

// SaveOBJ writes the triangulated mesh to fileName.
func (m *Mesh) SaveOBJ(fileName string) error {
	return saveTo(fileName, "OBJ", m.WriteOBJ)
}

// WriteDXF writes every triangle as a DXF 3DFACE entity on layer 0. 3DFACE
// always has four corners; the fourth repeats the third.
func (m *Mesh) WriteDXF(w io.Writer) error {
	bw := bufio.NewWriter(w)

	writePair := func(code int, value interface{}) {
		_, _ = fmt.Fprintf(bw, "%d\n%v\n", code, value)
	}

	writePair(0, "SECTION")
	writePair(2, "HEADER")
	writePair(0, "ENDSEC")

	writePair(0, "SECTION")
	writePair(2, "ENTITIES")

	for _, t := range m.Triangles() {
		writePair(0, "3DFACE")
		writePair(8, "0")

		corners := [4]Vertex3{t[0].Position, t[1].Position, t[2].Position, t[2].Position}
		for i, p := range corners {
			writePair(10+i, ftoa(p[0]))
			writePair(20+i, ftoa(p[1]))
			writePair(30+i, ftoa(p[2]))
		}
	}

	writePair(0, "ENDSEC")
	writePair(0, "EOF")

	return bw.Flush()
}

// SaveDXF writes the triangulated mesh to fileName as DXF.
func (m *Mesh) SaveDXF(fileName string) error {
	return saveTo(fileName, "DXF", m.WriteDXF)
}

func saveTo(fileName, format string, write func(io.Writer) error) error {
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("could not create %s file %s: %w", format, fileName, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("error writing %s file %s: %w", format, fileName, err)
	}
	return file.Close()
}
