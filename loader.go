package meshpack

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// maxLineLength bounds a single OBJ line. Long face lines from some exporters
// exceed bufio's 64K default.
const maxLineLength = 1 << 20

type directive int

const (
	dirIgnore directive = iota
	dirPosition
	dirNormal
	dirTexCoord
	dirFace
	dirGroup
)

func (d directive) String() string {
	switch d {
	case dirPosition:
		return "v"
	case dirNormal:
		return "vn"
	case dirTexCoord:
		return "vt"
	case dirFace:
		return "f"
	case dirGroup:
		return "g"
	}
	return "ignored"
}

// classify looks at the first one or two characters of a line, after leading
// whitespace, to decide what it holds. Blank lines, comments, smoothing
// groups, usemtl and unknown directives are all dirIgnore.
func classify(line string) directive {
	line = strings.TrimLeft(line, " \t")
	if line == "" {
		return dirIgnore
	}
	switch line[0] {
	case 'v':
		if len(line) < 2 {
			return dirIgnore
		}
		switch line[1] {
		case ' ', '\t':
			return dirPosition
		case 'n':
			return dirNormal
		case 't':
			return dirTexCoord
		}
	case 'f':
		return dirFace
	case 'g':
		return dirGroup
	}
	return dirIgnore
}

// Load reads and triangulates the OBJ file at path. A missing or unreadable
// file yields an error matching ErrFileNotFound and a nil mesh.
func Load(path string, opts ...Option) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open OBJ file %s: %w: %w", path, ErrFileNotFound, err)
	}
	defer file.Close()

	m, err := Parse(file, append([]Option{WithSource(path)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("error parsing OBJ file %s: %w", path, err)
	}
	return m, nil
}

// Parse reads OBJ text from r and returns the triangulated mesh. The whole
// input is rejected on the first malformed line.
func Parse(r io.Reader, opts ...Option) (*Mesh, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	p := &parser{
		opts: o,
		log:  o.logger.With(slog.String("source", o.source)),
		mesh: &Mesh{source: o.source, submeshes: []Submesh{{}}},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(strings.TrimSuffix(scanner.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			p.line++
			return nil, p.fail(MalformedDirective, "", err)
		}
		return nil, fmt.Errorf("error reading from OBJ source: %w", err)
	}

	p.mesh.build()
	p.log.Debug("loaded obj",
		slog.Int("positions", len(p.mesh.positions)),
		slog.Int("normals", len(p.mesh.normals)),
		slog.Int("texcoords", len(p.mesh.texcoords)),
		slog.Int("submeshes", len(p.mesh.submeshes)),
		slog.Int("triangles", p.mesh.TriangleCount()),
	)
	return p.mesh, nil
}

type parser struct {
	opts options
	log  *slog.Logger
	mesh *Mesh
	line int
}

func (p *parser) fail(kind ErrorKind, text string, err error) error {
	return &ParseError{Kind: kind, Line: p.line, Text: text, Err: err}
}

func (p *parser) current() *Submesh {
	return &p.mesh.submeshes[len(p.mesh.submeshes)-1]
}

func (p *parser) parseLine(line string) error {
	d := classify(line)
	switch d {
	case dirPosition, dirNormal:
		v, err := p.scanFloats(line, 3)
		if err != nil {
			return err
		}
		vec := Vertex3{v[0], v[1], v[2]}
		if d == dirPosition {
			p.mesh.positions = append(p.mesh.positions, vec)
		} else {
			p.mesh.normals = append(p.mesh.normals, vec)
		}
	case dirTexCoord:
		v, err := p.scanFloats(line, 2)
		if err != nil {
			return err
		}
		p.mesh.texcoords = append(p.mesh.texcoords, Vertex2{v[0], v[1]})
	case dirFace:
		return p.parseFace(line)
	case dirGroup:
		p.parseGroup(line)
	default:
		if trimmed := strings.TrimSpace(line); trimmed != "" && trimmed[0] != '#' {
			p.log.Debug("skipping directive", slog.Int("line", p.line), slog.String("text", line))
		}
	}
	return nil
}

// scanFloats reads the first n fields after the directive. Extra fields, such
// as an optional w, are ignored.
func (p *parser) scanFloats(line string, n int) ([]float32, error) {
	fields := strings.Fields(line)[1:]
	if len(fields) < n {
		return nil, p.fail(MalformedDirective, line, fmt.Errorf("expected %d values, got %d", n, len(fields)))
	}
	out := make([]float32, n)
	for i := range out {
		val, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, p.fail(MalformedDirective, line, fmt.Errorf("could not parse float value '%s': %w", fields[i], err))
		}
		out[i] = float32(val)
	}
	return out, nil
}

func (p *parser) parseFace(line string) error {
	tokens := strings.Fields(line)[1:]
	var face Face
	noTexCoords := false
	for i, tok := range tokens {
		if i >= p.opts.maxVertices {
			return p.fail(PolygonTooLarge, line, fmt.Errorf("%d vertices, limit is %d", len(tokens), p.opts.maxVertices))
		}
		ref, ok := parseFaceVertexRef(tok)
		if !ok {
			return p.fail(UnrecognizedFaceToken, line, fmt.Errorf("token %q", tok))
		}
		if err := p.checkRef(ref); err != nil {
			return p.fail(IndexOutOfRange, line, fmt.Errorf("token %q: %w", tok, err))
		}
		if ref.TexCoord == 0 && ref.Normal != 0 {
			noTexCoords = true
		}
		face.add(ref)
	}
	if face.Len() < 3 {
		return p.fail(PolygonTooSmall, line, fmt.Errorf("%d vertices", face.Len()))
	}
	if noTexCoords {
		p.log.Debug("face has no texture coordinates", slog.Int("line", p.line))
	}
	sm := p.current()
	sm.Faces = append(sm.Faces, face)
	return nil
}

// checkRef validates ref against the attributes read so far, so a face that
// precedes its vertices is rejected.
func (p *parser) checkRef(ref FaceVertexRef) error {
	m := p.mesh
	if ref.Position < 1 || ref.Position > len(m.positions) {
		return fmt.Errorf("position %d of %d", ref.Position, len(m.positions))
	}
	if ref.TexCoord < 0 || ref.TexCoord > len(m.texcoords) {
		return fmt.Errorf("texcoord %d of %d", ref.TexCoord, len(m.texcoords))
	}
	if ref.Normal < 0 || ref.Normal > len(m.normals) {
		return fmt.Errorf("normal %d of %d", ref.Normal, len(m.normals))
	}
	return nil
}

func (p *parser) parseGroup(line string) {
	name := strings.Join(strings.Fields(line)[1:], " ")
	sm := p.current()
	if len(sm.Faces) == 0 {
		sm.Name = name
		return
	}
	p.mesh.submeshes = append(p.mesh.submeshes, Submesh{Name: name})
}

// parseFaceVertexRef accepts exactly one of pos/tex/norm, pos//norm and
// pos/tex, tried in that order. Any other shape, including a bare position,
// is rejected.
func parseFaceVertexRef(tok string) (FaceVertexRef, bool) {
	var ref FaceVertexRef
	parts := strings.Split(tok, "/")
	var err error
	switch len(parts) {
	case 3:
		if ref.Position, err = strconv.Atoi(parts[0]); err != nil {
			return ref, false
		}
		if ref.Normal, err = strconv.Atoi(parts[2]); err != nil {
			return ref, false
		}
		if parts[1] == "" {
			return ref, true
		}
		if ref.TexCoord, err = strconv.Atoi(parts[1]); err != nil {
			return ref, false
		}
		return ref, true
	case 2:
		if ref.Position, err = strconv.Atoi(parts[0]); err != nil {
			return ref, false
		}
		if ref.TexCoord, err = strconv.Atoi(parts[1]); err != nil {
			return ref, false
		}
		return ref, true
	}
	return ref, false
}
