// Command objinfo prints what an OBJ file contains and can write it back out
// triangulated, as OBJ or DXF.
//
//	objinfo [-obj out.obj] [-dxf out.dxf] model.obj [more.obj ...]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/smasonuk/meshpack"
	"github.com/smasonuk/meshpack/internal/logx"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("objinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	objOut := fs.String("obj", "", "write the triangulated mesh as OBJ (single input only)")
	dxfOut := fs.String("dxf", "", "write the triangulated mesh as DXF (single input only)")
	maxVerts := fs.Int("max-verts", meshpack.MaxFaceVertices, "largest polygon accepted, 3 to 5")
	verbose := fs.Bool("v", false, "log parser details")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := slog.New(logx.NewHandler(stderr))
	if *verbose {
		logx.UserLevel.Set(slog.LevelDebug)
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: objinfo [flags] model.obj [more.obj ...]")
		fs.PrintDefaults()
		return 2
	}
	if (*objOut != "" || *dxfOut != "") && fs.NArg() != 1 {
		log.Error("-obj and -dxf take a single input file", slog.Int("inputs", fs.NArg()))
		return 2
	}

	out := termenv.NewOutput(stdout)
	status := 0
	for _, path := range fs.Args() {
		m, err := meshpack.Load(path, meshpack.WithMaxPolygonVertices(*maxVerts), meshpack.WithLogger(log))
		if err != nil {
			if errors.Is(err, meshpack.ErrFileNotFound) {
				log.Warn("skipping missing model", slog.String("path", path))
			} else {
				log.Error("could not load model", slog.String("path", path), slog.String("kind", meshpack.KindOf(err).String()), slog.Any("err", err))
			}
			status = 1
			continue
		}

		fmt.Fprintln(stdout, out.String(path).Bold())
		printStats(stdout, m)

		if *objOut != "" {
			if err := m.SaveOBJ(*objOut); err != nil {
				log.Error("export failed", slog.Any("err", err))
				return 1
			}
			log.Info("wrote OBJ", slog.String("path", *objOut))
		}
		if *dxfOut != "" {
			if err := m.SaveDXF(*dxfOut); err != nil {
				log.Error("export failed", slog.Any("err", err))
				return 1
			}
			log.Info("wrote DXF", slog.String("path", *dxfOut))
		}
	}
	return status
}

func printStats(w io.Writer, m *meshpack.Mesh) {
	s := m.Stats()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  positions\t%d\n", s.Positions)
	fmt.Fprintf(tw, "  normals\t%d\n", s.Normals)
	fmt.Fprintf(tw, "  texcoords\t%d\n", s.TexCoords)
	fmt.Fprintf(tw, "  faces\t%d tri, %d quad, %d pent\n", s.Triangles, s.Quads, s.Pentagons)
	fmt.Fprintf(tw, "  triangles\t%d\n", s.OutTris)
	fmt.Fprintf(tw, "  submeshes\t%d (%d empty)\n", s.Submeshes, s.EmptyParts)
	if min, max, ok := m.Bounds(); ok {
		fmt.Fprintf(tw, "  bounds\t%v .. %v\n", min, max)
		fmt.Fprintf(tw, "  extents\t%v\n", m.Extents())
	}
	for i, sm := range m.Submeshes() {
		name := sm.Name
		if name == "" {
			name = "(default)"
		}
		fmt.Fprintf(tw, "  [%d] %s\t%d faces, %d triangles\n", i, name, len(sm.Faces), len(sm.Triangles))
	}
	tw.Flush()
}
