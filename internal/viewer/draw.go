package viewer

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/smasonuk/meshpack/raster"
)

var (
	whiteOnce sync.Once
	whiteSub  *ebiten.Image
)

// white is a single white texel used as the source for flat fills.
func white() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSub = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSub
}

// fanIndices triangulates a convex polygon of n points around its first point.
func fanIndices(n int) []uint16 {
	if n < 3 {
		return nil
	}
	indices := make([]uint16, 0, (n-2)*3)
	for i := 2; i < n; i++ {
		indices = append(indices, 0, uint16(i-1), uint16(i))
	}
	return indices
}

// fillConvexPolygon fills the polygon with a flat colour by stretching the
// white texel over each fan triangle.
func fillConvexPolygon(screen *ebiten.Image, pts []raster.Point, clr color.RGBA) {
	indices := fanIndices(len(pts))
	if indices == nil {
		return
	}

	// Vertex colours are 0-1 floats; they tint the white source texel.
	cr, cg, cb, ca := rgbaf(clr)
	vertices := make([]ebiten.Vertex, len(pts))
	for i, p := range pts {
		vertices[i] = ebiten.Vertex{
			DstX:   p.X,
			DstY:   p.Y,
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}

	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(vertices, indices, white(), op)
}

// fillTexturedPolygon maps tex onto the polygon using each point's U and V,
// darkened by brightness.
func fillTexturedPolygon(screen, tex *ebiten.Image, pts []raster.Point, brightness float32) {
	indices := fanIndices(len(pts))
	if indices == nil {
		return
	}

	// U and V are 0-1, SrcX and SrcY are in texels.
	size := tex.Bounds().Size()
	w, h := float32(size.X), float32(size.Y)
	vertices := make([]ebiten.Vertex, len(pts))
	for i, p := range pts {
		vertices[i] = ebiten.Vertex{
			DstX:   p.X,
			DstY:   p.Y,
			SrcX:   p.U * w,
			SrcY:   p.V * h,
			// Grey vertex colour darkens the texture the same way Shade
			// darkens a flat colour.
			ColorR: brightness,
			ColorG: brightness,
			ColorB: brightness,
			ColorA: 1,
		}
	}

	// Repeat so UVs outside 0-1 tile, as most OBJ exporters expect.
	op := &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		Address:   ebiten.AddressRepeat,
		Filter:    ebiten.FilterLinear,
	}
	screen.DrawTriangles(vertices, indices, tex, op)
}

// drawPolygonOutline strokes the closed outline through pts.
func drawPolygonOutline(screen *ebiten.Image, pts []raster.Point, strokeWidth float32, clr color.RGBA) {
	if len(pts) < 2 {
		return
	}

	// Build a closed path through every point.
	var path vector.Path
	path.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		path.LineTo(p.X, p.Y)
	}
	path.Close()

	// The stroke comes back as triangles covering the outline. Passing nil
	// makes new slices each call.
	vertices, indices := path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: strokeWidth})

	// Colour every stroke vertex and point it at the white texel.
	cr, cg, cb, ca := rgbaf(clr)
	for i := range vertices {
		vertices[i].ColorR = cr
		vertices[i].ColorG = cg
		vertices[i].ColorB = cb
		vertices[i].ColorA = ca
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
	}

	screen.DrawTriangles(vertices, indices, white(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// rgbaf converts c to the 0-1 floats ebiten vertices take.
func rgbaf(c color.RGBA) (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}
