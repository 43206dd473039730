package raster

import "github.com/go-gl/mathgl/mgl32"

// camPoint is a vertex in camera space: x right, y down, z away from the
// viewer.
type camPoint struct {
	pos mgl32.Vec3
	uv  mgl32.Vec2
}

// clipNear cuts poly against the plane z = near and keeps the part in front
// of it. Points on the plane count as in front.
func clipNear(poly []camPoint, near float32) []camPoint {
	out := make([]camPoint, 0, len(poly)+1)
	if len(poly) == 0 {
		return out
	}

	prev := poly[len(poly)-1]
	for _, cur := range poly {
		curIn := cur.pos.Z() >= near
		prevIn := prev.pos.Z() >= near
		if curIn {
			if !prevIn {
				out = append(out, intersectNear(prev, cur, near))
			}
			out = append(out, cur)
		} else if prevIn {
			out = append(out, intersectNear(prev, cur, near))
		}
		prev = cur
	}
	return out
}

// intersectNear returns where the segment a-b crosses z = near, with the
// texture coordinate interpolated to match. A segment parallel to the plane
// returns a.
func intersectNear(a, b camPoint, near float32) camPoint {
	dz := b.pos.Z() - a.pos.Z()
	if dz == 0 {
		return a
	}
	t := (near - a.pos.Z()) / dz
	return camPoint{
		pos: a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		uv:  a.uv.Add(b.uv.Sub(a.uv).Mul(t)),
	}
}
