package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// areaTol is the signed-area magnitude below which a loop is treated
// as degenerate for centroid purposes.
const areaTol = 1e-12

// PolylineLength returns the sum of consecutive segment lengths.
func PolylineLength(pts []r2.Vec) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += r2.Norm(r2.Sub(pts[i], pts[i-1]))
	}
	return l
}

// Reversed returns a copy of pts in reverse order.
func Reversed(pts []r2.Vec) []r2.Vec {
	out := make([]r2.Vec, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// PolygonContains reports whether p is inside the closed polygon poly
// using the even-odd ray casting rule. The polygon may be non-convex
// and need not repeat its first vertex.
func PolygonContains(poly []r2.Vec, p r2.Vec) bool {
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		a := poly[i]
		b := poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			// x coordinate of the edge crossing at height p.Y
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// PolygonCentroid returns the signed-area-weighted centroid of a loop.
// Degenerate (near zero area) loops fall back to the vertex mean.
func PolygonCentroid(pts []r2.Vec) r2.Vec {
	var area, cx, cy float64
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		cross := a.X*b.Y - b.X*a.Y
		area += cross
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
	}
	if math.Abs(area) < areaTol {
		var sum r2.Vec
		for _, p := range pts {
			sum = r2.Add(sum, p)
		}
		return r2.Scale(1/float64(n), sum)
	}
	area *= 0.5
	return r2.Vec{X: cx / (6 * area), Y: cy / (6 * area)}
}

// ResamplePolyline returns n points spaced at equal arc length along pts.
// Endpoints are preserved. n must be >= 2.
func ResamplePolyline(pts []r2.Vec, n int) []r2.Vec {
	total := PolylineLength(pts)
	out := make([]r2.Vec, n)
	out[0] = pts[0]
	out[n-1] = pts[len(pts)-1]
	if total == 0 {
		for i := range out {
			out[i] = pts[0]
		}
		return out
	}
	seg := 1
	acc := 0.0
	segLen := r2.Norm(r2.Sub(pts[1], pts[0]))
	for i := 1; i < n-1; i++ {
		target := total * float64(i) / float64(n-1)
		for acc+segLen < target && seg < len(pts)-1 {
			acc += segLen
			seg++
			segLen = r2.Norm(r2.Sub(pts[seg], pts[seg-1]))
		}
		t := 0.0
		if segLen > 0 {
			t = (target - acc) / segLen
		}
		out[i] = r2.Add(pts[seg-1], r2.Scale(t, r2.Sub(pts[seg], pts[seg-1])))
	}
	return out
}
