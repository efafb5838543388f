package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// PolylineLength returns the sum of consecutive segment lengths.
func PolylineLength(pts []r3.Vec) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += r3.Norm(r3.Sub(pts[i], pts[i-1]))
	}
	return l
}

// Reversed returns a copy of pts in reverse order.
func Reversed(pts []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// ResamplePolyline returns n points spaced at equal arc length along pts.
// Endpoints are preserved. n must be >= 2.
func ResamplePolyline(pts []r3.Vec, n int) []r3.Vec {
	total := PolylineLength(pts)
	out := make([]r3.Vec, n)
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
	segLen := r3.Norm(r3.Sub(pts[1], pts[0]))
	for i := 1; i < n-1; i++ {
		target := total * float64(i) / float64(n-1)
		for acc+segLen < target && seg < len(pts)-1 {
			acc += segLen
			seg++
			segLen = r3.Norm(r3.Sub(pts[seg], pts[seg-1]))
		}
		t := 0.0
		if segLen > 0 {
			t = (target - acc) / segLen
		}
		out[i] = r3.Add(pts[seg-1], r3.Scale(t, r3.Sub(pts[seg], pts[seg-1])))
	}
	return out
}

// MaxPointDistance returns the maximum pairwise distance between
// equal-length point sets a and b.
func MaxPointDistance(a, b []r3.Vec) float64 {
	var max float64
	for i := range a {
		max = math.Max(max, r3.Norm(r3.Sub(a[i], b[i])))
	}
	return max
}
