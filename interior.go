package sheetmetal

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/mmiscool/BREP.io-sub008/internal/d2"
)

// interiorSideOfBoundaryLoop reports which side of the directed edge
// a->b is interior to the closed loop: +1 for the edge's left-hand
// normal side, -1 for the opposite side.
//
// Two probe points are offset from the edge midpoint along the left
// normal and its negation; if exactly one lands inside the loop that
// side wins. When both probes agree (self-intersections, probes landing
// outside a thin feature) the loop centroid side is used instead.
func interiorSideOfBoundaryLoop(loop []r2.Vec, a, b r2.Vec) int {
	n := r2.Unit(d2.LeftNormal(r2.Sub(b, a)))
	mid := r2.Scale(0.5, r2.Add(a, b))
	probe := math.Max(probeFloor, 1e-3*d2.BoundsOf(loop).Diagonal())

	leftIn := d2.PolygonContains(loop, r2.Add(mid, r2.Scale(probe, n)))
	rightIn := d2.PolygonContains(loop, r2.Add(mid, r2.Scale(-probe, n)))
	if leftIn != rightIn {
		if leftIn {
			return 1
		}
		return -1
	}
	if r2.Dot(n, r2.Sub(d2.PolygonCentroid(loop), mid)) >= 0 {
		return 1
	}
	return -1
}

// interiorSideOfEdge reports which side of the directed edge a->b holds
// the flat's material. An edge lying on a hole loop has its material on
// the side opposite the hole's own interior (hole interior is void).
func interiorSideOfEdge(f *Flat, a, b r2.Vec) int {
	for _, hole := range f.Holes {
		if edgeOnLoop(hole, a, b) {
			return -interiorSideOfBoundaryLoop(hole, a, b)
		}
	}
	return interiorSideOfBoundaryLoop(f.Outline, a, b)
}

// edgeOnLoop reports whether both edge endpoints lie within tolerance
// of vertices of the loop. Endpoint order does not matter, so both edge
// orientations match the same loop.
func edgeOnLoop(loop []r2.Vec, a, b r2.Vec) bool {
	return nearLoopVertex(loop, a) && nearLoopVertex(loop, b)
}

func nearLoopVertex(loop []r2.Vec, p r2.Vec) bool {
	for _, v := range loop {
		if r2.Norm(r2.Sub(p, v)) <= edgeMatchTol {
			return true
		}
	}
	return false
}

// outwardDirection returns the unit in-plane direction pointing away
// from the flat's material across the edge.
func outwardDirection(f *Flat, e *Edge) r2.Vec {
	a := e.Polyline[0]
	b := e.Polyline[len(e.Polyline)-1]
	n := r2.Unit(d2.LeftNormal(r2.Sub(b, a)))
	side := interiorSideOfEdge(f, a, b)
	return r2.Scale(-float64(side), n)
}

// hasInteriorOnLeft reports whether the flat's material lies on the
// left-hand side of the edge's start->end direction.
func hasInteriorOnLeft(f *Flat, e *Edge) bool {
	a := e.Polyline[0]
	b := e.Polyline[len(e.Polyline)-1]
	return interiorSideOfEdge(f, a, b) > 0
}
