package sheetmetal

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// BendAllowance returns the neutral-axis arc length consumed by a bend:
// the flattened material length that the bend folds up, and the exact
// in-plane distance every flat downstream of the bend is shifted by in
// the flat pattern.
func BendAllowance(midRadius, thickness, kFactor, angleRad float64) float64 {
	return math.Abs(angleRad) * (midRadius + (kFactor-0.5)*thickness)
}

// localBendAxis constructs the hinge axis of a bend in the parent
// flat's local frame: a line parallel to the attach edge, offset
// perpendicular to the flat plane by the mid-radius. A positive fold
// angle displaces the axis to -midRadius in Z so the fold carries
// material away from the base flat instead of through it.
//
// The axis direction runs along the edge and is flipped when the flat's
// interior is not on the axis's left, keeping the rotation sense
// independent of edge winding.
func localBendAxis(e *Edge, midRadius, angleRad float64, interiorOnLeft bool) (origin, dir r3.Vec) {
	a := e.Polyline[0]
	b := e.Polyline[len(e.Polyline)-1]
	z := midRadius
	if angleRad > 0 {
		z = -midRadius
	}
	origin = r3.Vec{X: a.X, Y: a.Y, Z: z}
	u := r2.Unit(r2.Sub(b, a))
	dir = r3.Vec{X: u.X, Y: u.Y}
	if !interiorOnLeft {
		dir = r3.Scale(-1, dir)
	}
	return origin, dir
}
