package sheetmetal

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/mmiscool/BREP.io-sub008/internal/d2"
)

// makeEdgeAlignment returns the rigid 2D transform mapping the child
// attach edge onto the parent attach edge: the child's start->end
// vector is rotated onto the parent's and the start points coincide.
// With reverse set the child edge is taken end->start.
func makeEdgeAlignment(parentEdge, childEdge []r2.Vec, reverse bool) (d2.Transform, error) {
	p0 := parentEdge[0]
	p1 := parentEdge[len(parentEdge)-1]
	c0 := childEdge[0]
	c1 := childEdge[len(childEdge)-1]
	if reverse {
		c0, c1 = c1, c0
	}
	vp := r2.Sub(p1, p0)
	vc := r2.Sub(c1, c0)
	if r2.Norm(vp) <= epsilon || r2.Norm(vc) <= epsilon {
		return d2.Transform{}, &ValidationError{Reason: "degenerate attach edge: endpoints coincide"}
	}
	theta := math.Atan2(vp.Y, vp.X) - math.Atan2(vc.Y, vc.X)
	t := d2.Translate(p0).Mul(d2.Rotate(theta)).Mul(d2.Translate(r2.Scale(-1, c0)))
	return t, nil
}

// inferReverseEdge chooses the attach orientation that keeps parent and
// child material on opposite sides of the shared edge. Both candidate
// alignments are applied to the child's full outline and scored by the
// product of parent and child interior sides at the shared edge; the
// most negative score wins (the two sheets fold away from each other).
//
// When the scores tie, the orientation placing the child centroid
// further along the parent's outward side of the edge is chosen. The
// tie-break is an explicit policy: it is a total ordering on the two
// candidates, so repeated calls with the same inputs always agree.
func inferReverseEdge(parentFlat *Flat, parentEdge *Edge, childFlat *Flat, childEdge *Edge) (bool, error) {
	pa := parentEdge.Polyline[0]
	pb := parentEdge.Polyline[len(parentEdge.Polyline)-1]
	pSide := interiorSideOfEdge(parentFlat, pa, pb)

	var score [2]int
	var centroidDot [2]float64
	n := r2.Unit(d2.LeftNormal(r2.Sub(pb, pa)))
	mid := r2.Scale(0.5, r2.Add(pa, pb))
	for i, reverse := range []bool{false, true} {
		align, err := makeEdgeAlignment(parentEdge.Polyline, childEdge.Polyline, reverse)
		if err != nil {
			return false, err
		}
		outline := align.Apply(childFlat.Outline)
		cSide := interiorSideOfBoundaryLoop(outline, pa, pb)
		score[i] = pSide * cSide
		centroidDot[i] = r2.Dot(n, r2.Sub(d2.PolygonCentroid(outline), mid))
	}
	if score[0] != score[1] {
		return score[1] < score[0], nil
	}
	// Tie: prefer the candidate whose centroid sits further away from
	// the parent's material side.
	away := -float64(pSide)
	return away*centroidDot[1] > away*centroidDot[0], nil
}
