// Package sheetmetal computes folded 3D and flattened 2D placements for
// trees of planar sheet regions joined by bend definitions. The folded
// and flattened derivations are cross-validated against each other with
// a numerical continuity check on every bend.
package sheetmetal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/mmiscool/BREP.io-sub008/internal/d2"
)

const (
	// epsilon below which coordinates are considered coincident.
	epsilon = 1e-12
	// lengthTol is the maximum allowed difference between parent and
	// child attach-edge lengths.
	lengthTol = 1e-4
	// continuityTol is the maximum allowed 3D mismatch between the
	// folded parent edge and the folded child attach edge.
	continuityTol = 1e-5
	// probeFloor is the minimum interior probe offset distance.
	probeFloor = 1e-5
	// edgeMatchTol is the endpoint tolerance used to match an edge
	// against a hole loop.
	edgeMatchTol = 1e-5
)

// Tree is a complete sheet-metal definition: a shared material
// thickness and the root flat of the flat/bend tree.
type Tree struct {
	Thickness float64
	Root      *Flat
}

// Flat is one planar sheet segment in its own local 2D frame.
type Flat struct {
	ID      string
	Outline []r2.Vec   // closed boundary loop, >= 3 points
	Holes   [][]r2.Vec // inner void loops
	Edges   []*Edge
}

// Edge is a named boundary polyline of a flat. An edge carrying a
// non-nil Bend is a hinge edge.
type Edge struct {
	ID       string
	Polyline []r2.Vec
	Bend     *Bend
}

// Bend folds one or more child flats away from its owning edge.
type Bend struct {
	ID        string
	AngleDeg  float64 // signed fold angle, non-zero
	MidRadius float64 // bend radius at the sheet mid-plane, > 0
	KFactor   float64 // neutral-axis location factor, finite
	Children  []BendChild
}

// BendChild names a child flat and the child edge that attaches to the
// bend's parent edge. A nil ReverseEdge means the attach orientation is
// inferred from material sides.
type BendChild struct {
	Flat         *Flat
	AttachEdgeID string
	ReverseEdge  *bool
}

// edge returns the edge with the given id, or nil.
func (f *Flat) edge(id string) *Edge {
	for _, e := range f.Edges {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// validateFlat checks the per-flat input invariants. It is called once
// per flat on first visit.
func validateFlat(f *Flat) error {
	if f == nil {
		return &ValidationError{Reason: "nil flat"}
	}
	if len(f.Outline) < 3 {
		return &ValidationError{FlatID: f.ID, Reason: "outline has fewer than 3 points"}
	}
	for i, hole := range f.Holes {
		if distinctLoopPoints(hole) < 3 {
			return &ValidationError{FlatID: f.ID, Reason: fmt.Sprintf("hole loop %d has fewer than 3 distinct points", i)}
		}
	}
	seen := make(map[string]bool, len(f.Edges))
	for _, e := range f.Edges {
		if seen[e.ID] {
			return &ValidationError{FlatID: f.ID, EdgeID: e.ID, Reason: "duplicate edge id"}
		}
		seen[e.ID] = true
		if len(e.Polyline) < 2 || d2.PolylineLength(e.Polyline) <= 0 {
			return &ValidationError{FlatID: f.ID, EdgeID: e.ID, Reason: "degenerate edge polyline"}
		}
		if e.Bend != nil {
			if err := validateBend(f, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateBend(f *Flat, e *Edge) error {
	b := e.Bend
	if b.AngleDeg == 0 || math.IsNaN(b.AngleDeg) || math.IsInf(b.AngleDeg, 0) {
		return &ValidationError{FlatID: f.ID, EdgeID: e.ID, BendID: b.ID, Reason: "bend angle must be non-zero and finite"}
	}
	if !(b.MidRadius > 0) || math.IsInf(b.MidRadius, 0) {
		return &ValidationError{FlatID: f.ID, EdgeID: e.ID, BendID: b.ID, Reason: "bend mid-radius must be positive"}
	}
	// KFactor is deliberately not clamped to [0,1]; only finiteness is
	// required.
	if math.IsNaN(b.KFactor) || math.IsInf(b.KFactor, 0) {
		return &ValidationError{FlatID: f.ID, EdgeID: e.ID, BendID: b.ID, Reason: "bend k-factor must be finite"}
	}
	if len(b.Children) == 0 {
		return &ValidationError{FlatID: f.ID, EdgeID: e.ID, BendID: b.ID, Reason: "bend has no children"}
	}
	for _, c := range b.Children {
		if c.Flat == nil {
			return &ValidationError{FlatID: f.ID, EdgeID: e.ID, BendID: b.ID, Reason: "bend child has nil flat"}
		}
	}
	return nil
}

// distinctLoopPoints counts the points of a closed loop that are not
// coincident with their predecessor.
func distinctLoopPoints(loop []r2.Vec) int {
	if len(loop) == 0 {
		return 0
	}
	n := 0
	for i, p := range loop {
		prev := loop[(i+len(loop)-1)%len(loop)]
		if !d2.EqualWithin(p, prev, epsilon) {
			n++
		}
	}
	return n
}
