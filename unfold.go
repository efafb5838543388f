package sheetmetal

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mmiscool/BREP.io-sub008/internal/d2"
	"github.com/mmiscool/BREP.io-sub008/internal/d3"
)

// FlatPlacement3D places a flat in the shared folded frame.
type FlatPlacement3D struct {
	Flat   *Flat
	Matrix d3.Transform
}

// FlatPlacement2D places a flat in the shared flattened frame.
type FlatPlacement2D struct {
	Flat   *Flat
	Matrix d2.Transform
}

// BendRecord3D describes the folded geometry of one bend, for
// rendering physical bend surfaces and validating results.
type BendRecord3D struct {
	Bend            *Bend
	ParentFlatID    string
	ChildFlatID     string
	AxisStart       r3.Vec
	AxisEnd         r3.Vec
	ParentEdgeWorld []r3.Vec
	ChildEdgeWorld  []r3.Vec
	ParentNormal    r3.Vec
	ChildNormal     r3.Vec
	AngleRad        float64
	MidRadius       float64
}

// BendRecord2D describes one bend in the flat pattern, for exporters
// drawing bend lines and annotating allowances.
type BendRecord2D struct {
	Bend         *Bend
	ParentFlatID string
	ChildFlatID  string
	EdgeWorld    []r2.Vec
	ShiftDir     r2.Vec
	Allowance    float64
}

// Result is the output of one evaluation: parallel pre-order placement
// lists plus per-bend records. All records are immutable once returned.
type Result struct {
	Flats3D []FlatPlacement3D
	Flats2D []FlatPlacement2D
	Bends3D []BendRecord3D
	Bends2D []BendRecord2D
}

// Unfold evaluates a flat/bend tree, producing the folded 3D placement
// and flattened 2D placement of every flat together with per-bend
// geometry records. Evaluation is a single depth-first pass; any
// validation, structural, referential or geometric-consistency error
// aborts the whole evaluation with no partial result.
func Unfold(tree *Tree) (*Result, error) {
	if tree == nil || tree.Root == nil {
		return nil, &ValidationError{Reason: "nil tree or root flat"}
	}
	if !(tree.Thickness > 0) || math.IsInf(tree.Thickness, 0) {
		return nil, &ValidationError{Reason: "thickness must be positive and finite"}
	}
	w := &walker{
		thickness: tree.Thickness,
		res:       &Result{},
		validated: make(map[*Flat]bool),
		active:    make(map[*Flat]bool),
	}
	if err := w.walk(tree.Root, d3.Identity(), d2.Identity()); err != nil {
		return nil, err
	}
	return w.res, nil
}

// walker carries the evaluation state: output accumulators, the
// validated set, and the active recursion path for cycle detection.
type walker struct {
	thickness float64
	res       *Result
	validated map[*Flat]bool
	active    map[*Flat]bool
	path      []string
}

func (w *walker) walk(f *Flat, m3 d3.Transform, m2 d2.Transform) error {
	if !w.validated[f] {
		if err := validateFlat(f); err != nil {
			return err
		}
		w.validated[f] = true
	}
	if w.active[f] {
		return &CycleError{Path: append(append([]string{}, w.path...), f.ID)}
	}
	w.active[f] = true
	w.path = append(w.path, f.ID)
	defer func() {
		delete(w.active, f)
		w.path = w.path[:len(w.path)-1]
	}()

	w.res.Flats3D = append(w.res.Flats3D, FlatPlacement3D{Flat: f, Matrix: m3})
	w.res.Flats2D = append(w.res.Flats2D, FlatPlacement2D{Flat: f, Matrix: m2})

	for _, e := range f.Edges {
		if e.Bend == nil {
			continue
		}
		if err := w.fold(f, e, m3, m2); err != nil {
			return err
		}
	}
	return nil
}

// fold processes one hinge edge: builds the bend's 2D allowance shift
// and 3D hinge rotation, then places and recurses into every child.
func (w *walker) fold(f *Flat, e *Edge, m3 d3.Transform, m2 d2.Transform) error {
	b := e.Bend
	angleRad := b.AngleDeg * math.Pi / 180
	allowance := BendAllowance(b.MidRadius, w.thickness, b.KFactor, angleRad)

	shiftDir := outwardDirection(f, e)
	shift := d2.Translate(r2.Scale(allowance, shiftDir))

	axisOrigin, axisDir := localBendAxis(e, b.MidRadius, angleRad, hasInteriorOnLeft(f, e))
	bendRot := d3.RotateAbout(axisOrigin, axisDir, angleRad)

	parentEdge3D := m3.Apply(lift(e.Polyline))
	parentEdge2D := m2.Apply(e.Polyline)
	last := e.Polyline[len(e.Polyline)-1]
	axisStart := m3.Transform(axisOrigin)
	axisEnd := m3.Transform(r3.Vec{X: last.X, Y: last.Y, Z: axisOrigin.Z})
	parentNormal := m3.TransformDir(r3.Vec{Z: 1})

	folded := m3.Mul(bendRot)
	for _, child := range b.Children {
		// Orientation inference probes the child's outline, so the
		// child must hold its invariants before any geometry runs.
		if !w.validated[child.Flat] {
			if err := validateFlat(child.Flat); err != nil {
				return err
			}
			w.validated[child.Flat] = true
		}
		childEdge := child.Flat.edge(child.AttachEdgeID)
		if childEdge == nil {
			return &UnknownEdgeError{BendID: b.ID, FlatID: child.Flat.ID, EdgeID: child.AttachEdgeID}
		}
		parentLen := d2.PolylineLength(e.Polyline)
		childLen := d2.PolylineLength(childEdge.Polyline)
		if math.Abs(parentLen-childLen) > lengthTol {
			return &EdgeLengthError{
				BendID:       b.ID,
				ParentEdgeID: e.ID,
				ChildEdgeID:  childEdge.ID,
				ParentLen:    parentLen,
				ChildLen:     childLen,
			}
		}

		reverse := false
		if child.ReverseEdge != nil {
			reverse = *child.ReverseEdge
		} else {
			var err error
			reverse, err = inferReverseEdge(f, e, child.Flat, childEdge)
			if err != nil {
				return err
			}
		}
		align, err := makeEdgeAlignment(e.Polyline, childEdge.Polyline, reverse)
		if err != nil {
			return err
		}

		childM3 := folded.Mul(d3.FromPlanar(align))
		childM2 := m2.Mul(shift).Mul(align)

		childEdgeWorld := childM3.Apply(lift(childEdge.Polyline))
		mismatch := edgeMismatch(folded.Apply(lift(e.Polyline)), childEdgeWorld)
		if mismatch > continuityTol {
			return &ContinuityError{
				BendID:       b.ID,
				ParentFlatID: f.ID,
				ChildFlatID:  child.Flat.ID,
				Mismatch:     mismatch,
			}
		}

		w.res.Bends3D = append(w.res.Bends3D, BendRecord3D{
			Bend:            b,
			ParentFlatID:    f.ID,
			ChildFlatID:     child.Flat.ID,
			AxisStart:       axisStart,
			AxisEnd:         axisEnd,
			ParentEdgeWorld: parentEdge3D,
			ChildEdgeWorld:  childEdgeWorld,
			ParentNormal:    parentNormal,
			ChildNormal:     childM3.TransformDir(r3.Vec{Z: 1}),
			AngleRad:        angleRad,
			MidRadius:       b.MidRadius,
		})
		w.res.Bends2D = append(w.res.Bends2D, BendRecord2D{
			Bend:         b,
			ParentFlatID: f.ID,
			ChildFlatID:  child.Flat.ID,
			EdgeWorld:    parentEdge2D,
			ShiftDir:     shiftDir,
			Allowance:    allowance,
		})

		if err := w.walk(child.Flat, childM3, childM2); err != nil {
			return err
		}
	}
	return nil
}

// edgeMismatch cross-validates the folded parent edge against the
// child attach edge placed by the child's own composed matrix. Both
// curves are resampled to a common count and compared pointwise; the
// child curve is tried in both orders since the stored polyline order
// need not match the alignment direction.
func edgeMismatch(expected, got []r3.Vec) float64 {
	n := len(expected)
	if len(got) > n {
		n = len(got)
	}
	if n < minContinuitySamples {
		n = minContinuitySamples
	}
	e := d3.ResamplePolyline(expected, n)
	g := d3.ResamplePolyline(got, n)
	forward := d3.MaxPointDistance(e, g)
	backward := d3.MaxPointDistance(e, d3.Reversed(g))
	return math.Min(forward, backward)
}

// minContinuitySamples is the minimum resample count used by the
// continuity check.
const minContinuitySamples = 8

// lift embeds local 2D points into the flat's Z=0 plane.
func lift(pts []r2.Vec) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	for i, p := range pts {
		out[i] = r3.Vec{X: p.X, Y: p.Y}
	}
	return out
}
