package sheetmetal

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const testTol = 1e-9

func boolPtr(b bool) *bool { return &b }

// square returns a CCW axis-aligned square flat of the given side with
// a named edge on each side.
func square(id string, side float64) *Flat {
	return &Flat{
		ID: id,
		Outline: []r2.Vec{
			{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side},
		},
		Edges: []*Edge{
			{ID: "bottom", Polyline: []r2.Vec{{X: 0, Y: 0}, {X: side, Y: 0}}},
			{ID: "right", Polyline: []r2.Vec{{X: side, Y: 0}, {X: side, Y: side}}},
			{ID: "top", Polyline: []r2.Vec{{X: side, Y: side}, {X: 0, Y: side}}},
			{ID: "left", Polyline: []r2.Vec{{X: 0, Y: side}, {X: 0, Y: 0}}},
		},
	}
}

// flange returns a CCW w-by-h rectangle whose bottom edge is the
// attach edge.
func flange(id string, w, h float64) *Flat {
	return &Flat{
		ID: id,
		Outline: []r2.Vec{
			{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h},
		},
		Edges: []*Edge{
			{ID: "attach", Polyline: []r2.Vec{{X: 0, Y: 0}, {X: w, Y: 0}}},
		},
	}
}

func TestUnfoldSingleFlat(t *testing.T) {
	res, err := Unfold(&Tree{Thickness: 1, Root: square("A", 10)})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Flats3D) != 1 || len(res.Flats2D) != 1 {
		t.Fatalf("got %d 3D and %d 2D placements, want 1 each", len(res.Flats3D), len(res.Flats2D))
	}
	if len(res.Bends3D) != 0 || len(res.Bends2D) != 0 {
		t.Errorf("got %d 3D and %d 2D bend records, want none", len(res.Bends3D), len(res.Bends2D))
	}
	p := r2.Vec{X: 3, Y: 7}
	if got := res.Flats2D[0].Matrix.ApplyPos(p); !vecEq2(got, p) {
		t.Errorf("2D root matrix is not identity: %v -> %v", p, got)
	}
	q := r3.Vec{X: 3, Y: 7, Z: 0}
	if got := res.Flats3D[0].Matrix.Transform(q); !vecEq3(got, q) {
		t.Errorf("3D root matrix is not identity: %v -> %v", q, got)
	}
}

func TestBendAllowance(t *testing.T) {
	for _, test := range []struct {
		name                           string
		midRadius, thickness, k, angle float64
		want                           float64
	}{
		{"neutral k cancels thickness", 0.5, 1, 0.5, math.Pi / 2, math.Pi / 4},
		{"neutral k other thickness", 0.5, 4, 0.5, math.Pi / 2, math.Pi / 4},
		{"k above neutral", 2, 1, 0.6, math.Pi / 2, (math.Pi / 2) * 2.1},
		{"negative angle uses magnitude", 0.5, 1, 0.5, -math.Pi / 2, math.Pi / 4},
	} {
		got := BendAllowance(test.midRadius, test.thickness, test.k, test.angle)
		if !scalar.EqualWithinAbs(got, test.want, testTol) {
			t.Errorf("%s: got %g, want %g", test.name, got, test.want)
		}
	}
}

// TestUnfoldTwoFlats is the 10x10 base plus 10x4 flange scenario: one
// 90 degree bend with midRadius 0.5 and kFactor 0.5 at thickness 1.
func TestUnfoldTwoFlats(t *testing.T) {
	base := square("A", 10)
	fl := flange("B", 10, 4)
	base.edge("right").Bend = &Bend{
		ID: "b1", AngleDeg: 90, MidRadius: 0.5, KFactor: 0.5,
		Children: []BendChild{{Flat: fl, AttachEdgeID: "attach"}},
	}
	res, err := Unfold(&Tree{Thickness: 1, Root: base})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Flats2D) != 2 || len(res.Flats3D) != 2 {
		t.Fatalf("got %d 2D and %d 3D placements, want 2 each", len(res.Flats2D), len(res.Flats3D))
	}
	if len(res.Bends2D) != 1 || len(res.Bends3D) != 1 {
		t.Fatalf("got %d 2D and %d 3D bend records, want 1 each", len(res.Bends2D), len(res.Bends3D))
	}

	allowance := math.Pi / 4
	b2 := res.Bends2D[0]
	if !scalar.EqualWithinAbs(b2.Allowance, allowance, testTol) {
		t.Errorf("allowance = %g, want %g", b2.Allowance, allowance)
	}
	if !vecEq2(b2.ShiftDir, r2.Vec{X: 1}) {
		t.Errorf("shift direction = %v, want +X", b2.ShiftDir)
	}

	// The flange's 2D placement shifts its attach edge outward from the
	// base edge by exactly the allowance.
	m2 := res.Flats2D[1].Matrix
	attach := fl.edge("attach").Polyline
	gotA := m2.ApplyPos(attach[0])
	gotB := m2.ApplyPos(attach[len(attach)-1])
	wantA := r2.Vec{X: 10 + allowance, Y: 0}
	wantB := r2.Vec{X: 10 + allowance, Y: 10}
	if !(vecEq2(gotA, wantA) && vecEq2(gotB, wantB)) &&
		!(vecEq2(gotA, wantB) && vecEq2(gotB, wantA)) {
		t.Errorf("flange attach edge placed at %v %v, want %v %v in either order",
			gotA, gotB, wantA, wantB)
	}

	// In 3D the flange plane is rotated 90 degrees: its normal becomes
	// perpendicular to the base normal.
	b3 := res.Bends3D[0]
	if !vecEq3(b3.ParentNormal, r3.Vec{Z: 1}) {
		t.Errorf("parent normal = %v, want +Z", b3.ParentNormal)
	}
	if dot := r3.Dot(b3.ParentNormal, b3.ChildNormal); !scalar.EqualWithinAbs(dot, 0, testTol) {
		t.Errorf("child plane not perpendicular to parent: normal dot = %g", dot)
	}
	// Hinge axis: parallel to the base edge, offset to Z = -midRadius.
	if !vecEq3(b3.AxisStart, r3.Vec{X: 10, Y: 0, Z: -0.5}) || !vecEq3(b3.AxisEnd, r3.Vec{X: 10, Y: 10, Z: -0.5}) {
		t.Errorf("hinge axis = %v -> %v, want (10,0,-0.5) -> (10,10,-0.5)", b3.AxisStart, b3.AxisEnd)
	}
}

// TestShiftEqualsAllowance checks that the 2D displacement applied to a
// child flat relative to its aligned position equals the allowance.
func TestShiftEqualsAllowance(t *testing.T) {
	base := square("A", 10)
	fl := flange("B", 10, 4)
	bend := &Bend{
		ID: "b1", AngleDeg: 135, MidRadius: 1.25, KFactor: 0.42,
		Children: []BendChild{{Flat: fl, AttachEdgeID: "attach"}},
	}
	base.edge("right").Bend = bend
	res, err := Unfold(&Tree{Thickness: 2, Root: base})
	if err != nil {
		t.Fatal(err)
	}
	angleRad := 135 * math.Pi / 180
	want := BendAllowance(1.25, 2, 0.42, angleRad)

	// Shift = child placement minus pure alignment along the outward
	// direction.
	m2 := res.Flats2D[1].Matrix
	attach := fl.edge("attach").Polyline
	placed := m2.ApplyPos(attach[0])
	parentEnds := []r2.Vec{{X: 10, Y: 0}, {X: 10, Y: 10}}
	d0 := r2.Norm(r2.Sub(placed, parentEnds[0]))
	d1 := r2.Norm(r2.Sub(placed, parentEnds[1]))
	got := math.Min(d0, d1)
	if !scalar.EqualWithinAbs(got, want, testTol) {
		t.Errorf("2D shift distance = %g, want allowance %g", got, want)
	}
}

func TestUnfoldCycle(t *testing.T) {
	base := square("A", 10)
	fl := square("B", 10)
	base.edge("right").Bend = &Bend{
		ID: "b1", AngleDeg: 90, MidRadius: 0.5, KFactor: 0.5,
		Children: []BendChild{{Flat: fl, AttachEdgeID: "bottom"}},
	}
	fl.edge("top").Bend = &Bend{
		ID: "b2", AngleDeg: 90, MidRadius: 0.5, KFactor: 0.5,
		Children: []BendChild{{Flat: base, AttachEdgeID: "left"}},
	}
	_, err := Unfold(&Tree{Thickness: 1, Root: base})
	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %v, want CycleError", err)
	}
	want := []string{"A", "B", "A"}
	if len(cerr.Path) != len(want) {
		t.Fatalf("cycle path %v, want %v", cerr.Path, want)
	}
	for i := range want {
		if cerr.Path[i] != want[i] {
			t.Fatalf("cycle path %v, want %v", cerr.Path, want)
		}
	}
}

func TestUnfoldLengthMismatch(t *testing.T) {
	base := square("A", 10)
	fl := flange("B", 9.9, 4)
	base.edge("right").Bend = &Bend{
		ID: "b1", AngleDeg: 90, MidRadius: 0.5, KFactor: 0.5,
		Children: []BendChild{{Flat: fl, AttachEdgeID: "attach"}},
	}
	_, err := Unfold(&Tree{Thickness: 1, Root: base})
	var lerr *EdgeLengthError
	if !errors.As(err, &lerr) {
		t.Fatalf("got %v, want EdgeLengthError", err)
	}
	if !scalar.EqualWithinAbs(lerr.ParentLen, 10, testTol) || !scalar.EqualWithinAbs(lerr.ChildLen, 9.9, testTol) {
		t.Errorf("reported lengths %g and %g, want 10 and 9.9", lerr.ParentLen, lerr.ChildLen)
	}
}

func TestUnfoldMissingAttachEdge(t *testing.T) {
	base := square("A", 10)
	fl := flange("B", 10, 4)
	base.edge("right").Bend = &Bend{
		ID: "b1", AngleDeg: 90, MidRadius: 0.5, KFactor: 0.5,
		Children: []BendChild{{Flat: fl, AttachEdgeID: "no-such-edge"}},
	}
	_, err := Unfold(&Tree{Thickness: 1, Root: base})
	var uerr *UnknownEdgeError
	if !errors.As(err, &uerr) {
		t.Fatalf("got %v, want UnknownEdgeError", err)
	}
	if uerr.EdgeID != "no-such-edge" || uerr.FlatID != "B" {
		t.Errorf("error names edge %q on flat %q, want no-such-edge on B", uerr.EdgeID, uerr.FlatID)
	}
}

func TestUnfoldContinuityMismatch(t *testing.T) {
	// The child attach edge has the same total length as the parent edge
	// but carries a kink, so the folded curves cannot coincide.
	const h = 0.05
	half := math.Sqrt(25 - h*h)
	base := square("A", 10)
	fl := &Flat{
		ID: "B",
		Outline: []r2.Vec{
			{X: 0, Y: 0}, {X: half, Y: h}, {X: 2 * half, Y: 0}, {X: 2 * half, Y: 4}, {X: 0, Y: 4},
		},
		Edges: []*Edge{
			{ID: "attach", Polyline: []r2.Vec{{X: 0, Y: 0}, {X: half, Y: h}, {X: 2 * half, Y: 0}}},
		},
	}
	base.edge("right").Bend = &Bend{
		ID: "b1", AngleDeg: 90, MidRadius: 0.5, KFactor: 0.5,
		Children: []BendChild{{Flat: fl, AttachEdgeID: "attach", ReverseEdge: boolPtr(false)}},
	}
	_, err := Unfold(&Tree{Thickness: 1, Root: base})
	var cerr *ContinuityError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %v, want ContinuityError", err)
	}
	if cerr.BendID != "b1" || cerr.Mismatch <= continuityTol {
		t.Errorf("continuity error names bend %q with mismatch %g", cerr.BendID, cerr.Mismatch)
	}
}

func TestUnfoldRejectsBadInput(t *testing.T) {
	for _, test := range []struct {
		name string
		tree func() *Tree
	}{
		{"zero thickness", func() *Tree {
			return &Tree{Thickness: 0, Root: square("A", 10)}
		}},
		{"nil root", func() *Tree {
			return &Tree{Thickness: 1}
		}},
		{"two point outline", func() *Tree {
			return &Tree{Thickness: 1, Root: &Flat{ID: "A", Outline: []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}}}
		}},
		{"duplicate edge id", func() *Tree {
			f := square("A", 10)
			f.Edges = append(f.Edges, &Edge{ID: "right", Polyline: []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}})
			return &Tree{Thickness: 1, Root: f}
		}},
		{"degenerate edge", func() *Tree {
			f := square("A", 10)
			f.Edges[0].Polyline = []r2.Vec{{X: 1, Y: 1}, {X: 1, Y: 1}}
			return &Tree{Thickness: 1, Root: f}
		}},
		{"zero bend angle", func() *Tree {
			f := square("A", 10)
			f.edge("right").Bend = &Bend{
				ID: "b", AngleDeg: 0, MidRadius: 0.5, KFactor: 0.5,
				Children: []BendChild{{Flat: flange("B", 10, 4), AttachEdgeID: "attach"}},
			}
			return &Tree{Thickness: 1, Root: f}
		}},
		{"zero mid radius", func() *Tree {
			f := square("A", 10)
			f.edge("right").Bend = &Bend{
				ID: "b", AngleDeg: 90, MidRadius: 0, KFactor: 0.5,
				Children: []BendChild{{Flat: flange("B", 10, 4), AttachEdgeID: "attach"}},
			}
			return &Tree{Thickness: 1, Root: f}
		}},
		{"non-finite k factor", func() *Tree {
			f := square("A", 10)
			f.edge("right").Bend = &Bend{
				ID: "b", AngleDeg: 90, MidRadius: 0.5, KFactor: math.NaN(),
				Children: []BendChild{{Flat: flange("B", 10, 4), AttachEdgeID: "attach"}},
			}
			return &Tree{Thickness: 1, Root: f}
		}},
		{"bend without children", func() *Tree {
			f := square("A", 10)
			f.edge("right").Bend = &Bend{ID: "b", AngleDeg: 90, MidRadius: 0.5, KFactor: 0.5}
			return &Tree{Thickness: 1, Root: f}
		}},
		{"bad hole loop", func() *Tree {
			f := square("A", 10)
			f.Holes = [][]r2.Vec{{{X: 1, Y: 1}, {X: 2, Y: 2}}}
			return &Tree{Thickness: 1, Root: f}
		}},
	} {
		_, err := Unfold(test.tree())
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: got %v, want ValidationError", test.name, err)
		}
	}
}

// TestUnfoldPermissiveKFactor pins the deliberate absence of a [0,1]
// clamp on the k-factor.
func TestUnfoldPermissiveKFactor(t *testing.T) {
	base := square("A", 10)
	fl := flange("B", 10, 4)
	base.edge("right").Bend = &Bend{
		ID: "b1", AngleDeg: 90, MidRadius: 3, KFactor: 1.4,
		Children: []BendChild{{Flat: fl, AttachEdgeID: "attach"}},
	}
	res, err := Unfold(&Tree{Thickness: 1, Root: base})
	if err != nil {
		t.Fatalf("k factor above 1 must be accepted, got %v", err)
	}
	want := (math.Pi / 2) * (3 + 0.9)
	if !scalar.EqualWithinAbs(res.Bends2D[0].Allowance, want, testTol) {
		t.Errorf("allowance = %g, want %g", res.Bends2D[0].Allowance, want)
	}
}

// TestUnfoldThreeDeep chains two bends and checks that both transform
// chains compose without continuity failures and placements stay
// pre-order.
func TestUnfoldThreeDeep(t *testing.T) {
	a := square("A", 10)
	b := square("B", 10)
	c := flange("C", 10, 2)
	a.edge("right").Bend = &Bend{
		ID: "ab", AngleDeg: 90, MidRadius: 0.5, KFactor: 0.5,
		Children: []BendChild{{Flat: b, AttachEdgeID: "bottom"}},
	}
	b.edge("top").Bend = &Bend{
		ID: "bc", AngleDeg: -45, MidRadius: 1, KFactor: 0.3,
		Children: []BendChild{{Flat: c, AttachEdgeID: "attach"}},
	}
	res, err := Unfold(&Tree{Thickness: 1, Root: a})
	if err != nil {
		t.Fatal(err)
	}
	ids := []string{"A", "B", "C"}
	for i, want := range ids {
		if res.Flats3D[i].Flat.ID != want || res.Flats2D[i].Flat.ID != want {
			t.Fatalf("placement %d is %s/%s, want %s", i, res.Flats3D[i].Flat.ID, res.Flats2D[i].Flat.ID, want)
		}
	}
	if len(res.Bends3D) != 2 {
		t.Fatalf("got %d bend records, want 2", len(res.Bends3D))
	}
}

func vecEq2(a, b r2.Vec) bool {
	return scalar.EqualWithinAbs(a.X, b.X, testTol) && scalar.EqualWithinAbs(a.Y, b.Y, testTol)
}

func vecEq3(a, b r3.Vec) bool {
	return scalar.EqualWithinAbs(a.X, b.X, testTol) && scalar.EqualWithinAbs(a.Y, b.Y, testTol) &&
		scalar.EqualWithinAbs(a.Z, b.Z, testTol)
}
