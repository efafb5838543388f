package sheetmetal

import (
	"fmt"
	"strings"
)

// ValidationError reports an input invariant violation found while
// validating a tree, flat, edge or bend.
type ValidationError struct {
	FlatID string
	EdgeID string
	BendID string
	Reason string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("sheetmetal: invalid input")
	if e.FlatID != "" {
		fmt.Fprintf(&b, " flat %q", e.FlatID)
	}
	if e.EdgeID != "" {
		fmt.Fprintf(&b, " edge %q", e.EdgeID)
	}
	if e.BendID != "" {
		fmt.Fprintf(&b, " bend %q", e.BendID)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// CycleError reports a flat re-entered while still on the active
// traversal path. Path holds the flat ids from the root to the
// re-entered flat.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "sheetmetal: cycle in flat/bend tree: " + strings.Join(e.Path, " -> ")
}

// UnknownEdgeError reports a bend child referencing an attach edge id
// that does not exist on the child flat.
type UnknownEdgeError struct {
	BendID string
	FlatID string
	EdgeID string
}

func (e *UnknownEdgeError) Error() string {
	return fmt.Sprintf("sheetmetal: bend %q references edge %q absent from flat %q",
		e.BendID, e.EdgeID, e.FlatID)
}

// EdgeLengthError reports parent and child attach edges whose lengths
// disagree beyond tolerance.
type EdgeLengthError struct {
	BendID       string
	ParentEdgeID string
	ChildEdgeID  string
	ParentLen    float64
	ChildLen     float64
}

func (e *EdgeLengthError) Error() string {
	return fmt.Sprintf("sheetmetal: bend %q attach edge length mismatch: parent edge %q is %g, child edge %q is %g (difference %g)",
		e.BendID, e.ParentEdgeID, e.ParentLen, e.ChildEdgeID, e.ChildLen, e.ParentLen-e.ChildLen)
}

// ContinuityError reports a bend whose independently derived folded
// parent and child edges disagree beyond tolerance.
type ContinuityError struct {
	BendID       string
	ParentFlatID string
	ChildFlatID  string
	Mismatch     float64
}

func (e *ContinuityError) Error() string {
	return fmt.Sprintf("sheetmetal: bend %q between flats %q and %q fails 3D continuity check: mismatch %g exceeds %g",
		e.BendID, e.ParentFlatID, e.ChildFlatID, e.Mismatch, continuityTol)
}
