// Package render writes flat-pattern output produced by the sheetmetal
// evaluator: SVG and DXF drawings of the flattened blank with bend
// lines, and an sdfx profile of the blank for downstream solid
// modeling. It consumes only the evaluator's output records.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo/float"
	"gonum.org/v1/gonum/spatial/r2"

	sheetmetal "github.com/mmiscool/BREP.io-sub008"
	"github.com/mmiscool/BREP.io-sub008/internal/d2"
)

// Options controls flat-pattern drawing.
type Options struct {
	// Margin is blank space left around the pattern, in drawing units.
	Margin float64
}

const (
	outlineStyle = "fill:none;stroke:black;stroke-width:0.2"
	holeStyle    = "fill:none;stroke:black;stroke-width:0.2"
	bendStyle    = "fill:none;stroke:blue;stroke-width:0.1;stroke-dasharray:1,1"
)

// flatPattern is the world-space 2D geometry of an evaluation result.
type flatPattern struct {
	outlines  [][]r2.Vec
	holes     [][]r2.Vec
	bendLines [][]r2.Vec
	bounds    d2.Box
}

func patternOf(res *sheetmetal.Result, margin float64) (*flatPattern, error) {
	if res == nil || len(res.Flats2D) == 0 {
		return nil, fmt.Errorf("render: empty result")
	}
	p := &flatPattern{}
	first := true
	for _, fp := range res.Flats2D {
		outline := fp.Matrix.Apply(fp.Flat.Outline)
		p.outlines = append(p.outlines, outline)
		bb := d2.BoundsOf(outline)
		if first {
			p.bounds = bb
			first = false
		} else {
			p.bounds = p.bounds.Extend(bb)
		}
		for _, hole := range fp.Flat.Holes {
			p.holes = append(p.holes, fp.Matrix.Apply(hole))
		}
	}
	for _, b := range res.Bends2D {
		p.bendLines = append(p.bendLines, b.EdgeWorld)
	}
	p.bounds = d2.Box{
		Min: r2.Sub(p.bounds.Min, d2.Elem(margin)),
		Max: r2.Add(p.bounds.Max, d2.Elem(margin)),
	}
	return p, nil
}

// WriteSVG writes the flattened blank as an SVG drawing: flat outlines
// and holes in solid strokes, bend lines dashed. The drawing's Y axis
// is flipped so the pattern appears with +Y up.
func WriteSVG(w io.Writer, res *sheetmetal.Result, opts Options) error {
	p, err := patternOf(res, opts.Margin)
	if err != nil {
		return err
	}
	size := p.bounds.Size()
	canvas := svg.New(w)
	canvas.Startview(size.X, size.Y, p.bounds.Min.X, -p.bounds.Max.Y, size.X, size.Y)
	for _, loop := range p.outlines {
		xs, ys := splitXY(closeLoop(loop))
		canvas.Polyline(xs, ys, outlineStyle)
	}
	for _, loop := range p.holes {
		xs, ys := splitXY(closeLoop(loop))
		canvas.Polyline(xs, ys, holeStyle)
	}
	for _, line := range p.bendLines {
		xs, ys := splitXY(line)
		canvas.Polyline(xs, ys, bendStyle)
	}
	canvas.End()
	return nil
}

func closeLoop(loop []r2.Vec) []r2.Vec {
	if len(loop) > 0 && !d2.EqualWithin(loop[0], loop[len(loop)-1], 1e-9) {
		return append(append([]r2.Vec{}, loop...), loop[0])
	}
	return loop
}

func splitXY(pts []r2.Vec) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = -p.Y
	}
	return xs, ys
}
