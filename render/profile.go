package render

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"gonum.org/v1/gonum/spatial/r2"

	sheetmetal "github.com/mmiscool/BREP.io-sub008"
)

// ProfileSDF2 builds a signed distance profile of the flattened blank:
// the union of all flat outlines in the flat-pattern frame with hole
// loops subtracted. The profile can be fed to an sdfx modeling pipeline
// to cut the blank from stock.
func ProfileSDF2(res *sheetmetal.Result) (sdf.SDF2, error) {
	if res == nil || len(res.Flats2D) == 0 {
		return nil, fmt.Errorf("render: empty result")
	}
	var blank sdf.SDF2
	var holes []sdf.SDF2
	for _, fp := range res.Flats2D {
		outline, err := loopSDF2(fp.Matrix.Apply(fp.Flat.Outline))
		if err != nil {
			return nil, fmt.Errorf("render: flat %q outline: %w", fp.Flat.ID, err)
		}
		if blank == nil {
			blank = outline
		} else {
			blank = sdf.Union2D(blank, outline)
		}
		for _, hole := range fp.Flat.Holes {
			h, err := loopSDF2(fp.Matrix.Apply(hole))
			if err != nil {
				return nil, fmt.Errorf("render: flat %q hole: %w", fp.Flat.ID, err)
			}
			holes = append(holes, h)
		}
	}
	for _, h := range holes {
		blank = sdf.Difference2D(blank, h)
	}
	return blank, nil
}

func loopSDF2(loop []r2.Vec) (sdf.SDF2, error) {
	pts := make([]v2.Vec, len(loop))
	for i, p := range loop {
		pts[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	return sdf.Polygon2D(pts)
}
