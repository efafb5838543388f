package render

import (
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
	"gonum.org/v1/gonum/spatial/r2"

	sheetmetal "github.com/mmiscool/BREP.io-sub008"
)

// DXF layer names for the flat pattern.
const (
	layerOutline = "OUTLINE"
	layerHoles   = "HOLES"
	layerBends   = "BENDS"
)

// WriteDXF writes the flattened blank to a DXF file with OUTLINE,
// HOLES and BENDS layers.
func WriteDXF(path string, res *sheetmetal.Result, opts Options) error {
	p, err := patternOf(res, opts.Margin)
	if err != nil {
		return err
	}
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	if _, err := d.AddLayer(layerOutline, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	if _, err := d.AddLayer(layerHoles, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return err
	}
	if _, err := d.AddLayer(layerBends, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return err
	}

	if err := d.ChangeLayer(layerOutline); err != nil {
		return err
	}
	for _, loop := range p.outlines {
		if err := drawPolyline(d, closeLoop(loop)); err != nil {
			return err
		}
	}
	if err := d.ChangeLayer(layerHoles); err != nil {
		return err
	}
	for _, loop := range p.holes {
		if err := drawPolyline(d, closeLoop(loop)); err != nil {
			return err
		}
	}
	if err := d.ChangeLayer(layerBends); err != nil {
		return err
	}
	for _, line := range p.bendLines {
		if err := drawPolyline(d, line); err != nil {
			return err
		}
	}
	return d.SaveAs(path)
}

func drawPolyline(d *drawing.Drawing, pts []r2.Vec) error {
	for i := 1; i < len(pts); i++ {
		if _, err := d.Line(pts[i-1].X, pts[i-1].Y, 0, pts[i].X, pts[i].Y, 0); err != nil {
			return err
		}
	}
	return nil
}
