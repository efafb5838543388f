package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	sheetmetal "github.com/mmiscool/BREP.io-sub008"
)

// JSON tree format. This format belongs to the CLI; the sheetmetal
// core owns no file formats.

type jsonTree struct {
	Thickness float64   `json:"thickness"`
	Root      *jsonFlat `json:"root"`
}

type jsonFlat struct {
	ID      string         `json:"id"`
	Outline [][2]float64   `json:"outline"`
	Holes   [][][2]float64 `json:"holes,omitempty"`
	Edges   []jsonEdge     `json:"edges,omitempty"`
}

type jsonEdge struct {
	ID       string       `json:"id"`
	Polyline [][2]float64 `json:"polyline"`
	Bend     *jsonBend    `json:"bend,omitempty"`
}

type jsonBend struct {
	ID        string      `json:"id"`
	AngleDeg  float64     `json:"angleDeg"`
	MidRadius float64     `json:"midRadius"`
	KFactor   float64     `json:"kFactor"`
	Children  []jsonChild `json:"children"`
}

type jsonChild struct {
	Flat         *jsonFlat `json:"flat"`
	AttachEdgeID string    `json:"attachEdgeId"`
	ReverseEdge  *bool     `json:"reverseEdge,omitempty"`
}

func loadTree(path string) (*sheetmetal.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var jt jsonTree
	if err := json.Unmarshal(data, &jt); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if jt.Root == nil {
		return nil, fmt.Errorf("parse %s: missing root flat", path)
	}
	return &sheetmetal.Tree{
		Thickness: jt.Thickness,
		Root:      buildFlat(jt.Root),
	}, nil
}

func buildFlat(jf *jsonFlat) *sheetmetal.Flat {
	f := &sheetmetal.Flat{
		ID:      jf.ID,
		Outline: buildPoints(jf.Outline),
	}
	for _, hole := range jf.Holes {
		f.Holes = append(f.Holes, buildPoints(hole))
	}
	for _, je := range jf.Edges {
		e := &sheetmetal.Edge{
			ID:       je.ID,
			Polyline: buildPoints(je.Polyline),
		}
		if je.Bend != nil {
			b := &sheetmetal.Bend{
				ID:        je.Bend.ID,
				AngleDeg:  je.Bend.AngleDeg,
				MidRadius: je.Bend.MidRadius,
				KFactor:   je.Bend.KFactor,
			}
			for _, jc := range je.Bend.Children {
				child := sheetmetal.BendChild{
					AttachEdgeID: jc.AttachEdgeID,
					ReverseEdge:  jc.ReverseEdge,
				}
				if jc.Flat != nil {
					child.Flat = buildFlat(jc.Flat)
				}
				b.Children = append(b.Children, child)
			}
			e.Bend = b
		}
		f.Edges = append(f.Edges, e)
	}
	return f
}

func buildPoints(pts [][2]float64) []r2.Vec {
	out := make([]r2.Vec, len(pts))
	for i, p := range pts {
		out[i] = r2.Vec{X: p[0], Y: p[1]}
	}
	return out
}
