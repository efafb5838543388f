package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sheetmetal "github.com/mmiscool/BREP.io-sub008"
	"github.com/mmiscool/BREP.io-sub008/render"
)

var (
	unfoldIn     string
	unfoldSVG    string
	unfoldDXF    string
	unfoldMargin float64
)

var unfoldCmd = &cobra.Command{
	Use:   "unfold",
	Short: "Unfold a flat/bend tree into a flat pattern",
	Long: `Evaluate a flat/bend tree from a JSON file and export the
flattened pattern.

The JSON file holds a thickness and a root flat; each flat has an id,
an outline, optional hole loops and named edges, and an edge may carry
a bend with its children.

Examples:
  # Unfold a bracket and write both export formats
  flatpattern unfold --in bracket.json --svg bracket.svg --dxf bracket.dxf`,
	RunE: runUnfold,
}

func init() {
	rootCmd.AddCommand(unfoldCmd)

	unfoldCmd.Flags().StringVar(&unfoldIn, "in", "", "Input tree JSON file [required]")
	unfoldCmd.Flags().StringVar(&unfoldSVG, "svg", "", "Output SVG file")
	unfoldCmd.Flags().StringVar(&unfoldDXF, "dxf", "", "Output DXF file")
	unfoldCmd.Flags().Float64Var(&unfoldMargin, "margin", 2, "Blank margin around the pattern")

	unfoldCmd.MarkFlagRequired("in")
}

func runUnfold(cmd *cobra.Command, args []string) error {
	tree, err := loadTree(unfoldIn)
	if err != nil {
		return err
	}
	res, err := sheetmetal.Unfold(tree)
	if err != nil {
		return err
	}
	opts := render.Options{Margin: unfoldMargin}
	if unfoldSVG != "" {
		f, err := os.Create(unfoldSVG)
		if err != nil {
			return err
		}
		if err := render.WriteSVG(f, res, opts); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", unfoldSVG)
	}
	if unfoldDXF != "" {
		if err := render.WriteDXF(unfoldDXF, res, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", unfoldDXF)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d flats, %d bends\n", len(res.Flats2D), len(res.Bends2D))
	return nil
}
