// Command flatpattern unfolds a sheet-metal flat/bend tree described in
// a JSON file and writes the resulting flat pattern as SVG and/or DXF.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flatpattern",
	Short: "Sheet-metal flat pattern tool",
	Long: `flatpattern - sheet-metal unfolding tool

Evaluates a flat/bend tree: computes the folded 3D placement and the
flattened 2D placement of every flat, verifies both representations
against each other, and exports the flat pattern with bend lines.

Use 'flatpattern unfold --help' to get started.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
