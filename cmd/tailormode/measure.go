package main

import (
	"github.com/spf13/cobra"
)

var measureInputs roundInputs

var measureCmd = &cobra.Command{
	Use:   "measure [mesh.stl]",
	Short: "Compute and validate measurements",
	Long: `Compute the requested measurements on a body mesh and validate each
against its catalog minimum confidence.

Landmarks come from a landmark file or are estimated from body height.
Without a mesh, a proxy body is built from the landmarks. With --session the
previous results are loaded from the session database and the round is
recorded there.`,
	Example: `  tailormode measure scan.stl --landmarks landmarks.yaml --preset shirt
  tailormode measure scan.stl --height 172 --ids chest,waist --scale 0.001
  tailormode measure --height 172 --session 7c1f...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)
	measureInputs.register(measureCmd)
}

func runMeasure(cmd *cobra.Command, args []string) error {
	var meshPath string
	if len(args) == 1 {
		meshPath = args[0]
	}

	c, err := newCapture(cmd.Context(), &measureInputs, meshPath)
	if err != nil {
		return err
	}
	defer c.Close()

	batch, err := c.run(cmd.Context())
	if err != nil {
		return err
	}
	return c.print(cmd.OutOrStdout(), batch)
}
