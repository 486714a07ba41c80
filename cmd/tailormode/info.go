package main

import (
	"fmt"

	"github.com/LopeWale/TailorMode-sub000/pkg/mesh"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	infoScale float64
	infoJSON  bool
)

var infoCmd = &cobra.Command{
	Use:   "info <mesh.stl>",
	Short: "Display general information about a body mesh",
	Long:  "Show dimensions, bounding box, triangle count, surface area, edge and perimeter statistics and a mesh quality score.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().Float64Var(&infoScale, "scale", 1, "Meters per mesh unit")
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Print the analysis as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := mesh.ParseSTL(args[0], infoScale)
	if err != nil {
		return err
	}
	result := mesh.Analyze(m)

	out := cmd.OutOrStdout()
	if infoJSON {
		return printJSON(out, result)
	}

	t := newTable(out)
	t.SetTitle("Mesh " + args[0])
	t.AppendRows([]table.Row{
		{"Name", m.Name},
		{"Vertices", result.VertexCount},
		{"Triangles", result.TriangleCount},
		{"Edges", result.EdgeCount},
		{"Surface area", fmt.Sprintf("%.6f square units", result.SurfaceArea)},
		{"Bounding box min", mesh.FormatVector(result.BoundingBox.Min)},
		{"Bounding box max", mesh.FormatVector(result.BoundingBox.Max)},
		{"Bounding box center", mesh.FormatVector(result.Center)},
		{"Bounding box diagonal", fmt.Sprintf("%.6f", result.Diagonal)},
		{"Dimensions", mesh.FormatVector(result.Dimensions)},
		{"Surface centroid", mesh.FormatVector(result.SurfaceCentroid)},
		{"Height", fmt.Sprintf("%.3f m", result.HeightMeters)},
		{"Edge length min / avg / max", fmt.Sprintf("%.6f / %.6f / %.6f", result.MinEdgeLength, result.AvgEdgeLength, result.MaxEdgeLength)},
		{"Edge length std dev", fmt.Sprintf("%.6f", result.EdgeLengthStdDev)},
		{"Triangle perimeter avg", fmt.Sprintf("%.6f", result.AvgTrianglePerimeter)},
		{"Degenerate triangles", result.DegenerateTriangles},
		{"Quality", formatPercent(result.Quality)},
	})
	t.Render()
	return nil
}
