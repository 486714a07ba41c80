package main

import (
	"fmt"
	"os"

	"github.com/LopeWale/TailorMode-sub000/pkg/measurement"
	"github.com/spf13/cobra"
)

var (
	landmarksHeight float64
	landmarksOutput string
)

var landmarksCmd = &cobra.Command{
	Use:   "landmarks",
	Short: "Estimate landmarks from body height",
	Long: `Write the fallback landmark set estimated from body height as a landmark
file. Every estimated landmark carries a confidence of 60%, so the result can
be edited by hand and passed back with --landmarks.`,
	Args: cobra.NoArgs,
	RunE: runLandmarks,
}

func init() {
	rootCmd.AddCommand(landmarksCmd)

	landmarksCmd.Flags().Float64Var(&landmarksHeight, "height", 0, "Body height in cm")
	landmarksCmd.Flags().StringVarP(&landmarksOutput, "output", "o", "", "Output file (default: stdout)")
	landmarksCmd.MarkFlagRequired("height")
}

func runLandmarks(cmd *cobra.Command, args []string) error {
	landmarks, err := measurement.EstimateLandmarksFromHeight(landmarksHeight)
	if err != nil {
		return err
	}

	if landmarksOutput == "" {
		return measurement.WriteLandmarks(cmd.OutOrStdout(), landmarks)
	}

	f, err := os.Create(landmarksOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", landmarksOutput, err)
	}
	if err := measurement.WriteLandmarks(f, landmarks); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d landmarks to %s\n", len(landmarks), landmarksOutput)
	return nil
}
