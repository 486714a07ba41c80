package main

import (
	"fmt"

	"github.com/LopeWale/TailorMode-sub000/internal/export"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <session>",
	Short: "Export a session as a PDF or XLSX measurement sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (.pdf or .xlsx)")
	exportCmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	session, err := s.GetSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := export.Save(exportOutput, export.NewSheet(session, cat)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported session %s to %s\n", session.ID, exportOutput)
	return nil
}
