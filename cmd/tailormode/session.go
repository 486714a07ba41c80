package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	sessionPreset      string
	sessionIDs         string
	sessionDescription string
	sessionHeight      float64
	sessionJSON        bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage capture sessions",
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a capture session",
	Long: `Start a capture session for the measurements of a preset or an explicit
id list. Every measurement starts pending with no capture attempts.`,
	Args: cobra.NoArgs,
	RunE: runSessionNew,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Show the results and rounds of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List capture sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionList,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <session>",
	Short: "Delete a session and its results",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionNewCmd, sessionShowCmd, sessionListCmd, sessionDeleteCmd)

	sessionNewCmd.Flags().StringVarP(&sessionPreset, "preset", "p", "", "Clothing preset")
	sessionNewCmd.Flags().StringVar(&sessionIDs, "ids", "", "Comma separated measurement ids")
	sessionNewCmd.Flags().StringVarP(&sessionDescription, "description", "d", "", "Free-form description")
	sessionNewCmd.Flags().Float64Var(&sessionHeight, "height", 0, "Body height in cm")
	sessionNewCmd.MarkFlagsMutuallyExclusive("preset", "ids")
	sessionNewCmd.MarkFlagsOneRequired("preset", "ids")

	sessionShowCmd.Flags().BoolVar(&sessionJSON, "json", false, "Print as JSON")
	sessionListCmd.Flags().BoolVar(&sessionJSON, "json", false, "Print as JSON")
}

func runSessionNew(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	ids := splitIDs(sessionIDs)
	if sessionPreset != "" {
		p, err := cat.Preset(sessionPreset)
		if err != nil {
			return err
		}
		ids = p.RequiredMeasurements
	}
	if _, err := cat.Resolve(ids); err != nil {
		return err
	}
	if sessionHeight < 0 {
		return errors.New("height must not be negative")
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	session, err := s.CreateSession(cmd.Context(), sessionPreset, sessionDescription, sessionHeight, ids)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), session.ID)
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	session, err := s.GetSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	rounds, err := s.Rounds(cmd.Context(), session.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sessionJSON {
		return printJSON(out, struct {
			Session any `json:"session"`
			Rounds  any `json:"rounds"`
		}{session, rounds})
	}

	fmt.Fprintf(out, "Session %s (%s)\n", session.ID, session.Status)
	if session.PresetID != "" {
		fmt.Fprintf(out, "Preset: %s\n", session.PresetID)
	}
	if session.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", session.Description)
	}
	fmt.Fprintf(out, "Created: %s\n\n", session.CreatedAt.Format("2006-01-02 15:04:05"))

	t := newTable(out)
	t.AppendHeader(table.Row{"Measurement", "Value", "Confidence", "Attempts", "Status", "Flag Reason"})
	for _, r := range session.Results {
		t.AppendRow(table.Row{r.MeasurementID, formatCm(r.Value), formatPercent(r.Confidence), r.CaptureAttempts, r.Status, r.FlagReason})
	}
	t.Render()

	if len(rounds) > 0 {
		t = newTable(out)
		t.SetTitle("Rounds")
		t.AppendHeader(table.Row{"#", "Recorded", "Validated", "Recapture", "Flagged"})
		for _, r := range rounds {
			t.AppendRow(table.Row{r.Number, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Summary.Validated, r.Summary.NeedsRecapture, r.Summary.Flagged})
		}
		t.Render()
	}
	return nil
}

func runSessionList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sessions, err := s.ListSessions(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sessionJSON {
		return printJSON(out, sessions)
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Preset", "Status", "Created", "Description"})
	for _, session := range sessions {
		t.AppendRow(table.Row{session.ID, session.PresetID, session.Status, session.CreatedAt.Format("2006-01-02 15:04"), session.Description})
	}
	t.Render()
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteSession(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
	return nil
}
