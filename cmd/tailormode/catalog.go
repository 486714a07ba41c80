package main

import (
	"fmt"
	"strings"

	"github.com/LopeWale/TailorMode-sub000/pkg/measurement"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	catalogPreset   string
	catalogOptional bool
	catalogIDs      string
	catalogJSON     bool
)

var catalogCmd = &cobra.Command{
	Use:       "catalog [measurements|landmarks|presets|views]",
	Short:     "List the measurement catalog",
	Long:      "List measurement definitions, the landmark dictionary, clothing presets, or the capture views a set of measurements needs.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"measurements", "landmarks", "presets", "views"},
	RunE:      runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringVarP(&catalogPreset, "preset", "p", "", "Restrict to the measurements of a preset")
	catalogCmd.Flags().BoolVar(&catalogOptional, "optional", false, "With --preset, include the preset's optional measurements")
	catalogCmd.Flags().StringVar(&catalogIDs, "ids", "", "Comma separated measurement ids (views only)")
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Print as JSON")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	section := "measurements"
	if len(args) == 1 {
		section = args[0]
	}
	out := cmd.OutOrStdout()

	switch section {
	case "landmarks":
		landmarks := cat.Landmarks()
		if catalogJSON {
			return printJSON(out, landmarks)
		}
		t := newTable(out)
		t.AppendHeader(table.Row{"ID", "Name", "Region", "Description"})
		for _, l := range landmarks {
			t.AppendRow(table.Row{l.ID, l.Name, l.Region, l.Description})
		}
		t.Render()

	case "presets":
		presets := cat.Presets()
		if catalogJSON {
			return printJSON(out, presets)
		}
		t := newTable(out)
		t.AppendHeader(table.Row{"ID", "Name", "Required", "Optional", "Views"})
		for _, p := range presets {
			t.AppendRow(table.Row{
				p.ID, p.DisplayName,
				strings.Join(p.RequiredMeasurements, ", "),
				strings.Join(p.OptionalMeasurements, ", "),
				joinViews(p.CaptureViews),
			})
		}
		t.Render()

	case "views":
		ids := splitIDs(catalogIDs)
		if catalogPreset != "" {
			p, err := cat.Preset(catalogPreset)
			if err != nil {
				return err
			}
			ids = append(ids, p.RequiredMeasurements...)
			if catalogOptional {
				ids = append(ids, p.OptionalMeasurements...)
			}
		}
		if len(ids) == 0 {
			return fmt.Errorf("views needs --ids or --preset")
		}
		views := cat.RequiredCaptureViews(ids)
		if catalogJSON {
			return printJSON(out, views)
		}
		fmt.Fprintln(out, joinViews(views))

	default:
		defs := cat.Definitions()
		optional := map[string]bool{}
		if catalogPreset != "" {
			if defs, err = cat.DefinitionsForPreset(catalogPreset); err != nil {
				return err
			}
			if catalogOptional {
				extra, err := cat.OptionalForPreset(catalogPreset)
				if err != nil {
					return err
				}
				for _, d := range extra {
					optional[d.ID] = true
				}
				defs = append(defs, extra...)
			}
		}
		if catalogJSON {
			return printJSON(out, defs)
		}
		t := newTable(out)
		t.AppendHeader(table.Row{"ID", "Name", "Type", "Landmarks", "Min Confidence", "Views", "Use"})
		for _, d := range defs {
			landmarks := d.LandmarkStart
			if d.LandmarkEnd != d.LandmarkStart {
				landmarks += " → " + d.LandmarkEnd
			}
			use := "required"
			switch {
			case catalogPreset == "":
				use = ""
			case optional[d.ID]:
				use = "optional"
			}
			t.AppendRow(table.Row{d.ID, d.DisplayName, d.Type, landmarks, formatPercent(d.MinConfidence), joinViews(d.CaptureRequirements), use})
		}
		t.Render()
	}
	return nil
}

func joinViews(views []measurement.View) string {
	s := make([]string, len(views))
	for i, v := range views {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
