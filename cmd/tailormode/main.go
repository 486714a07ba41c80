package main

import (
	"fmt"
	"os"

	"github.com/LopeWale/TailorMode-sub000/internal/logging"
	"github.com/LopeWale/TailorMode-sub000/version"
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	logFormat   string
	dbPath      string
	catalogPath string
	configPath  string
)

var rootCmd = &cobra.Command{
	Use:   "tailormode",
	Short: "Body measurement engine for 3D scans",
	Long: `tailormode computes tailoring measurements from a reconstructed body mesh
and a set of anatomical landmarks. Each measurement is scored for confidence
and validated against its catalog minimum; low-confidence measurements are
sent back for recapture and flagged for manual review once the attempt
budget is spent. Capture sessions are kept in a local SQLite database.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(logFormat)
		if err != nil {
			return err
		}
		logging.Init(level, format, cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	flags.StringVar(&dbPath, "db", "tailormode.db", "Session database file")
	flags.StringVar(&catalogPath, "catalog", "", "Measurement catalog file (default: built-in catalog)")
	flags.StringVar(&configPath, "config", "", "Engine tuning file (default: built-in tuning)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
