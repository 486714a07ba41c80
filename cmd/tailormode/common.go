package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/LopeWale/TailorMode-sub000/internal/logging"
	"github.com/LopeWale/TailorMode-sub000/internal/store"
	"github.com/LopeWale/TailorMode-sub000/pkg/catalog"
	"github.com/LopeWale/TailorMode-sub000/pkg/measurement"
	"github.com/jedib0t/go-pretty/v6/table"
)

func loadCatalog() (*catalog.Catalog, error) {
	if catalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(catalogPath)
}

func newEngine() (*measurement.Engine, error) {
	cfg := measurement.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = measurement.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	return measurement.New(cfg, measurement.WithLogger(logging.New("measurement"))), nil
}

func openStore() (*store.Store, error) {
	return store.Open(dbPath)
}

// splitIDs parses a comma separated id list, dropping blanks
func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func formatCm(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f cm", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
