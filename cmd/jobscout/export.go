// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/jobscout/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a stored run to a CSV, JSON, or YAML file",
	Long: `Export loads a run from the history database and writes it out. CSV files
are named <employers>_<location>_<timestamp>.csv; YAML reports include the
per-employer collection reports alongside the records.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetInt64("run")
	format, _ := cmd.Flags().GetString("format")
	dir, _ := cmd.Flags().GetString("dir")

	if runID == 0 {
		return fmt.Errorf("--run is required: run `jobscout history` to list stored runs")
	}

	cfg := loadConfig()
	if dir == "" {
		dir = cfg.Export.Dir
	}

	s, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.GetRun(context.Background(), runID)
	if err != nil {
		return err
	}

	switch format {
	case "csv", "":
		path, err := export.WriteCSV(result, dir, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
	case "yaml":
		path, err := export.WriteYAMLReport(result, dir, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
	case "json":
		return export.FormatJSON(result, os.Stdout)
	default:
		return fmt.Errorf("unsupported format %q: use csv, yaml, or json", format)
	}
	return nil
}

func init() {
	exportCmd.Flags().Int64("run", 0, "run id from the history database")
	exportCmd.Flags().String("format", "csv", "output format: csv, yaml, or json")
	exportCmd.Flags().String("dir", "", "output directory (default from config)")

	rootCmd.AddCommand(exportCmd)
}
