package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a grouped activity report as JSON",
	Long: `Report classifies the in-memory view of the stored activities,
resolves actors, and prints the grouped report payload as JSON on stdout.
Nothing is written back to the database.`,
	RunE: runReport,
}

func init() {
	addFilterFlags(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	filter := buildFilter(rt.cfg.Report.LookbackDays, rt.cfg.Report.EventType, time.Now())
	report, err := rt.service().BuildReport(cmd.Context(), filter)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
