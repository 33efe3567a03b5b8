package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify stored activities and persist the results",
	Long: `Classify compiles the bucket rules, annotates every unclassified
activity with first-match initiative and launch item ids, infers missing
priorities from ticket references, and writes the changed activities back
to the database.`,
	RunE: runClassify,
}

func init() {
	addFilterFlags(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	filter := buildFilter(rt.cfg.Report.LookbackDays, rt.cfg.Report.EventType, time.Now())
	updated, err := rt.service().ClassifyBacklog(cmd.Context(), filter)
	if err != nil {
		return err
	}
	fmt.Printf("updated %d activities\n", updated)
	return nil
}
