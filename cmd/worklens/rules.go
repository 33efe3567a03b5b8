package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Compile the bucket rules and report their health",
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	statuses, err := rt.service().RuleStatuses(cmd.Context())
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		fmt.Println("no rules defined")
		return nil
	}
	broken := 0
	for _, status := range statuses {
		if status.Error == "" {
			fmt.Printf("ok    %-12s %s\n", status.Category, status.BucketID)
			continue
		}
		broken++
		fmt.Printf("error %-12s %s: %s\n", status.Category, status.BucketID, status.Error)
	}
	if broken > 0 {
		return fmt.Errorf("%d rule(s) failed to compile", broken)
	}
	return nil
}
