package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stelvio-labs/worklens/internal/platform"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show resolved config and data locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := platform.DefaultPaths(platform.Options{AppName: "worklens", DevMode: flagDevMode})
		if err != nil {
			return err
		}
		fmt.Printf("dev_mode: %t\n", flagDevMode)
		fmt.Printf("config: %s\n", paths.ConfigPath)
		fmt.Printf("data_dir: %s\n", paths.DataDir)
		fmt.Printf("db: %s\n", paths.DBPath)
		return nil
	},
}
