package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/stelvio-labs/worklens/internal/app"
)

var (
	flagSince     int64
	flagUntil     int64
	flagDays      int
	flagEventType string
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&flagSince, "since", 0, "only activities at or after this unix timestamp")
	cmd.Flags().Int64Var(&flagUntil, "until", 0, "only activities before this unix timestamp")
	cmd.Flags().IntVar(&flagDays, "days", 0, "only activities from the last N days")
	cmd.Flags().StringVar(&flagEventType, "type", "", "only activities from this feed type")
}

// buildFilter merges the filter flags with the configured lookback window.
// An explicit --since wins over --days, which wins over the config default.
func buildFilter(lookbackDays int, defaultEventType string, now time.Time) app.ActivityFilter {
	filter := app.ActivityFilter{Since: flagSince, Until: flagUntil, EventType: flagEventType}
	if filter.EventType == "" {
		filter.EventType = defaultEventType
	}
	days := flagDays
	if days == 0 {
		days = lookbackDays
	}
	if filter.Since == 0 && days > 0 {
		filter.Since = now.AddDate(0, 0, -days).Unix()
	}
	return filter
}
