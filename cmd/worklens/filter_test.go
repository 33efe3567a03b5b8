package main

import (
	"testing"
	"time"
)

func resetFilterFlags() {
	flagSince = 0
	flagUntil = 0
	flagDays = 0
	flagEventType = ""
}

func TestBuildFilterDefaults(t *testing.T) {
	resetFilterFlags()
	t.Cleanup(resetFilterFlags)

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	filter := buildFilter(7, "jira", now)
	if filter.Since != now.AddDate(0, 0, -7).Unix() {
		t.Fatalf("unexpected since %d", filter.Since)
	}
	if filter.EventType != "jira" {
		t.Fatalf("unexpected event type %q", filter.EventType)
	}
}

func TestBuildFilterFlagPrecedence(t *testing.T) {
	resetFilterFlags()
	t.Cleanup(resetFilterFlags)

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	flagDays = 3
	filter := buildFilter(30, "", now)
	if filter.Since != now.AddDate(0, 0, -3).Unix() {
		t.Fatalf("--days should win over config, got since %d", filter.Since)
	}

	flagSince = 12345
	flagEventType = "github"
	filter = buildFilter(30, "jira", now)
	if filter.Since != 12345 {
		t.Fatalf("--since should win over --days, got %d", filter.Since)
	}
	if filter.EventType != "github" {
		t.Fatalf("--type should win over config, got %q", filter.EventType)
	}
}
