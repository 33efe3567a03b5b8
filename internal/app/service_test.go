package app

import (
	"context"
	"testing"
	"time"

	"github.com/stelvio-labs/worklens/internal/domain"
)

type fakeSources struct {
	activities []domain.Activity
	buckets    map[domain.Category][]domain.Bucket
	accounts   []domain.Account
	identities []domain.Identity
	accountMap map[string]string
	tickets    map[string]int

	updated []domain.Activity
}

func (f *fakeSources) ListActivities(_ context.Context, filter ActivityFilter) ([]domain.Activity, error) {
	out := make([]domain.Activity, 0, len(f.activities))
	for _, a := range f.activities {
		if filter.Since > 0 && a.Timestamp < filter.Since {
			continue
		}
		if filter.Until > 0 && a.Timestamp >= filter.Until {
			continue
		}
		if filter.EventType != "" && a.EventType != filter.EventType {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeSources) UpdateActivityClassification(_ context.Context, a domain.Activity) error {
	f.updated = append(f.updated, a)
	return nil
}

func (f *fakeSources) ListBuckets(_ context.Context, category domain.Category) ([]domain.Bucket, error) {
	return f.buckets[category], nil
}

func (f *fakeSources) ListAccounts(context.Context) ([]domain.Account, error) {
	return f.accounts, nil
}

func (f *fakeSources) ListIdentities(context.Context) ([]domain.Identity, error) {
	return f.identities, nil
}

func (f *fakeSources) AccountIdentityMap(context.Context) (map[string]string, error) {
	return f.accountMap, nil
}

func (f *fakeSources) TicketPriorities(context.Context) (map[string]int, error) {
	return f.tickets, nil
}

func (f *fakeSources) sources() Sources {
	return Sources{Activities: f, Buckets: f, Identities: f, Tickets: f}
}

func newFakeSources() *fakeSources {
	return &fakeSources{
		buckets: map[domain.Category][]domain.Bucket{
			domain.CategoryInitiative: {
				{ID: "init-code", ActivityMapper: `artifact == "code"`},
			},
			domain.CategoryLaunchItem: {
				{ID: "li-retry", ActivityMapper: `metadata.pullRequest.title ~= "retry"`},
			},
		},
		accountMap: map[string]string{"gh-ada": "ident-ada"},
		accounts:   []domain.Account{{ID: "gh-ada", Type: "github", Name: "ada"}},
		identities: []domain.Identity{{
			ID:          "ident-ada",
			DisplayName: "Ada Lovelace",
			Accounts:    []domain.Account{{ID: "gh-ada", Type: "github"}},
		}},
		tickets: map[string]int{"PROJ-77": 2},
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
}

func TestClassifyBacklogPersistsOnlyChanges(t *testing.T) {
	src := newFakeSources()
	already := "init-manual"
	src.activities = []domain.Activity{
		{
			ID: "a1", Timestamp: 10, ActorID: "gh-ada",
			Artifact: domain.ArtifactCode, Action: "created",
			Priority: domain.UnknownPriority,
			Metadata: &domain.Metadata{PullRequest: &domain.PullRequest{Ref: "PROJ-77-x", Title: "Retry budget"}},
		},
		{
			ID: "a2", Timestamp: 10,
			Artifact: domain.ArtifactDoc, Action: "updated",
			Priority:     domain.UnknownPriority,
			InitiativeID: &already,
		},
	}

	service := NewService(src.sources(), fixedClock)
	updated, err := service.ClassifyBacklog(context.Background(), ActivityFilter{})
	if err != nil {
		t.Fatalf("ClassifyBacklog() error = %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 updated activity, got %d", updated)
	}
	if len(src.updated) != 1 || src.updated[0].ID != "a1" {
		t.Fatalf("unexpected persisted patches %+v", src.updated)
	}
	patched := src.updated[0]
	if patched.InitiativeID == nil || *patched.InitiativeID != "init-code" {
		t.Fatalf("unexpected initiative %v", patched.InitiativeID)
	}
	if patched.LaunchItemID == nil || *patched.LaunchItemID != "li-retry" {
		t.Fatalf("unexpected launch item %v", patched.LaunchItemID)
	}
	if patched.Priority != 2 {
		t.Fatalf("expected inferred priority 2, got %d", patched.Priority)
	}
}

func TestBuildReportEndToEnd(t *testing.T) {
	src := newFakeSources()
	src.activities = []domain.Activity{
		{
			ID: "a1", Timestamp: 10, ActorID: "gh-ada",
			Artifact: domain.ArtifactCode, Action: "created",
			Priority: domain.UnknownPriority,
			Metadata: &domain.Metadata{PullRequest: &domain.PullRequest{Ref: "PROJ-77-x", Title: "Retry budget"}},
		},
		{
			ID: "a2", Timestamp: 20, ActorID: "gh-ada",
			Artifact: domain.ArtifactCode, Action: "created",
			Priority: 1,
		},
	}

	service := NewService(src.sources(), fixedClock)
	report, err := service.BuildReport(context.Background(), ActivityFilter{})
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}

	if !report.GeneratedAt.Equal(fixedClock()) {
		t.Fatalf("unexpected timestamp %v", report.GeneratedAt)
	}
	if report.ActivityCount != 2 {
		t.Fatalf("expected 2 activities, got %d", report.ActivityCount)
	}

	// Actor ids are resolved before grouping, so the leaderboard is keyed
	// by identity id.
	board := report.Grouped.TopActors["code-created"]
	if len(board) != 1 || board[0].ActorID != "ident-ada" || board[0].Count != 2 {
		t.Fatalf("unexpected leaderboard %+v", board)
	}

	if len(report.Grouped.Initiatives) != 1 || report.Grouped.Initiatives[0].ID != "init-code" {
		t.Fatalf("unexpected initiatives %+v", report.Grouped.Initiatives)
	}
	if report.Grouped.Initiatives[0].ActorCount != 1 {
		t.Fatalf("expected one distinct actor, got %d", report.Grouped.Initiatives[0].ActorCount)
	}

	// a1's priority was inferred from PROJ-77, a2 carried priority 1.
	want := []domain.PriorityCount{{Priority: 2, Count: 1}, {Priority: 1, Count: 1}}
	for i, row := range want {
		if report.Grouped.Priorities[i] != row {
			t.Fatalf("priority row %d = %+v, want %+v", i, report.Grouped.Priorities[i], row)
		}
	}

	if _, ok := report.Actors["ident-ada"]; !ok {
		t.Fatalf("expected resolved actor record, got %+v", report.Actors)
	}

	// Report classification is a view: nothing is persisted.
	if len(src.updated) != 0 {
		t.Fatalf("expected no persisted patches, got %+v", src.updated)
	}
}

func TestBuildReportAppliesFilter(t *testing.T) {
	src := newFakeSources()
	src.activities = []domain.Activity{
		{ID: "a1", Timestamp: 10, Artifact: domain.ArtifactCode, Action: "created", EventType: "github"},
		{ID: "a2", Timestamp: 20, Artifact: domain.ArtifactTask, Action: "created", EventType: "jira"},
	}
	service := NewService(src.sources(), fixedClock)
	report, err := service.BuildReport(context.Background(), ActivityFilter{EventType: "jira"})
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if report.ActivityCount != 1 {
		t.Fatalf("expected 1 activity after filter, got %d", report.ActivityCount)
	}
}

func TestRuleStatusesReportInvalidRules(t *testing.T) {
	src := newFakeSources()
	src.buckets[domain.CategoryInitiative] = append(src.buckets[domain.CategoryInitiative],
		domain.Bucket{ID: "init-broken", ActivityMapper: `artifact == `})

	service := NewService(src.sources(), fixedClock)
	statuses, err := service.RuleStatuses(context.Background())
	if err != nil {
		t.Fatalf("RuleStatuses() error = %v", err)
	}

	byBucket := map[string]RuleStatus{}
	for _, status := range statuses {
		byBucket[status.BucketID] = status
	}
	if byBucket["init-broken"].Error == "" {
		t.Fatal("expected compile error for init-broken")
	}
	if byBucket["init-code"].Error != "" {
		t.Fatalf("unexpected error for init-code: %s", byBucket["init-code"].Error)
	}
}
