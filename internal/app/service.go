package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stelvio-labs/worklens/internal/domain"
	"github.com/stelvio-labs/worklens/internal/rules"
)

// Clock returns the current time.
type Clock func() time.Time

// Sources bundles the external collaborators the engine reads from.
type Sources struct {
	Activities ActivitySource
	Buckets    BucketSource
	Identities IdentitySource
	Tickets    TicketSource
}

// Service drives the request flow: refresh rules, resolve identities,
// classify, infer priorities, group. The compiler cache is instance-scoped
// and lives for the service's lifetime.
type Service struct {
	sources    Sources
	cache      *rules.Cache
	classifier *Classifier
	clock      Clock
}

// NewService constructs a service over the given sources.
func NewService(sources Sources, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	cache := rules.NewCache()
	return &Service{
		sources:    sources,
		cache:      cache,
		classifier: NewClassifier(cache),
		clock:      clock,
	}
}

// RefreshRules fetches the bucket definitions for every category and
// recompiles whichever rule sets changed since the last refresh.
func (s *Service) RefreshRules(ctx context.Context) error {
	for _, category := range domain.Categories() {
		buckets, err := s.sources.Buckets.ListBuckets(ctx, category)
		if err != nil {
			return fmt.Errorf("list %s buckets: %w", category, err)
		}
		mappers := make(map[string]string, len(buckets))
		for _, bucket := range buckets {
			mappers[bucket.ID] = bucket.ActivityMapper
		}
		if err := s.cache.Compile(category, mappers); err != nil {
			return fmt.Errorf("compile %s rules: %w", category, err)
		}
	}
	return nil
}

// RuleStatus reports one compiled rule's health for diagnostics.
type RuleStatus struct {
	Category domain.Category `json:"category"`
	BucketID string          `json:"bucketId"`
	Error    string          `json:"error,omitempty"`
}

// RuleStatuses refreshes the rules and reports every compiled rule with its
// compile error, if any.
func (s *Service) RuleStatuses(ctx context.Context) ([]RuleStatus, error) {
	if err := s.RefreshRules(ctx); err != nil {
		return nil, err
	}
	var statuses []RuleStatus
	for _, category := range domain.Categories() {
		for _, rule := range s.cache.Rules(category) {
			status := RuleStatus{Category: category, BucketID: rule.BucketID}
			if rule.Err != nil {
				status.Error = rule.Err.Error()
			}
			statuses = append(statuses, status)
		}
	}
	return statuses, nil
}

// ClassifyBacklog annotates every eligible activity with first-match bucket
// ids and an inferred priority, persists the patched activities, and returns
// how many were updated. Activities whose classification a user explicitly
// unset are never touched.
func (s *Service) ClassifyBacklog(ctx context.Context, filter ActivityFilter) (int, error) {
	if err := s.RefreshRules(ctx); err != nil {
		return 0, err
	}
	activities, err := s.sources.Activities.ListActivities(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("list activities: %w", err)
	}
	table, err := s.sources.Tickets.TicketPriorities(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ticket priorities: %w", err)
	}

	updated := 0
	for i := range activities {
		changed := s.classifier.Annotate(&activities[i])
		if !activities[i].HasPriority() {
			if priority := InferPriority(table, activities[i].Metadata); priority != domain.UnknownPriority {
				activities[i].Priority = priority
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := s.sources.Activities.UpdateActivityClassification(ctx, activities[i]); err != nil {
			return updated, fmt.Errorf("update activity %s: %w", activities[i].ID, err)
		}
		updated++
	}
	log.Debug("classified backlog", "activities", len(activities), "updated", updated)
	return updated, nil
}

// Report is the full dashboard payload for one request.
type Report struct {
	GeneratedAt   time.Time                `json:"generatedAt"`
	ActivityCount int                      `json:"activityCount"`
	Grouped       domain.GroupedActivities `json:"grouped"`
	Actors        map[string]domain.Actor  `json:"actors"`
}

// BuildReport materializes one report: list activities, resolve actor ids to
// identities, classify and infer priorities on the in-memory view, and fold
// everything into grouped rollups. Nothing is persisted.
func (s *Service) BuildReport(ctx context.Context, filter ActivityFilter) (Report, error) {
	if err := s.RefreshRules(ctx); err != nil {
		return Report{}, err
	}
	activities, err := s.sources.Activities.ListActivities(ctx, filter)
	if err != nil {
		return Report{}, fmt.Errorf("list activities: %w", err)
	}
	accounts, err := s.sources.Identities.ListAccounts(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list accounts: %w", err)
	}
	identities, err := s.sources.Identities.ListIdentities(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list identities: %w", err)
	}
	accountMap, err := s.sources.Identities.AccountIdentityMap(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load account map: %w", err)
	}
	table, err := s.sources.Tickets.TicketPriorities(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load ticket priorities: %w", err)
	}

	ResolveActivityActors(activities, accountMap)
	for i := range activities {
		s.classifier.Annotate(&activities[i])
		if !activities[i].HasPriority() {
			if priority := InferPriority(table, activities[i].Metadata); priority != domain.UnknownPriority {
				activities[i].Priority = priority
			}
		}
	}

	return Report{
		GeneratedAt:   s.clock().UTC(),
		ActivityCount: len(activities),
		Grouped:       GroupActivities(activities),
		Actors:        ResolveIdentities(accounts, identities, accountMap),
	}, nil
}
