package app

import (
	"context"

	"github.com/stelvio-labs/worklens/internal/domain"
)

// ActivityFilter narrows an activity listing. Zero values mean "no bound".
type ActivityFilter struct {
	Since     int64
	Until     int64
	EventType string
}

// ActivitySource lists ingested activities and persists classification
// patches. Ingestion itself happens outside the engine.
type ActivitySource interface {
	ListActivities(context.Context, ActivityFilter) ([]domain.Activity, error)
	UpdateActivityClassification(context.Context, domain.Activity) error
}

// BucketSource lists the classification buckets for one rule category.
type BucketSource interface {
	ListBuckets(context.Context, domain.Category) ([]domain.Bucket, error)
}

// IdentitySource lists raw accounts, canonical identities, and the
// account-id to identity-id mapping maintained outside the engine.
type IdentitySource interface {
	ListAccounts(context.Context) ([]domain.Account, error)
	ListIdentities(context.Context) ([]domain.Identity, error)
	AccountIdentityMap(context.Context) (map[string]string, error)
}

// TicketSource provides the ticket-key to priority-level table used to infer
// missing activity priorities.
type TicketSource interface {
	TicketPriorities(context.Context) (map[string]int, error)
}
