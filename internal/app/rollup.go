package app

import (
	"sort"

	"github.com/stelvio-labs/worklens/internal/domain"
)

type bucketAccumulator struct {
	artifacts domain.ArtifactCounts
	phases    domain.PhaseCounts
	actors    map[string]struct{}
	effort    float64
}

func newBucketAccumulator() *bucketAccumulator {
	return &bucketAccumulator{actors: map[string]struct{}{}}
}

func (b *bucketAccumulator) observe(a domain.Activity, trackPhase bool) {
	b.artifacts.Add(a.Artifact)
	if trackPhase && a.Phase != "" {
		b.phases.Add(a.Phase)
	}
	if a.ActorID != "" {
		b.actors[a.ActorID] = struct{}{}
	}
	b.effort += a.Effort
}

// GroupActivities folds a classified, identity-resolved activity collection
// into the grouped rollup consumed by reports. The three aggregations run in
// one sequential pass and are independent of each other; input order only
// influences the documented tie-breaks (equal-count leaderboard actors keep
// first-occurrence order).
func GroupActivities(activities []domain.Activity) domain.GroupedActivities {
	leaderboards := map[string][]domain.ActorCount{}
	actorIndex := map[string]map[string]int{}
	priorities := map[int]int{}
	initiatives := map[string]*bucketAccumulator{}
	launchItems := map[string]*bucketAccumulator{}

	for _, a := range activities {
		if a.ActorID != "" {
			key := a.ArtifactActionKey()
			index, ok := actorIndex[key]
			if !ok {
				index = map[string]int{}
				actorIndex[key] = index
			}
			at, ok := index[a.ActorID]
			if !ok {
				at = len(leaderboards[key])
				index[a.ActorID] = at
				leaderboards[key] = append(leaderboards[key], domain.ActorCount{ActorID: a.ActorID})
			}
			leaderboards[key][at].Count++
		}

		if a.HasPriority() {
			priorities[a.Priority]++
		}

		if a.InitiativeID != nil && *a.InitiativeID != "" {
			acc, ok := initiatives[*a.InitiativeID]
			if !ok {
				acc = newBucketAccumulator()
				initiatives[*a.InitiativeID] = acc
			}
			// Initiatives do not track phase per activity.
			acc.observe(a, false)
		}
		if a.LaunchItemID != nil && *a.LaunchItemID != "" {
			acc, ok := launchItems[*a.LaunchItemID]
			if !ok {
				acc = newBucketAccumulator()
				launchItems[*a.LaunchItemID] = acc
			}
			acc.observe(a, true)
		}
	}

	grouped := domain.GroupedActivities{
		TopActors:   make(map[string][]domain.ActorCount, len(leaderboards)),
		Priorities:  make([]domain.PriorityCount, 0, len(priorities)),
		Initiatives: finalizeBuckets(initiatives),
		LaunchItems: finalizeBuckets(launchItems),
	}
	for key, counts := range leaderboards {
		grouped.TopActors[key] = capLeaderboard(counts)
	}
	for priority, count := range priorities {
		grouped.Priorities = append(grouped.Priorities, domain.PriorityCount{Priority: priority, Count: count})
	}
	sort.Slice(grouped.Priorities, func(i, j int) bool {
		return grouped.Priorities[i].Priority > grouped.Priorities[j].Priority
	})
	return grouped
}

// capLeaderboard orders one leaderboard descending by count (stable, so
// equal-count actors keep first-occurrence order), keeps the top entries, and
// folds the remainder into the synthetic others row unless its sum is zero.
func capLeaderboard(counts []domain.ActorCount) []domain.ActorCount {
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) <= domain.TopActorLimit {
		return counts
	}
	others := 0
	for _, entry := range counts[domain.TopActorLimit:] {
		others += entry.Count
	}
	top := counts[:domain.TopActorLimit:domain.TopActorLimit]
	if others == 0 {
		return top
	}
	return append(top, domain.ActorCount{ActorID: domain.OtherActorsID, Count: others})
}

// finalizeBuckets converts accumulators into rollups sorted by bucket id,
// collapsing each distinct-actor set into its count.
func finalizeBuckets(buckets map[string]*bucketAccumulator) []domain.BucketRollup {
	out := make([]domain.BucketRollup, 0, len(buckets))
	for id, acc := range buckets {
		out = append(out, domain.BucketRollup{
			ID:          id,
			Artifacts:   acc.artifacts,
			Phases:      acc.phases,
			ActorCount:  len(acc.actors),
			EffortTotal: acc.effort,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
