package app

import (
	"github.com/stelvio-labs/worklens/internal/domain"
	"github.com/stelvio-labs/worklens/internal/rules"
)

// Classification holds every bucket id whose rule matched an activity, per
// category, in predicate compile order.
type Classification struct {
	Initiatives []string
	LaunchItems []string
}

// Classifier evaluates compiled activity-mapper rules against activities. It
// is stateless apart from the injected compiler cache and always re-evaluates
// when invoked; skip-if-already-classified policy lives in Annotate.
type Classifier struct {
	cache *rules.Cache
}

// NewClassifier constructs a classifier reading from the given cache.
func NewClassifier(cache *rules.Cache) *Classifier {
	return &Classifier{cache: cache}
}

// Classify evaluates the activity against every compiled rule in both
// categories and collects the bucket ids of rules returning exactly true.
// Multiple matches are legitimate; callers wanting a single bucket take the
// first element.
func (c *Classifier) Classify(a domain.Activity) Classification {
	env := a.Env()
	return Classification{
		Initiatives: matchingBuckets(c.cache.Rules(domain.CategoryInitiative), env),
		LaunchItems: matchingBuckets(c.cache.Rules(domain.CategoryLaunchItem), env),
	}
}

// Annotate assigns first-match bucket ids to the activity's unclassified
// fields and reports whether anything changed. A nil field is eligible; an
// empty string means a user explicitly unset the bucket and is left alone,
// as is any existing assignment. When no rule matches, the field stays nil.
func (c *Classifier) Annotate(a *domain.Activity) bool {
	needsInitiative := a.InitiativeID == nil
	needsLaunchItem := a.LaunchItemID == nil
	if !needsInitiative && !needsLaunchItem {
		return false
	}

	classification := c.Classify(*a)
	changed := false
	if needsInitiative && len(classification.Initiatives) > 0 {
		id := classification.Initiatives[0]
		a.InitiativeID = &id
		changed = true
	}
	if needsLaunchItem && len(classification.LaunchItems) > 0 {
		id := classification.LaunchItems[0]
		a.LaunchItemID = &id
		changed = true
	}
	return changed
}

func matchingBuckets(compiled []rules.CompiledRule, env map[string]any) []string {
	var matched []string
	for _, rule := range compiled {
		if rule.Match(env) {
			matched = append(matched, rule.BucketID)
		}
	}
	return matched
}
