package domain

import (
	"slices"
	"strings"
)

// Category identifies a rule category that activities are classified into.
type Category string

// Category values.
const (
	CategoryInitiative Category = "initiative"
	CategoryLaunchItem Category = "launchItem"
)

var validCategories = []Category{CategoryInitiative, CategoryLaunchItem}

// Categories returns every rule category in canonical order.
func Categories() []Category {
	return slices.Clone(validCategories)
}

// IsValidCategory reports whether the category is known.
func IsValidCategory(category Category) bool {
	return slices.Contains(validCategories, category)
}

// Bucket is a named classification target (an initiative or a launch item).
// ActivityMapper holds the user-authored boolean rule expression; a bucket
// without a rule simply never matches.
type Bucket struct {
	ID             string `json:"id"`
	Key            string `json:"key,omitempty"`
	Label          string `json:"label,omitempty"`
	Color          string `json:"color,omitempty"`
	ActivityMapper string `json:"activityMapper,omitempty"`
}

// NewBucket validates and canonicalizes a bucket definition.
func NewBucket(in Bucket) (Bucket, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Key = strings.TrimSpace(in.Key)
	in.Label = strings.TrimSpace(in.Label)
	in.Color = strings.TrimSpace(in.Color)
	in.ActivityMapper = strings.TrimSpace(in.ActivityMapper)
	if in.ID == "" {
		return Bucket{}, ErrInvalidID
	}
	if in.Key == "" {
		in.Key = in.ID
	}
	return in, nil
}
