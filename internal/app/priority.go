package app

import (
	"regexp"
	"strings"

	"github.com/stelvio-labs/worklens/internal/domain"
)

// ticketPattern matches ticket references like "ABC-123".
var ticketPattern = regexp.MustCompile(`[A-Z][A-Z0-9]*-\d+`)

// InferPriority derives a priority level for an activity lacking an explicit
// one by finding a ticket reference in its metadata and looking it up in the
// ticket priority table.
//
// The scan stops at the first reference found, whether or not the table
// contains it: an issue key is authoritative, then the pull request ref, then
// each commit message in order. A reference whose lookup misses yields
// UnknownPriority for the activity rather than continuing to later sources.
func InferPriority(table map[string]int, meta *domain.Metadata) int {
	if meta == nil {
		return domain.UnknownPriority
	}
	if meta.Issue != nil {
		if key := strings.TrimSpace(meta.Issue.Key); key != "" {
			return lookupTicket(table, key)
		}
	}
	if meta.PullRequest != nil {
		if ref := ticketPattern.FindString(meta.PullRequest.Ref); ref != "" {
			return lookupTicket(table, ref)
		}
	}
	for _, commit := range meta.Commits {
		if ref := ticketPattern.FindString(commit.Message); ref != "" {
			return lookupTicket(table, ref)
		}
	}
	return domain.UnknownPriority
}

func lookupTicket(table map[string]int, key string) int {
	if priority, ok := table[key]; ok {
		return priority
	}
	return domain.UnknownPriority
}
