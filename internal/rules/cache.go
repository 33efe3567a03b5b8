package rules

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
	"sync"

	"github.com/PaesslerAG/gval"
	"github.com/charmbracelet/log"

	"github.com/stelvio-labs/worklens/internal/domain"
)

// CompiledRule binds one bucket id to its compiled predicate. A rule that
// failed to parse keeps its compile error and never matches.
type CompiledRule struct {
	BucketID string
	Err      error
	eval     gval.Evaluable
}

// Match evaluates the predicate against an activity evaluation view. Only an
// exact boolean true counts as a match; compile errors, evaluation errors,
// and non-boolean results all report no match.
func (r CompiledRule) Match(env map[string]any) bool {
	if r.eval == nil {
		return false
	}
	value, err := r.eval(context.Background(), env)
	if err != nil {
		return false
	}
	matched, ok := value.(bool)
	return ok && matched
}

// Cache holds the compiled predicates for each rule category, keyed by a
// content hash of the category's rule strings so an unchanged rule set is
// never recompiled. Compile swaps a category's predicate list wholesale under
// the lock, so readers never observe a half-built rule set.
type Cache struct {
	mu         sync.RWMutex
	lang       gval.Language
	categories map[domain.Category]*categoryRules
	compiles   int
}

type categoryRules struct {
	hash  string
	rules []CompiledRule
}

// NewCache returns an empty compiler cache.
func NewCache() *Cache {
	return &Cache{
		lang:       Language(),
		categories: map[domain.Category]*categoryRules{},
	}
}

// Compile builds predicates for every bucket with a non-empty rule string.
// When the content hash of the given rule set equals the category's stored
// hash the call is a no-op. Otherwise the category's whole predicate list is
// rebuilt in bucket-id order; a rule that fails to parse is kept as a
// never-matching entry and does not abort the rebuild.
func (c *Cache) Compile(category domain.Category, mappers map[string]string) error {
	if !domain.IsValidCategory(category) {
		return domain.ErrInvalidCategory
	}
	hash := contentHash(mappers)

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.categories[category]; ok && existing.hash == hash {
		return nil
	}

	ids := make([]string, 0, len(mappers))
	for id, rule := range mappers {
		if strings.TrimSpace(rule) == "" {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	compiled := make([]CompiledRule, 0, len(ids))
	for _, id := range ids {
		c.compiles++
		eval, err := c.lang.NewEvaluable(mappers[id])
		if err != nil {
			log.Warn("activity mapper failed to compile", "category", category, "bucket", id, "error", err)
			compiled = append(compiled, CompiledRule{BucketID: id, Err: err})
			continue
		}
		compiled = append(compiled, CompiledRule{BucketID: id, eval: eval})
	}
	c.categories[category] = &categoryRules{hash: hash, rules: compiled}
	return nil
}

// Rules returns the category's compiled rules in their compile order.
func (c *Cache) Rules(category domain.Category) []CompiledRule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.categories[category]
	if !ok {
		return nil
	}
	return slices.Clone(entry.rules)
}

// CompileCount returns how many individual rule compilations have run. A
// repeated Compile with an unchanged rule set leaves the count untouched.
func (c *Cache) CompileCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.compiles
}

// Reset drops every category's predicates and content hash.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = map[domain.Category]*categoryRules{}
}

// contentHash hashes the rule set independent of map iteration order. The
// bucket id participates so the same expression moving to another bucket
// still forces a recompile.
func contentHash(mappers map[string]string) string {
	lines := make([]string, 0, len(mappers))
	for id, rule := range mappers {
		if strings.TrimSpace(rule) == "" {
			continue
		}
		lines = append(lines, id+"\x1f"+rule)
	}
	slices.Sort(lines)
	sum := sha256.Sum256([]byte(strings.Join(lines, "\x1e")))
	return hex.EncodeToString(sum[:])
}
