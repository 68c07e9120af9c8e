package registry

import (
	"slices"
	"strings"

	"github.com/thoreinstein/guidelines/internal/manifest"
)

// SearchOptions configures tool search filtering.
type SearchOptions struct {
	// Category restricts results to one category. Empty matches all.
	Category string
}

// Match is a search hit.
type Match struct {
	Tool  *manifest.Manifest
	Score int
}

// Search finds tools matching query. Matching is case-insensitive against
// the name, aliases, tags, display name and description. An empty query
// returns every tool (subject to filters) in registry order. Results are
// sorted by score, ties keeping registry order.
func (r *Registry) Search(query string, opts SearchOptions) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	category := strings.ToLower(opts.Category)

	var results []Match
	for _, m := range r.Tools() {
		if category != "" && m.Category != category {
			continue
		}
		score := scoreMatch(m, query)
		if query == "" || score > 0 {
			results = append(results, Match{Tool: m, Score: score})
		}
	}

	slices.SortStableFunc(results, func(a, b Match) int {
		return b.Score - a.Score
	})

	return results
}

// scoreMatch returns a score indicating match quality.
// Higher scores indicate better matches.
//
// Scoring:
//   - 100: Exact name match
//   - 90: Exact alias match
//   - 75: Name starts with query (prefix match)
//   - 50: Name contains query
//   - 40: An alias or tag contains query
//   - 25: Display name or description contains query
//   - 0: No match or empty query
func scoreMatch(m *manifest.Manifest, query string) int {
	if query == "" {
		return 0
	}

	name := strings.ToLower(m.Name)
	switch {
	case name == query:
		return 100
	case slices.Contains(m.Aliases, query):
		return 90
	case strings.HasPrefix(name, query):
		return 75
	case strings.Contains(name, query):
		return 50
	}

	for _, s := range append(slices.Clone(m.Aliases), m.Tags...) {
		if strings.Contains(strings.ToLower(s), query) {
			return 40
		}
	}

	if strings.Contains(strings.ToLower(m.DisplayName), query) ||
		strings.Contains(strings.ToLower(m.Description), query) {
		return 25
	}

	return 0
}
