package wiki

import (
	"sort"
	"strings"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// RankPages orders pages with a thumbnail by how closely their title matches name.
// Pages without a thumbnail are dropped. Ties keep search order.
func RankPages(name string, pages []contract.WikiPage) []contract.WikiPage {
	query := Fold(name)

	type ranked struct {
		page  contract.WikiPage
		score int
	}
	candidates := make([]ranked, 0, len(pages))
	for _, p := range pages {
		if p.Thumbnail == "" {
			continue
		}
		candidates = append(candidates, ranked{page: p, score: matchScore(query, Fold(p.Title))})
	}

	// Lower score = better match
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	out := make([]contract.WikiPage, len(candidates))
	for i, c := range candidates {
		out[i] = c.page
	}
	return out
}

func matchScore(query, title string) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	case fuzzy.Match(query, title):
		return 100 + fuzzy.LevenshteinDistance(query, title)
	default:
		return 1000 + fuzzy.LevenshteinDistance(query, title)
	}
}
