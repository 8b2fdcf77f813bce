// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package generate

import (
	"math"
	"sort"

	"github.com/filmatlas/filmatlas/internal/userstats"
)

// rankedItem is one candidate that survived ranking: it has at least one
// rating, so the average is always well-defined.
type rankedItem struct {
	itemID    string
	avg       float64
	highCount int
	count     int
}

// rankByRatings is the shared ranking primitive for the mood, genre and
// era passes: candidates without any rating are dropped, the rest are
// ordered by high-rating count descending, then average score descending,
// then item id ascending so equal items rank identically across runs.
func rankByRatings(candidates []string, ratings map[string]*userstats.ItemRating) []rankedItem {
	ranked := make([]rankedItem, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, id := range candidates {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		r, ok := ratings[id]
		if !ok || r.Count == 0 {
			continue
		}
		ranked = append(ranked, rankedItem{
			itemID:    id,
			avg:       r.Avg(),
			highCount: r.HighCount,
			count:     r.Count,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].highCount != ranked[j].highCount {
			return ranked[i].highCount > ranked[j].highCount
		}
		if ranked[i].avg != ranked[j].avg {
			return ranked[i].avg > ranked[j].avg
		}
		return ranked[i].itemID < ranked[j].itemID
	})

	return ranked
}

// round2 rounds to two decimal places for the stats block.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// sortedKeys returns the map keys in ascending order so generation
// passes iterate deterministically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// dedupKeywords removes duplicate keywords preserving first occurrence.
func dedupKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
