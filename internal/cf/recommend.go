// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package cf

import (
	"fmt"
	"sort"

	"github.com/filmatlas/filmatlas/internal/models"
)

// RankedItem is one collaborative-filtering recommendation: the
// similarity-weighted mean rating of an item the query user has not
// rated yet.
type RankedItem struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// Recommend builds a ranked recommendation list for the user from the
// ratings of similar users. Neighbors with non-positive similarity are
// ignored. Each candidate item's score is the similarity-weighted
// average of the neighbors' ratings: sum(rating*similarity) over
// sum(similarity), taken across the positive-similarity neighbors that
// rated it. Items the query user has already rated (with a non-zero
// score) are excluded.
func Recommend(data Dataset, user string, numNeighbors int) ([]RankedItem, error) {
	own, ok := data[user]
	if !ok {
		return nil, fmt.Errorf("cannot find %s in the dataset", user)
	}

	neighbors, err := FindSimilarUsers(data, user, numNeighbors)
	if err != nil {
		return nil, err
	}

	weighted := make(map[string]float64)
	simSums := make(map[string]float64)

	for _, nb := range neighbors {
		if nb.Score <= 0 {
			continue
		}
		for item, rating := range data[nb.UserID] {
			if seen, rated := own[item]; rated && seen != 0 {
				continue
			}
			weighted[item] += rating * nb.Score
			simSums[item] += nb.Score
		}
	}

	ranked := make([]RankedItem, 0, len(weighted))
	for item, total := range weighted {
		ranked = append(ranked, RankedItem{ItemID: item, Score: total / simSums[item]})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ItemID < ranked[j].ItemID
	})

	return ranked, nil
}

// DatasetFromRecords flattens per-user rating records into the dense
// matrix the similarity functions consume. Later events for the same
// item overwrite earlier ones.
func DatasetFromRecords(records map[string]models.UserRecord) Dataset {
	data := make(Dataset, len(records))
	for user, rec := range records {
		ratings := make(map[string]float64, len(rec.Scores))
		for _, ev := range rec.Scores {
			ratings[ev.ItemID] = ev.Score
		}
		data[user] = ratings
	}
	return data
}
