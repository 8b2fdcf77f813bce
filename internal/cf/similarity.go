// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package cf implements user-based collaborative filtering over a small
// dense rating matrix: Pearson similarity between users, similar-user
// ranking, and a weighted recommendation list. It is independent of the
// chunked aggregation pipeline and operates on a plain ratings dataset.
package cf

import (
	"fmt"
	"math"
	"sort"
)

// Dataset maps user id to that user's item ratings.
type Dataset map[string]map[string]float64

// PearsonScore computes the Pearson correlation between two users over
// the items both have rated. It returns 0 when the users share no items
// or when either user's shared ratings have zero variance.
func PearsonScore(data Dataset, user1, user2 string) (float64, error) {
	r1, ok := data[user1]
	if !ok {
		return 0, fmt.Errorf("cannot find %s in the dataset", user1)
	}
	r2, ok := data[user2]
	if !ok {
		return 0, fmt.Errorf("cannot find %s in the dataset", user2)
	}

	var common []string
	for item := range r1 {
		if _, shared := r2[item]; shared {
			common = append(common, item)
		}
	}
	n := float64(len(common))
	if n == 0 {
		return 0, nil
	}

	var sum1, sum2, sq1, sq2, products float64
	for _, item := range common {
		a, b := r1[item], r2[item]
		sum1 += a
		sum2 += b
		sq1 += a * a
		sq2 += b * b
		products += a * b
	}

	sxy := products - sum1*sum2/n
	sxx := sq1 - sum1*sum1/n
	syy := sq2 - sum2*sum2/n

	if sxx*syy == 0 {
		return 0, nil
	}
	return sxy / math.Sqrt(sxx*syy), nil
}

// SimilarUser pairs a user id with its similarity to the query user.
type SimilarUser struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
}

// FindSimilarUsers ranks every other user by Pearson similarity to the
// given user, descending, and returns at most n entries. Ties break on
// user id ascending so repeated runs agree.
func FindSimilarUsers(data Dataset, user string, n int) ([]SimilarUser, error) {
	if _, ok := data[user]; !ok {
		return nil, fmt.Errorf("cannot find %s in the dataset", user)
	}

	scored := make([]SimilarUser, 0, len(data)-1)
	for other := range data {
		if other == user {
			continue
		}
		score, err := PearsonScore(data, user, other)
		if err != nil {
			return nil, err
		}
		scored = append(scored, SimilarUser{UserID: other, Score: score})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].UserID < scored[j].UserID
	})

	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored, nil
}
