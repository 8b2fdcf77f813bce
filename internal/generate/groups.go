// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package generate

import (
	"fmt"
	"strings"

	"github.com/filmatlas/filmatlas/internal/models"
)

// moodGroup names one query-facing mood and the underlying catalog mood
// tags pooled for it.
type moodGroup struct {
	name string
	tags []string
}

// moodGroups is the fixed mapping from query moods to catalog mood tags.
// Order here fixes the order of mood files in the manifest.
var moodGroups = []moodGroup{
	{name: "exciting", tags: []string{"Exciting", "Thrilling", "Action-packed", "Revolutionary"}},
	{name: "relaxing", tags: []string{"Charming", "Romantic", "Heartwarming", "Witty"}},
	{name: "intense", tags: []string{"Intense", "Suspenseful", "Psychological", "Serious"}},
	{name: "thoughtful", tags: []string{"Philosophical", "Mind-bending", "Powerful"}},
	{name: "emotional", tags: []string{"Emotional", "Hopeful", "Bittersweet", "Somber"}},
}

// segmentQuestions builds the static discovery questions for a segment file.
func segmentQuestions(segment string) []models.DiscoveryQuestion {
	return []models.DiscoveryQuestion{{
		Question:        fmt.Sprintf("Are you interested in movies that %s users typically enjoy?", segment),
		PositiveSignals: []string{segment, "yes", "interested"},
	}}
}

// moodQuestions builds the static discovery questions for a mood file.
func moodQuestions(group moodGroup) []models.DiscoveryQuestion {
	signals := []string{group.name, "yes"}
	for _, tag := range group.tags {
		signals = append(signals, strings.ToLower(tag))
	}
	return []models.DiscoveryQuestion{{
		Question:        fmt.Sprintf("Are you in the mood for something %s?", group.name),
		PositiveSignals: signals,
	}}
}

// genreQuestions builds the static discovery questions for a genre file.
func genreQuestions(genre string) []models.DiscoveryQuestion {
	return []models.DiscoveryQuestion{{
		Question:        fmt.Sprintf("Do you enjoy %s movies?", genre),
		PositiveSignals: []string{strings.ToLower(genre), "yes", "love", genre},
	}}
}

// eraQuestions builds the static discovery questions for an era file.
func eraQuestions(era string) []models.DiscoveryQuestion {
	return []models.DiscoveryQuestion{{
		Question:        fmt.Sprintf("Do you enjoy movies from the %s era?", era),
		PositiveSignals: []string{strings.ToLower(era), "yes", "love", era},
	}}
}
