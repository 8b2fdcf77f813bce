// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package models

// HighRatingThreshold is the score at or above which a rating counts as
// "high". It feeds segment preference attribution and the acclaimed
// fallback ranking.
const HighRatingThreshold = 4.0

// GeneralSegment is the synthetic segment assigned to users that declare
// no membership tags.
const GeneralSegment = "general"

// RatingEvent is a single user rating of a catalog item.
type RatingEvent struct {
	// ItemID references a catalog item. It may legitimately reference an
	// item absent from the index; such ratings still count toward totals.
	ItemID string `json:"item_id" validate:"required"`

	// Score is the rating value on a 0-5 scale.
	Score float64 `json:"score" validate:"gte=0,lte=5"`

	// Comment is the optional free-text remark.
	Comment string `json:"comment,omitempty"`
}

// UserRecord is one user's entry in a ratings chunk file. The user ID is
// the key of the enclosing chunk object, not a field of the record.
type UserRecord struct {
	// Tags are the declared segment memberships. A null or empty list
	// means the user belongs to the synthetic "general" segment.
	Tags []string `json:"tags"`

	// Scores is the ordered sequence of rating events.
	Scores []RatingEvent `json:"scores" validate:"dive"`
}

// EffectiveSegments resolves the segments a user contributes to: the
// declared tags, or {"general"} when none are declared.
func (u *UserRecord) EffectiveSegments() []string {
	if len(u.Tags) == 0 {
		return []string{GeneralSegment}
	}
	return u.Tags
}

// IsHigh reports whether the rating clears the high threshold.
func (r *RatingEvent) IsHigh() bool {
	return r.Score >= HighRatingThreshold
}
