// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package models

import "time"

// FileMeta describes one generated recommendation file.
type FileMeta struct {
	// Tag is the taxonomy value this file covers (e.g. "Action", "gamer").
	Tag string `json:"tag"`

	// Type is the taxonomy dimension the file was generated for.
	Type Dimension `json:"type"`

	// Description is the human-readable summary of the file.
	Description string `json:"description"`

	// MatchKeywords are the tokens the matcher scores free-text queries
	// against. Fallback files carry none.
	MatchKeywords []string `json:"match_keywords"`

	// GeneratedAt is the generation timestamp (UTC).
	GeneratedAt time.Time `json:"generated_at"`

	// IsFallback marks the two taxonomy-independent fallback files.
	IsFallback bool `json:"is_fallback,omitempty"`

	// CandidateCount is the true number of candidates considered before
	// the ranked list was truncated to the top N.
	CandidateCount int `json:"candidate_count"`

	// SegmentUserCount is the member count of the segment, for segment files.
	SegmentUserCount int `json:"user_count_in_segment,omitempty"`
}

// DiscoveryQuestion is a static per-type prompt shipped with each file
// for downstream preference elicitation.
type DiscoveryQuestion struct {
	Question        string   `json:"question"`
	PositiveSignals []string `json:"positive_signals"`
}

// RecStats carries the numeric evidence behind one ranked recommendation.
type RecStats struct {
	AvgRating       float64 `json:"avg_rating"`
	HighRatingCount int     `json:"high_rating_count,omitempty"`
	TotalRatings    int     `json:"total_ratings"`

	// SegmentHighCount is the number of segment members that rated the
	// item highly, for segment files.
	SegmentHighCount int `json:"rating_count_in_segment,omitempty"`
}

// Recommendation is one ranked entry in a recommendation file.
type Recommendation struct {
	Rank             int      `json:"rank"`
	ItemID           string   `json:"item_id"`
	Title            string   `json:"title"`
	Year             int      `json:"year"`
	Director         string   `json:"director"`
	Genre            []string `json:"genre"`
	Mood             []string `json:"mood"`
	Era              string   `json:"era"`
	DescriptionBrief string   `json:"description_brief"`
	WhyRecommended   string   `json:"why_recommended"`
	Stats            RecStats `json:"stats"`
}

// RecommendationFile is one generated artifact: metadata, discovery
// questions, and the ranked recommendation list for a taxonomy value.
type RecommendationFile struct {
	Meta               FileMeta            `json:"meta"`
	DiscoveryQuestions []DiscoveryQuestion `json:"discovery_questions,omitempty"`
	Recommendations    []Recommendation    `json:"recommendations"`
}

// ManifestFile is one entry in the master manifest, describing a
// generated file and its match surface.
type ManifestFile struct {
	Filename      string    `json:"filename"`
	Type          Dimension `json:"type"`
	Tag           string    `json:"tag"`
	Description   string    `json:"description"`
	MatchKeywords []string  `json:"match_keywords"`
	ItemCount     int       `json:"item_count"`
	IsFallback    bool      `json:"is_fallback"`
}

// Manifest is the single authoritative index of every generated file
// plus the global totals, written as index.json.
type Manifest struct {
	GeneratedAt              time.Time `json:"generated_at"`
	TotalMoviesIndexed       int       `json:"total_movies_indexed"`
	TotalUsersAnalyzed       int       `json:"total_users_analyzed"`
	TotalRecommendationFiles int       `json:"total_recommendation_files"`

	SegmentsFound []string `json:"segments_found"`
	GenresFound   []string `json:"genres_found"`
	MoodsFound    []string `json:"moods_found"`
	ErasFound     []string `json:"eras_found"`

	Files []ManifestFile `json:"files"`
}

// FilesByDimension returns the manifest entries for one dimension keyed
// by exact tag. Manifest order is retained in Files itself.
func (m *Manifest) FilesByDimension(d Dimension) map[string]ManifestFile {
	out := make(map[string]ManifestFile)
	for _, f := range m.Files {
		if f.Type == d {
			out[f.Tag] = f
		}
	}
	return out
}

// FallbackFile returns the fallback entry with the given tag, if present.
func (m *Manifest) FallbackFile(tag string) (ManifestFile, bool) {
	for _, f := range m.Files {
		if f.IsFallback && f.Tag == tag {
			return f, true
		}
	}
	return ManifestFile{}, false
}
