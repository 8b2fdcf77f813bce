// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package userstats builds the durable rating aggregate by folding rating
// chunks one at a time against a fully-built catalog index.
//
// Rating totals accumulate for every event regardless of the catalog;
// tag-preference attribution only happens for high ratings whose item is
// present in the index. That asymmetry is deliberate: rating aggregation
// is catalog-independent, preference attribution is not.
package userstats

import (
	"sort"

	"github.com/filmatlas/filmatlas/internal/catalog"
	"github.com/filmatlas/filmatlas/internal/chunk"
	"github.com/filmatlas/filmatlas/internal/models"
)

// SegmentStats tracks one segment's membership and the items its members
// rated highly. HighRated holds one entry per high rating, so the same
// item repeats when several members rated it highly.
type SegmentStats struct {
	Users     []string `json:"users"`
	HighRated []string `json:"high_rated_movies"`
}

// ItemRating accumulates rating totals for one item.
type ItemRating struct {
	TotalScore float64 `json:"total_score"`
	Count      int     `json:"count"`
	HighCount  int     `json:"high_count"`
}

// Avg returns the mean score, or 0 when the item has no ratings.
func (r *ItemRating) Avg() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.TotalScore / float64(r.Count)
}

// TagPrefs counts the taxonomy tags of highly-rated catalog items per
// segment.
type TagPrefs struct {
	Genres map[string]int `json:"genres"`
	Moods  map[string]int `json:"moods"`
	Eras   map[string]int `json:"eras"`
}

func newTagPrefs() *TagPrefs {
	return &TagPrefs{
		Genres: make(map[string]int),
		Moods:  make(map[string]int),
		Eras:   make(map[string]int),
	}
}

// Stats is the durable rating aggregate.
type Stats struct {
	Segments    map[string]*SegmentStats `json:"user_segments"`
	Ratings     map[string]*ItemRating   `json:"movie_ratings"`
	Preferences map[string]*TagPrefs     `json:"segment_preferences"`

	// ProcessedChunks lists the chunk ids already folded in.
	ProcessedChunks []string `json:"processed_chunks"`
}

// New returns an empty rating aggregate.
func New() *Stats {
	return &Stats{
		Segments:    make(map[string]*SegmentStats),
		Ratings:     make(map[string]*ItemRating),
		Preferences: make(map[string]*TagPrefs),
	}
}

// Processed reports whether the chunk has already been folded in.
func (s *Stats) Processed(chunkID string) bool {
	for _, id := range s.ProcessedChunks {
		if id == chunkID {
			return true
		}
	}
	return false
}

// Apply folds one ratings chunk into the aggregate, consulting the
// finished catalog index for preference attribution. Re-applying an
// already processed chunk is a no-op. Users within a chunk are applied
// in sorted id order so repeated rebuilds produce identical documents.
func (s *Stats) Apply(c *chunk.RatingsChunk, ix *catalog.Index) error {
	if s.Processed(c.ID) {
		return nil
	}

	userIDs := make([]string, 0, len(c.Users))
	for id := range c.Users {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	for _, userID := range userIDs {
		rec := c.Users[userID]
		s.applyUser(userID, &rec, ix)
	}

	s.ProcessedChunks = append(s.ProcessedChunks, c.ID)
	return nil
}

// applyUser registers one user's segment membership and rating events.
func (s *Stats) applyUser(userID string, rec *models.UserRecord, ix *catalog.Index) {
	segments := rec.EffectiveSegments()

	for _, seg := range segments {
		s.segment(seg).Users = append(s.segment(seg).Users, userID)
	}

	for i := range rec.Scores {
		s.applyRating(&rec.Scores[i], segments, ix)
	}
}

// applyRating accumulates one rating event. Totals accumulate
// unconditionally; high ratings additionally credit every effective
// segment, and feed tag preferences only when the item is indexed.
func (s *Stats) applyRating(ev *models.RatingEvent, segments []string, ix *catalog.Index) {
	rating, ok := s.Ratings[ev.ItemID]
	if !ok {
		rating = &ItemRating{}
		s.Ratings[ev.ItemID] = rating
	}
	rating.TotalScore += ev.Score
	rating.Count++

	if !ev.IsHigh() {
		return
	}
	rating.HighCount++

	for _, seg := range segments {
		s.segment(seg).HighRated = append(s.segment(seg).HighRated, ev.ItemID)
	}

	summary, indexed := ix.Lookup[ev.ItemID]
	if !indexed {
		// Rated but not in the catalog: totals above still count,
		// preference attribution is skipped.
		return
	}

	for _, seg := range segments {
		prefs, ok := s.Preferences[seg]
		if !ok {
			prefs = newTagPrefs()
			s.Preferences[seg] = prefs
		}
		for _, g := range summary.Genre {
			prefs.Genres[g]++
		}
		for _, m := range summary.Mood {
			prefs.Moods[m]++
		}
		prefs.Eras[summary.Era]++
	}
}

// segment returns the stats bucket for a segment, creating it on first use.
func (s *Stats) segment(tag string) *SegmentStats {
	seg, ok := s.Segments[tag]
	if !ok {
		seg = &SegmentStats{}
		s.Segments[tag] = seg
	}
	return seg
}

// TotalUsers returns the number of segment memberships across all
// segments. Users carrying several tags count once per tag, matching the
// manifest's users-analyzed total.
func (s *Stats) TotalUsers() int {
	total := 0
	for _, seg := range s.Segments {
		total += len(seg.Users)
	}
	return total
}
