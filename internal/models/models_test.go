// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package models

import (
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "action", "action"},
		{"uppercase lowered", "Action", "action"},
		{"hyphen to underscore", "Sci-Fi", "sci_fi"},
		{"space to underscore", "Film Noir", "film_noir"},
		{"mixed separators", "Neo-Noir Thriller", "neo_noir_thriller"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.in); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		dim  Dimension
		tag  string
		want string
	}{
		{"genre", DimensionGenre, "Sci-Fi", "genre_sci_fi.json"},
		{"segment", DimensionSegment, "gamer", "segment_gamer.json"},
		{"mood", DimensionMood, "exciting", "mood_exciting.json"},
		{"era", DimensionEra, "2020s", "era_2020s.json"},
		{"fallback", DimensionFallback, "popular", "fallback_popular.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.dim, tt.tag); got != tt.want {
				t.Errorf("Filename(%v, %q) = %q, want %q", tt.dim, tt.tag, got, tt.want)
			}
		})
	}
}

func TestParseDimensionRoundTrip(t *testing.T) {
	for _, d := range []Dimension{DimensionSegment, DimensionMood, DimensionGenre, DimensionEra, DimensionFallback} {
		parsed, err := ParseDimension(d.String())
		if err != nil {
			t.Fatalf("ParseDimension(%q): %v", d.String(), err)
		}
		if parsed != d {
			t.Errorf("round trip %v -> %q -> %v", d, d.String(), parsed)
		}
	}

	if _, err := ParseDimension("galaxy"); err == nil {
		t.Error("expected error for unknown dimension")
	}
}

func TestSummarizeTruncation(t *testing.T) {
	long := strings.Repeat("x", 300)
	m := Movie{
		ItemID: "mov_001",
		Title:  "Example",
		Year:   2021,
		Content: MovieContent{
			Description: long,
			Director:    "Someone",
			Cast:        []string{"A", "B", "C", "D", "E"},
		},
		Tags: MovieTags{Genre: []string{"Drama"}, Mood: []string{"Serious"}, Era: "2020s"},
	}

	s := m.Summarize()
	if len([]rune(s.Description)) != 200 {
		t.Errorf("description length = %d, want 200", len([]rune(s.Description)))
	}
	if len(s.Cast) != 3 {
		t.Errorf("cast length = %d, want 3", len(s.Cast))
	}
	if s.Cast[2] != "C" {
		t.Errorf("cast order not preserved: %v", s.Cast)
	}
}

func TestSummarizeShortDescription(t *testing.T) {
	m := Movie{
		ItemID:  "mov_002",
		Title:   "Short",
		Content: MovieContent{Description: "brief"},
		Tags:    MovieTags{Genre: []string{"Drama"}, Mood: []string{"Serious"}, Era: "1990s"},
	}
	if got := m.Summarize().Description; got != "brief" {
		t.Errorf("description = %q, want %q", got, "brief")
	}
}

func TestEffectiveSegments(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{"no tags", nil, []string{"general"}},
		{"empty tags", []string{}, []string{"general"}},
		{"single tag", []string{"gamer"}, []string{"gamer"}},
		{"multiple tags", []string{"gamer", "parent"}, []string{"gamer", "parent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := UserRecord{Tags: tt.tags}
			got := u.EffectiveSegments()
			if len(got) != len(tt.want) {
				t.Fatalf("EffectiveSegments() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("EffectiveSegments()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIsHigh(t *testing.T) {
	tests := []struct {
		score float64
		want  bool
	}{
		{5.0, true},
		{4.0, true},
		{3.9, false},
		{0, false},
	}

	for _, tt := range tests {
		r := RatingEvent{ItemID: "mov_001", Score: tt.score}
		if got := r.IsHigh(); got != tt.want {
			t.Errorf("IsHigh(%.1f) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
