// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package models

// descriptionBriefLimit is the maximum rune length of the truncated
// description stored in a MovieSummary.
const descriptionBriefLimit = 200

// summaryCastLimit is the number of leading cast members kept in a summary.
const summaryCastLimit = 3

// Movie is one catalog entry as it appears in a catalog chunk file.
// Movies are immutable once indexed.
type Movie struct {
	// ItemID is the unique content identifier across the whole catalog.
	ItemID string `json:"item_id" validate:"required"`

	// Title is the display title.
	Title string `json:"title" validate:"required"`

	// Year is the release year.
	Year int `json:"year" validate:"gte=0"`

	// Content holds the free-text attributes.
	Content MovieContent `json:"content"`

	// Tags holds the taxonomy tag sets.
	Tags MovieTags `json:"tags" validate:"required"`
}

// MovieContent holds the descriptive attributes of a movie.
type MovieContent struct {
	// Description is the full free-text description.
	Description string `json:"description"`

	// Director is the credited director.
	Director string `json:"director"`

	// Cast is the ordered cast list.
	Cast []string `json:"cast,omitempty"`
}

// MovieTags holds the taxonomy tag sets of a movie.
// Genre and Mood must be non-empty; Era is a single value.
type MovieTags struct {
	Genre []string `json:"genre" validate:"required,min=1"`
	Mood  []string `json:"mood" validate:"required,min=1"`
	Era   string   `json:"era" validate:"required"`
}

// MovieSummary is the compact per-item lookup record stored in the
// catalog index and copied into generated recommendation files.
type MovieSummary struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Director    string   `json:"director"`
	Cast        []string `json:"cast,omitempty"`
	Genre       []string `json:"genre"`
	Mood        []string `json:"mood"`
	Era         string   `json:"era"`
}

// Summarize builds the compact lookup record for a movie: the description
// is truncated and only the leading cast members are kept.
func (m *Movie) Summarize() MovieSummary {
	desc := m.Content.Description
	if runes := []rune(desc); len(runes) > descriptionBriefLimit {
		desc = string(runes[:descriptionBriefLimit])
	}

	cast := m.Content.Cast
	if len(cast) > summaryCastLimit {
		cast = cast[:summaryCastLimit]
	}

	return MovieSummary{
		Title:       m.Title,
		Year:        m.Year,
		Description: desc,
		Director:    m.Content.Director,
		Cast:        append([]string(nil), cast...),
		Genre:       append([]string(nil), m.Tags.Genre...),
		Mood:        append([]string(nil), m.Tags.Mood...),
		Era:         m.Tags.Era,
	}
}
