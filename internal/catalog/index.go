// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package catalog builds the durable catalog index by folding catalog
// chunks one at a time. The index grows monotonically: tag counts, per-tag
// id lists in catalog order, and a compact per-item lookup record. No
// ranking or scoring happens here.
package catalog

import (
	"fmt"

	"github.com/filmatlas/filmatlas/internal/chunk"
	"github.com/filmatlas/filmatlas/internal/models"
)

// Index is the durable catalog aggregate. Chunk identity is recorded in
// ProcessedChunks before persisting, so re-applying a chunk after a
// resumed rebuild is a no-op.
type Index struct {
	// Genres, Moods and Eras count indexed items per tag.
	Genres map[string]int `json:"all_genres"`
	Moods  map[string]int `json:"all_moods"`
	Eras   map[string]int `json:"all_eras"`

	// ByGenre, ByMood and ByEra hold item ids per tag in catalog order.
	// An item appears once per tag it carries, not globally once.
	ByGenre map[string][]string `json:"movies_by_genre"`
	ByMood  map[string][]string `json:"movies_by_mood"`
	ByEra   map[string][]string `json:"movies_by_era"`

	// Lookup maps item id to the compact display record.
	Lookup map[string]models.MovieSummary `json:"movie_lookup"`

	// ProcessedChunks lists the chunk ids already folded in.
	ProcessedChunks []string `json:"processed_chunks"`
}

// New returns an empty catalog index.
func New() *Index {
	return &Index{
		Genres:  make(map[string]int),
		Moods:   make(map[string]int),
		Eras:    make(map[string]int),
		ByGenre: make(map[string][]string),
		ByMood:  make(map[string][]string),
		ByEra:   make(map[string][]string),
		Lookup:  make(map[string]models.MovieSummary),
	}
}

// Processed reports whether the chunk has already been folded in.
func (ix *Index) Processed(chunkID string) bool {
	for _, id := range ix.ProcessedChunks {
		if id == chunkID {
			return true
		}
	}
	return false
}

// Apply folds one catalog chunk into the index. Re-applying an already
// processed chunk returns without changing any count or list. A duplicate
// item id, within the chunk or against previously indexed chunks, is an
// integrity error and fails the fold before any mutation is applied.
func (ix *Index) Apply(c *chunk.CatalogChunk) error {
	if ix.Processed(c.ID) {
		return nil
	}

	// Integrity check up front so a failed fold leaves the index untouched.
	seen := make(map[string]struct{}, len(c.Movies))
	for i := range c.Movies {
		id := c.Movies[i].ItemID
		if _, dup := seen[id]; dup {
			return fmt.Errorf("chunk %s: duplicate item_id %q within chunk", c.ID, id)
		}
		if _, dup := ix.Lookup[id]; dup {
			return fmt.Errorf("chunk %s: duplicate item_id %q already indexed", c.ID, id)
		}
		seen[id] = struct{}{}
	}

	for i := range c.Movies {
		m := &c.Movies[i]

		for _, genre := range m.Tags.Genre {
			ix.Genres[genre]++
			ix.ByGenre[genre] = append(ix.ByGenre[genre], m.ItemID)
		}
		for _, mood := range m.Tags.Mood {
			ix.Moods[mood]++
			ix.ByMood[mood] = append(ix.ByMood[mood], m.ItemID)
		}
		ix.Eras[m.Tags.Era]++
		ix.ByEra[m.Tags.Era] = append(ix.ByEra[m.Tags.Era], m.ItemID)

		ix.Lookup[m.ItemID] = m.Summarize()
	}

	ix.ProcessedChunks = append(ix.ProcessedChunks, c.ID)
	return nil
}

// TotalMovies returns the number of indexed items.
func (ix *Index) TotalMovies() int {
	return len(ix.Lookup)
}
