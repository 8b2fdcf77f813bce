// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package catalog

import (
	"testing"

	"github.com/filmatlas/filmatlas/internal/chunk"
	"github.com/filmatlas/filmatlas/internal/models"
)

func testMovie(id, title string, genres, moods []string, era string) models.Movie {
	return models.Movie{
		ItemID: id,
		Title:  title,
		Year:   2020,
		Content: models.MovieContent{
			Description: "description of " + title,
			Director:    "Director",
		},
		Tags: models.MovieTags{Genre: genres, Mood: moods, Era: era},
	}
}

func TestApplyBuildsIndex(t *testing.T) {
	ix := New()
	c := &chunk.CatalogChunk{
		ID: "movies_001.json",
		Movies: []models.Movie{
			testMovie("mov_001", "First", []string{"Action", "Sci-Fi"}, []string{"Exciting"}, "2010s"),
			testMovie("mov_002", "Second", []string{"Action"}, []string{"Intense"}, "2010s"),
		},
	}

	if err := ix.Apply(c); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := ix.Genres["Action"]; got != 2 {
		t.Errorf("Genres[Action] = %d, want 2", got)
	}
	if got := ix.Genres["Sci-Fi"]; got != 1 {
		t.Errorf("Genres[Sci-Fi] = %d, want 1", got)
	}
	if got := len(ix.ByGenre["Action"]); got != 2 {
		t.Errorf("ByGenre[Action] has %d ids, want 2", got)
	}
	if ix.ByGenre["Action"][0] != "mov_001" || ix.ByGenre["Action"][1] != "mov_002" {
		t.Errorf("ByGenre[Action] order = %v, want catalog order", ix.ByGenre["Action"])
	}
	if got := ix.Eras["2010s"]; got != 2 {
		t.Errorf("Eras[2010s] = %d, want 2", got)
	}
	if ix.TotalMovies() != 2 {
		t.Errorf("TotalMovies = %d, want 2", ix.TotalMovies())
	}
	if !ix.Processed("movies_001.json") {
		t.Error("chunk not recorded as processed")
	}
}

func TestApplyIdempotent(t *testing.T) {
	ix := New()
	c := &chunk.CatalogChunk{
		ID: "movies_001.json",
		Movies: []models.Movie{
			testMovie("mov_001", "First", []string{"Action"}, []string{"Exciting"}, "2010s"),
		},
	}

	if err := ix.Apply(c); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if err := ix.Apply(c); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	if got := ix.Genres["Action"]; got != 1 {
		t.Errorf("Genres[Action] = %d after re-apply, want 1", got)
	}
	if got := len(ix.ByGenre["Action"]); got != 1 {
		t.Errorf("ByGenre[Action] has %d ids after re-apply, want 1", got)
	}
	if got := len(ix.ProcessedChunks); got != 1 {
		t.Errorf("ProcessedChunks has %d entries, want 1", got)
	}
}

func TestApplyDuplicateWithinChunk(t *testing.T) {
	ix := New()
	c := &chunk.CatalogChunk{
		ID: "movies_001.json",
		Movies: []models.Movie{
			testMovie("mov_001", "First", []string{"Action"}, []string{"Exciting"}, "2010s"),
			testMovie("mov_001", "Clone", []string{"Drama"}, []string{"Serious"}, "1990s"),
		},
	}

	if err := ix.Apply(c); err == nil {
		t.Fatal("expected duplicate item_id error")
	}

	// Failed fold must leave the index untouched.
	if ix.TotalMovies() != 0 {
		t.Errorf("TotalMovies = %d after failed fold, want 0", ix.TotalMovies())
	}
	if len(ix.Genres) != 0 {
		t.Errorf("Genres = %v after failed fold, want empty", ix.Genres)
	}
	if ix.Processed("movies_001.json") {
		t.Error("failed chunk recorded as processed")
	}
}

func TestApplyDuplicateAcrossChunks(t *testing.T) {
	ix := New()
	first := &chunk.CatalogChunk{
		ID: "movies_001.json",
		Movies: []models.Movie{
			testMovie("mov_001", "First", []string{"Action"}, []string{"Exciting"}, "2010s"),
		},
	}
	if err := ix.Apply(first); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	second := &chunk.CatalogChunk{
		ID: "movies_002.json",
		Movies: []models.Movie{
			testMovie("mov_002", "Second", []string{"Drama"}, []string{"Serious"}, "1990s"),
			testMovie("mov_001", "Clone", []string{"Drama"}, []string{"Serious"}, "1990s"),
		},
	}
	if err := ix.Apply(second); err == nil {
		t.Fatal("expected duplicate item_id error across chunks")
	}

	// The second chunk must not be partially applied.
	if ix.TotalMovies() != 1 {
		t.Errorf("TotalMovies = %d, want 1", ix.TotalMovies())
	}
	if _, indexed := ix.Lookup["mov_002"]; indexed {
		t.Error("mov_002 indexed despite failed fold")
	}
	if ix.Processed("movies_002.json") {
		t.Error("failed chunk recorded as processed")
	}
}

func TestApplyOrderIndependentCounts(t *testing.T) {
	a := testMovie("mov_001", "First", []string{"Action"}, []string{"Exciting"}, "2010s")
	b := testMovie("mov_002", "Second", []string{"Action"}, []string{"Intense"}, "1990s")

	forward := New()
	if err := forward.Apply(&chunk.CatalogChunk{ID: "movies_001.json", Movies: []models.Movie{a}}); err != nil {
		t.Fatal(err)
	}
	if err := forward.Apply(&chunk.CatalogChunk{ID: "movies_002.json", Movies: []models.Movie{b}}); err != nil {
		t.Fatal(err)
	}

	reverse := New()
	if err := reverse.Apply(&chunk.CatalogChunk{ID: "movies_002.json", Movies: []models.Movie{b}}); err != nil {
		t.Fatal(err)
	}
	if err := reverse.Apply(&chunk.CatalogChunk{ID: "movies_001.json", Movies: []models.Movie{a}}); err != nil {
		t.Fatal(err)
	}

	if forward.Genres["Action"] != reverse.Genres["Action"] {
		t.Errorf("genre counts differ by order: %d vs %d",
			forward.Genres["Action"], reverse.Genres["Action"])
	}
	if forward.TotalMovies() != reverse.TotalMovies() {
		t.Errorf("total movies differ by order: %d vs %d",
			forward.TotalMovies(), reverse.TotalMovies())
	}
}
