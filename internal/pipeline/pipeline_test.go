// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/filmatlas/filmatlas/internal/config"
	"github.com/filmatlas/filmatlas/internal/logging"
	"github.com/filmatlas/filmatlas/internal/match"
	"github.com/filmatlas/filmatlas/internal/store"
	"github.com/filmatlas/filmatlas/internal/userstats"
)

const catalogChunk = `[
	{
		"item_id": "mov_001",
		"title": "First",
		"year": 2020,
		"content": {"description": "d1", "director": "x"},
		"tags": {"genre": ["Action"], "mood": ["Exciting"], "era": "2010s"}
	},
	{
		"item_id": "mov_002",
		"title": "Second",
		"year": 1995,
		"content": {"description": "d2", "director": "y"},
		"tags": {"genre": ["Drama"], "mood": ["Serious"], "era": "1990s"}
	}
]`

const ratingsChunk = `{
	"u1": {"tags": ["gamer"], "scores": [{"item_id": "mov_001", "score": 4.5}]},
	"u2": {"tags": ["gamer"], "scores": [{"item_id": "mov_001", "score": 4.0}]},
	"u3": {"tags": ["gamer"], "scores": [{"item_id": "mov_001", "score": 5.0}]}
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	chunks := filepath.Join(root, "chunks")
	if err := os.MkdirAll(chunks, 0o755); err != nil {
		t.Fatal(err)
	}

	return &config.Config{
		Data: config.DataConfig{
			ChunksDir:      chunks,
			CatalogPattern: "movies_*.json",
			RatingsPattern: "user_ratings_*.json",
			StateDir:       filepath.Join(root, "state"),
		},
		Artifacts: config.ArtifactsConfig{
			Dir:  filepath.Join(root, "recommendations"),
			TopN: 20,
		},
	}
}

func writeChunk(t *testing.T, cfg *config.Config, name, content string) {
	t.Helper()
	path := filepath.Join(cfg.Data.ChunksDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeChunk(t, cfg, "movies_001.json", catalogChunk)
	writeChunk(t, cfg, "user_ratings_001.json", ratingsChunk)

	report, err := New(cfg, logging.Logger()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if report.CatalogChunksApplied != 1 || report.RatingsChunksApplied != 1 {
		t.Errorf("applied = %d/%d, want 1/1",
			report.CatalogChunksApplied, report.RatingsChunksApplied)
	}
	if report.MoviesIndexed != 2 {
		t.Errorf("movies indexed = %d, want 2", report.MoviesIndexed)
	}

	manifest, err := match.LoadManifest(cfg.Artifacts.Dir)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if manifest.TotalMoviesIndexed != 2 {
		t.Errorf("manifest movies = %d, want 2", manifest.TotalMoviesIndexed)
	}
	if _, ok := manifest.FallbackFile("popular"); !ok {
		t.Error("popular fallback missing from manifest")
	}

	// Every manifest file must exist on disk.
	for _, f := range manifest.Files {
		if _, err := os.Stat(filepath.Join(cfg.Artifacts.Dir, f.Filename)); err != nil {
			t.Errorf("manifest file %s missing: %v", f.Filename, err)
		}
	}
}

func TestBuildResumeSkipsProcessed(t *testing.T) {
	cfg := testConfig(t)
	writeChunk(t, cfg, "movies_001.json", catalogChunk)
	writeChunk(t, cfg, "user_ratings_001.json", ratingsChunk)

	p := New(cfg, logging.Logger())
	if _, err := p.Build(context.Background()); err != nil {
		t.Fatalf("first Build: %v", err)
	}

	report, err := p.Build(context.Background())
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if report.CatalogChunksApplied != 0 || report.CatalogChunksSkipped != 1 {
		t.Errorf("catalog applied/skipped = %d/%d, want 0/1",
			report.CatalogChunksApplied, report.CatalogChunksSkipped)
	}
	if report.RatingsChunksApplied != 0 || report.RatingsChunksSkipped != 1 {
		t.Errorf("ratings applied/skipped = %d/%d, want 0/1",
			report.RatingsChunksApplied, report.RatingsChunksSkipped)
	}

	// Aggregates unchanged: mov_001 still has exactly 3 ratings.
	us := userstats.New()
	if _, err := store.Load(filepath.Join(cfg.Data.StateDir, StatsStateFile), us); err != nil {
		t.Fatal(err)
	}
	if r := us.Ratings["mov_001"]; r == nil || r.Count != 3 {
		t.Errorf("mov_001 rating = %+v after rebuild, want count 3", r)
	}
}

func TestBuildIncrementalChunk(t *testing.T) {
	cfg := testConfig(t)
	writeChunk(t, cfg, "movies_001.json", catalogChunk)
	writeChunk(t, cfg, "user_ratings_001.json", ratingsChunk)

	p := New(cfg, logging.Logger())
	if _, err := p.Build(context.Background()); err != nil {
		t.Fatal(err)
	}

	writeChunk(t, cfg, "user_ratings_002.json",
		`{"u4": {"tags": ["gamer"], "scores": [{"item_id": "mov_002", "score": 4.5}]}}`)

	report, err := p.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.RatingsChunksApplied != 1 || report.RatingsChunksSkipped != 1 {
		t.Errorf("ratings applied/skipped = %d/%d, want 1/1",
			report.RatingsChunksApplied, report.RatingsChunksSkipped)
	}

	us := userstats.New()
	if _, err := store.Load(filepath.Join(cfg.Data.StateDir, StatsStateFile), us); err != nil {
		t.Fatal(err)
	}
	if r := us.Ratings["mov_002"]; r == nil || r.Count != 1 {
		t.Errorf("mov_002 rating = %+v, want count 1", r)
	}
	if got := len(us.Segments["gamer"].Users); got != 4 {
		t.Errorf("gamer members = %d, want 4", got)
	}
}

func TestBuildMalformedChunkHalts(t *testing.T) {
	cfg := testConfig(t)
	writeChunk(t, cfg, "movies_001.json", `[{"item_id":`)

	_, err := New(cfg, logging.Logger()).Build(context.Background())
	if err == nil {
		t.Fatal("expected build failure for malformed chunk")
	}

	// No state persisted for the failed fold.
	if _, serr := os.Stat(filepath.Join(cfg.Data.StateDir, CatalogStateFile)); !os.IsNotExist(serr) {
		t.Error("catalog state written despite failed chunk")
	}
}

func TestBuildRemovesStaleArtifacts(t *testing.T) {
	cfg := testConfig(t)
	writeChunk(t, cfg, "movies_001.json", catalogChunk)
	writeChunk(t, cfg, "user_ratings_001.json", ratingsChunk)

	stale := filepath.Join(cfg.Artifacts.Dir, "genre_western.json")
	if err := store.Save(stale, map[string]string{"left": "over"}); err != nil {
		t.Fatal(err)
	}

	if _, err := New(cfg, logging.Logger()).Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale artifact not removed")
	}
}
