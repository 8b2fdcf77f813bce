// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package pipeline orchestrates a full build: fold unprocessed catalog
// chunks into the catalog index, fold unprocessed ratings chunks into
// the rating aggregate, then regenerate every recommendation artifact.
//
// Both aggregates are persisted after every chunk fold, so an
// interrupted build resumes where it stopped. Chunk application order
// is the sorted filename order of the sequence-numbered chunk files.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/filmatlas/filmatlas/internal/catalog"
	"github.com/filmatlas/filmatlas/internal/chunk"
	"github.com/filmatlas/filmatlas/internal/config"
	"github.com/filmatlas/filmatlas/internal/generate"
	"github.com/filmatlas/filmatlas/internal/match"
	"github.com/filmatlas/filmatlas/internal/metrics"
	"github.com/filmatlas/filmatlas/internal/store"
	"github.com/filmatlas/filmatlas/internal/userstats"
)

// State file names inside the configured state directory.
const (
	CatalogStateFile = "catalog_index.json"
	StatsStateFile   = "user_stats.json"
)

// Report summarizes one build run.
type Report struct {
	CatalogChunksApplied int
	CatalogChunksSkipped int
	RatingsChunksApplied int
	RatingsChunksSkipped int
	FilesWritten         int
	MoviesIndexed        int
	Duration             time.Duration
}

// Pipeline runs builds against one configuration.
type Pipeline struct {
	data      config.DataConfig
	artifacts config.ArtifactsConfig
	logger    zerolog.Logger
}

// New creates a pipeline from the application configuration.
func New(cfg *config.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		data:      cfg.Data,
		artifacts: cfg.Artifacts,
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
}

// Build runs the full rebuild. A chunk that fails to parse, validate or
// apply halts the build with the chunk identity in the error; chunks
// already folded in are skipped without re-reading their contents into
// the aggregates.
func (p *Pipeline) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	ix, err := p.buildCatalog(ctx, report)
	if err != nil {
		return nil, err
	}

	us, err := p.buildStats(ctx, ix, report)
	if err != nil {
		return nil, err
	}

	if err := p.regenerate(ix, us, report); err != nil {
		return nil, err
	}

	report.MoviesIndexed = ix.TotalMovies()
	report.Duration = time.Since(start)
	metrics.BuildDuration.Observe(report.Duration.Seconds())

	p.logger.Info().
		Int("catalog_chunks_applied", report.CatalogChunksApplied).
		Int("ratings_chunks_applied", report.RatingsChunksApplied).
		Int("files_written", report.FilesWritten).
		Int("movies_indexed", report.MoviesIndexed).
		Dur("duration", report.Duration).
		Msg("build complete")

	return report, nil
}

// buildCatalog folds every unprocessed catalog chunk into the index,
// persisting after each fold.
func (p *Pipeline) buildCatalog(ctx context.Context, report *Report) (*catalog.Index, error) {
	statePath := filepath.Join(p.data.StateDir, CatalogStateFile)

	ix := catalog.New()
	if _, err := store.Load(statePath, ix); err != nil {
		return nil, err
	}

	paths, err := chunk.List(p.data.ChunksDir, p.data.CatalogPattern)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build canceled: %w", err)
		}

		id := chunk.ID(path)
		if ix.Processed(id) {
			report.CatalogChunksSkipped++
			metrics.ChunksSkipped.WithLabelValues("catalog").Inc()
			p.logger.Debug().Str("chunk", id).Msg("catalog chunk already processed")
			continue
		}

		c, err := chunk.ReadCatalog(path)
		if err != nil {
			return nil, err
		}
		if err := ix.Apply(c); err != nil {
			return nil, err
		}
		if err := store.Save(statePath, ix); err != nil {
			return nil, err
		}

		report.CatalogChunksApplied++
		metrics.ChunksProcessed.WithLabelValues("catalog").Inc()
		p.logger.Info().Str("chunk", id).Int("movies", len(c.Movies)).
			Msg("catalog chunk applied")
	}

	return ix, nil
}

// buildStats folds every unprocessed ratings chunk into the rating
// aggregate, consulting the finished catalog index.
func (p *Pipeline) buildStats(ctx context.Context, ix *catalog.Index, report *Report) (*userstats.Stats, error) {
	statePath := filepath.Join(p.data.StateDir, StatsStateFile)

	us := userstats.New()
	if _, err := store.Load(statePath, us); err != nil {
		return nil, err
	}

	paths, err := chunk.List(p.data.ChunksDir, p.data.RatingsPattern)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build canceled: %w", err)
		}

		id := chunk.ID(path)
		if us.Processed(id) {
			report.RatingsChunksSkipped++
			metrics.ChunksSkipped.WithLabelValues("ratings").Inc()
			p.logger.Debug().Str("chunk", id).Msg("ratings chunk already processed")
			continue
		}

		c, err := chunk.ReadRatings(path)
		if err != nil {
			return nil, err
		}
		if err := us.Apply(c, ix); err != nil {
			return nil, err
		}
		if err := store.Save(statePath, us); err != nil {
			return nil, err
		}

		report.RatingsChunksApplied++
		metrics.ChunksProcessed.WithLabelValues("ratings").Inc()
		p.logger.Info().Str("chunk", id).Int("users", len(c.Users)).
			Msg("ratings chunk applied")
	}

	return us, nil
}

// regenerate rebuilds every artifact from the aggregates and removes
// files left over from previous builds that are no longer emitted.
func (p *Pipeline) regenerate(ix *catalog.Index, us *userstats.Stats, report *Report) error {
	gen := generate.New(p.artifacts.TopN, p.logger)
	out, err := gen.Generate(ix, us)
	if err != nil {
		return err
	}

	emitted := make(map[string]struct{}, len(out.Files)+1)
	emitted[match.ManifestName] = struct{}{}

	byType := make(map[string]int)
	for _, f := range out.Files {
		if err := store.Save(filepath.Join(p.artifacts.Dir, f.Name), f.Content); err != nil {
			return err
		}
		emitted[f.Name] = struct{}{}
		byType[f.Content.Meta.Type.String()]++
		report.FilesWritten++
	}

	if err := store.Save(filepath.Join(p.artifacts.Dir, match.ManifestName), out.Manifest); err != nil {
		return err
	}
	report.FilesWritten++

	for t, n := range byType {
		metrics.FilesGenerated.WithLabelValues(t).Set(float64(n))
	}

	return p.removeStale(emitted)
}

// removeStale deletes artifact-directory JSON files not produced by the
// current build, so dropped taxonomy values do not leave ghost files
// behind the manifest's back.
func (p *Pipeline) removeStale(emitted map[string]struct{}) error {
	stale, err := filepath.Glob(filepath.Join(p.artifacts.Dir, "*.json"))
	if err != nil {
		return fmt.Errorf("scan artifacts: %w", err)
	}
	for _, path := range stale {
		name := filepath.Base(path)
		if _, keep := emitted[name]; keep {
			continue
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale artifact %s: %w", name, err)
		}
		p.logger.Info().Str("file", name).Msg("stale artifact removed")
	}
	return nil
}
