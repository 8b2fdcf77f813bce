// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package main is the filmatlas command line entry point.
//
// Subcommands:
//
//	build    fold new chunk files into the aggregates and regenerate artifacts
//	serve    run the HTTP matcher API
//	match    resolve one query against the generated artifacts
//	similar  collaborative-filtering recommendations for one user
//
// Configuration is loaded via Koanf with layered sources (highest
// priority wins): environment variables, config file (config.yaml),
// built-in defaults. CONFIG_PATH overrides the config file location.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/filmatlas/filmatlas/internal/api"
	"github.com/filmatlas/filmatlas/internal/cf"
	"github.com/filmatlas/filmatlas/internal/chunk"
	"github.com/filmatlas/filmatlas/internal/config"
	"github.com/filmatlas/filmatlas/internal/logging"
	"github.com/filmatlas/filmatlas/internal/match"
	"github.com/filmatlas/filmatlas/internal/models"
	"github.com/filmatlas/filmatlas/internal/pipeline"
)

const usage = `Usage: filmatlas <command> [flags]

Commands:
  build    fold new chunk files into the aggregates and regenerate artifacts
  serve    run the HTTP matcher API
  match    resolve one query against the generated artifacts
  similar  collaborative-filtering recommendations for one user
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "filmatlas: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	switch os.Args[1] {
	case "build":
		err = runBuild(cfg)
	case "serve":
		err = runServe(cfg)
	case "match":
		err = runMatch(cfg, os.Args[2:])
	case "similar":
		err = runSimilar(cfg, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "filmatlas: unknown command %q\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		logging.Error().Err(err).Str("command", os.Args[1]).Msg("command failed")
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runBuild(cfg *config.Config) error {
	ctx, cancel := signalContext()
	defer cancel()

	report, err := pipeline.New(cfg, logging.Logger()).Build(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("build complete: %d catalog chunks applied (%d skipped), %d ratings chunks applied (%d skipped), %d files written, %d movies indexed in %s\n",
		report.CatalogChunksApplied, report.CatalogChunksSkipped,
		report.RatingsChunksApplied, report.RatingsChunksSkipped,
		report.FilesWritten, report.MoviesIndexed, report.Duration.Round(time.Millisecond))
	return nil
}

func runServe(cfg *config.Config) error {
	ctx, cancel := signalContext()
	defer cancel()

	return api.NewServer(cfg, logging.Logger()).Start(ctx)
}

func runMatch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	segment := fs.String("segment", "", "user segment tags, comma-separated")
	mood := fs.String("mood", "", "mood values, comma-separated")
	genre := fs.String("genre", "", "genre values, comma-separated")
	era := fs.String("era", "", "era values, comma-separated")
	freeText := fs.String("q", "", "free-text query")
	limit := fs.Int("limit", match.DefaultLimit, "maximum recommendations")
	asJSON := fs.Bool("json", false, "print the full result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	manifest, err := match.LoadManifest(cfg.Artifacts.Dir)
	if err != nil {
		return err
	}

	matcher := match.New(manifest, match.NewDirLoader(cfg.Artifacts.Dir), logging.Logger())
	result, err := matcher.Match(match.Query{
		Segment:  *segment,
		Mood:     *mood,
		Genre:    *genre,
		Era:      *era,
		FreeText: *freeText,
		Limit:    *limit,
	})
	if err != nil {
		return err
	}

	if *asJSON {
		data, merr := json.MarshalIndent(result, "", "  ")
		if merr != nil {
			return merr
		}
		fmt.Println(string(data))
		return nil
	}

	if result.FallbackUsed {
		fmt.Println("no direct match, falling back to popular movies")
	}
	for i, rec := range result.Recommendations {
		fmt.Printf("%d. %s (%d) [%s:%s]\n   %s\n",
			i+1, rec.Title, rec.Year, rec.SourceType, rec.SourceTag, rec.WhyRecommended)
	}
	return nil
}

func runSimilar(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("similar", flag.ExitOnError)
	user := fs.String("user", "", "user id to recommend for (required)")
	neighbors := fs.Int("n", 0, "number of similar users to consider (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return fmt.Errorf("similar: -user is required")
	}

	records, err := loadAllRatings(cfg)
	if err != nil {
		return err
	}
	dataset := cf.DatasetFromRecords(records)

	similar, err := cf.FindSimilarUsers(dataset, *user, *neighbors)
	if err != nil {
		return err
	}
	fmt.Printf("Users similar to %s:\n", *user)
	for _, su := range similar {
		fmt.Printf("  %s (%.2f)\n", su.UserID, su.Score)
	}

	ranked, err := cf.Recommend(dataset, *user, *neighbors)
	if err != nil {
		return err
	}
	if len(ranked) == 0 {
		fmt.Println("No recommendations possible")
		return nil
	}
	fmt.Printf("\nMovie recommendations for %s:\n", *user)
	for i, item := range ranked {
		fmt.Printf("%d. %s (%.2f)\n", i+1, item.ItemID, item.Score)
	}
	return nil
}

// loadAllRatings merges every ratings chunk into one user-record map
// for the collaborative-filtering dataset.
func loadAllRatings(cfg *config.Config) (map[string]models.UserRecord, error) {
	paths, err := chunk.List(cfg.Data.ChunksDir, cfg.Data.RatingsPattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no ratings chunks found in %s", cfg.Data.ChunksDir)
	}

	records := make(map[string]models.UserRecord)
	for _, path := range paths {
		c, err := chunk.ReadRatings(path)
		if err != nil {
			return nil, err
		}
		for id, rec := range c.Users {
			if existing, ok := records[id]; ok {
				existing.Scores = append(existing.Scores, rec.Scores...)
				records[id] = existing
				continue
			}
			records[id] = rec
		}
	}
	return records, nil
}
