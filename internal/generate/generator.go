// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package generate turns the finished catalog index and rating aggregate
// into ranked recommendation files, one per taxonomy value, plus two
// mandatory fallback files and the master manifest. All artifacts are
// fully regenerated on every run; there is no partial regeneration.
package generate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/filmatlas/filmatlas/internal/catalog"
	"github.com/filmatlas/filmatlas/internal/models"
	"github.com/filmatlas/filmatlas/internal/userstats"
)

const (
	// DefaultTopN is the ranked list cap per generated file.
	DefaultTopN = 20

	// segmentMinMembers drops segments with fewer members than this.
	segmentMinMembers = 3

	// genreMinItems drops genres with fewer indexed items than this.
	genreMinItems = 5

	// popularMinRatings is the minimum rating count for the popular fallback.
	popularMinRatings = 3

	// acclaimedMinHigh is the minimum high-rating count for the acclaimed fallback.
	acclaimedMinHigh = 2

	// PopularTag and AcclaimedTag name the two fallback files.
	PopularTag   = "popular"
	AcclaimedTag = "acclaimed"
)

// File pairs a generated recommendation file with its on-disk name.
type File struct {
	Name    string
	Content models.RecommendationFile
}

// Output is the result of one generation run.
type Output struct {
	Files    []File
	Manifest models.Manifest
}

// Generator produces recommendation files from the finished aggregates.
type Generator struct {
	topN   int
	now    func() time.Time
	logger zerolog.Logger
}

// New creates a generator with the given ranked list cap.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(topN int, logger zerolog.Logger) *Generator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Generator{
		topN:   topN,
		now:    time.Now,
		logger: logger.With().Str("component", "generate").Logger(),
	}
}

// Generate runs the four taxonomy passes and the fallback pass, then
// builds the manifest from exactly the files that were emitted. A
// taxonomy value whose threshold is unmet, or whose ranked list is
// empty, produces no file and no manifest entry.
func (g *Generator) Generate(ix *catalog.Index, us *userstats.Stats) (*Output, error) {
	if ix == nil || us == nil {
		return nil, fmt.Errorf("generate: nil aggregate")
	}

	out := &Output{}

	g.segmentPass(out, ix, us)
	g.moodPass(out, ix, us)
	g.genrePass(out, ix, us)
	g.eraPass(out, ix, us)
	g.fallbackPass(out, ix, us)

	out.Manifest = g.buildManifest(out.Files, ix, us)

	g.logger.Info().
		Int("files", len(out.Files)).
		Int("movies", ix.TotalMovies()).
		Msg("generation complete")

	return out, nil
}

// emit appends a file unless its ranked list is empty.
func (g *Generator) emit(out *Output, name string, file models.RecommendationFile) {
	if len(file.Recommendations) == 0 && !file.Meta.IsFallback {
		g.logger.Debug().Str("file", name).Msg("no candidates, file skipped")
		return
	}
	out.Files = append(out.Files, File{Name: name, Content: file})
}

// segmentPass emits one file per segment with enough members, ranked by
// how many of the segment's members rated each item highly.
func (g *Generator) segmentPass(out *Output, ix *catalog.Index, us *userstats.Stats) {
	for _, segment := range sortedKeys(us.Segments) {
		seg := us.Segments[segment]
		if len(seg.Users) < segmentMinMembers {
			g.logger.Debug().Str("segment", segment).Int("members", len(seg.Users)).
				Msg("segment below member threshold, skipped")
			continue
		}

		counts := make(map[string]int, len(seg.HighRated))
		for _, id := range seg.HighRated {
			counts[id]++
		}

		ordered := sortedKeys(counts)
		sort.SliceStable(ordered, func(i, j int) bool {
			return counts[ordered[i]] > counts[ordered[j]]
		})

		recs := make([]models.Recommendation, 0, g.topN)
		for _, itemID := range ordered {
			summary, indexed := ix.Lookup[itemID]
			if !indexed {
				continue
			}
			if len(recs) == g.topN {
				break
			}

			avg := 0.0
			total := 0
			if r, ok := us.Ratings[itemID]; ok && r.Count > 0 {
				avg = r.Avg()
				total = r.Count
			}
			pct := float64(counts[itemID]) / float64(len(seg.Users)) * 100

			recs = append(recs, buildRec(len(recs)+1, itemID, summary,
				fmt.Sprintf("%d%% of %s users rated this 4+ stars. Average rating: %.1f/5.0",
					int(pct), segment, avg),
				models.RecStats{
					AvgRating:        round2(avg),
					TotalRatings:     total,
					SegmentHighCount: counts[itemID],
				}))
		}

		file := models.RecommendationFile{
			Meta: models.FileMeta{
				Tag:              segment,
				Type:             models.DimensionSegment,
				Description:      fmt.Sprintf("Movies highly rated by %s users", segment),
				MatchKeywords:    g.segmentKeywords(segment, us.Preferences[segment]),
				GeneratedAt:      g.now().UTC(),
				CandidateCount:   len(counts),
				SegmentUserCount: len(seg.Users),
			},
			DiscoveryQuestions: segmentQuestions(segment),
			Recommendations:    recs,
		}
		g.emit(out, models.Filename(models.DimensionSegment, segment), file)
	}
}

// segmentKeywords derives the match keywords for a segment file: the tag
// itself plus the segment's top preferred genres and moods.
func (g *Generator) segmentKeywords(segment string, prefs *userstats.TagPrefs) []string {
	keywords := []string{segment, strings.ReplaceAll(segment, "_", " ")}
	if prefs != nil {
		for _, genre := range topCounted(prefs.Genres, 3) {
			keywords = append(keywords, strings.ToLower(genre))
		}
		for _, mood := range topCounted(prefs.Moods, 3) {
			keywords = append(keywords, strings.ToLower(mood))
		}
	}
	return dedupKeywords(keywords)
}

// topCounted returns up to n keys ordered by count descending, name
// ascending on ties.
func topCounted(counts map[string]int, n int) []string {
	keys := sortedKeys(counts)
	sort.SliceStable(keys, func(i, j int) bool {
		return counts[keys[i]] > counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// moodPass emits one file per fixed mood group, pooling items that carry
// any of the group's underlying mood tags.
func (g *Generator) moodPass(out *Output, ix *catalog.Index, us *userstats.Stats) {
	for _, group := range moodGroups {
		var candidates []string
		pooled := make(map[string]struct{})
		for _, tag := range group.tags {
			for _, id := range ix.ByMood[tag] {
				if _, dup := pooled[id]; dup {
					continue
				}
				pooled[id] = struct{}{}
				candidates = append(candidates, id)
			}
		}

		keywords := append([]string{group.name}, group.tags...)
		file := g.rankedFile(ix, us, candidates, models.FileMeta{
			Tag:            group.name,
			Type:           models.DimensionMood,
			Description:    fmt.Sprintf("Movies perfect for a %s mood", group.name),
			MatchKeywords:  dedupKeywords(keywords),
			GeneratedAt:    g.now().UTC(),
			CandidateCount: len(pooled),
		}, func(item rankedItem) string {
			return fmt.Sprintf("Perfect for a %s mood. Rated %.1f/5.0 by %d users.",
				group.name, item.avg, item.count)
		})
		file.DiscoveryQuestions = moodQuestions(group)

		g.emit(out, models.Filename(models.DimensionMood, group.name), file)
	}
}

// genrePass emits one file per genre that has enough indexed items.
func (g *Generator) genrePass(out *Output, ix *catalog.Index, us *userstats.Stats) {
	for _, genre := range sortedKeys(ix.Genres) {
		if ix.Genres[genre] < genreMinItems {
			g.logger.Debug().Str("genre", genre).Int("items", ix.Genres[genre]).
				Msg("genre below item threshold, skipped")
			continue
		}

		candidates := ix.ByGenre[genre]
		displayed := genre
		file := g.rankedFile(ix, us, candidates, models.FileMeta{
			Tag:            genre,
			Type:           models.DimensionGenre,
			Description:    fmt.Sprintf("Top %s movies", genre),
			MatchKeywords:  dedupKeywords([]string{strings.ToLower(genre), genre}),
			GeneratedAt:    g.now().UTC(),
			CandidateCount: len(candidates),
		}, func(item rankedItem) string {
			return fmt.Sprintf("Top-rated %s movie. Average rating: %.1f/5.0", displayed, item.avg)
		})
		file.DiscoveryQuestions = genreQuestions(genre)

		g.emit(out, models.Filename(models.DimensionGenre, genre), file)
	}
}

// eraPass emits one file per era; eras carry no minimum-count filter.
func (g *Generator) eraPass(out *Output, ix *catalog.Index, us *userstats.Stats) {
	for _, era := range sortedKeys(ix.Eras) {
		candidates := ix.ByEra[era]
		displayed := era
		file := g.rankedFile(ix, us, candidates, models.FileMeta{
			Tag:            era,
			Type:           models.DimensionEra,
			Description:    fmt.Sprintf("Top movies from the %s era", era),
			MatchKeywords:  dedupKeywords([]string{strings.ToLower(era), era}),
			GeneratedAt:    g.now().UTC(),
			CandidateCount: len(candidates),
		}, func(item rankedItem) string {
			return fmt.Sprintf("Top-rated %s movie. Average rating: %.1f/5.0", displayed, item.avg)
		})
		file.DiscoveryQuestions = eraQuestions(era)

		g.emit(out, models.Filename(models.DimensionEra, era), file)
	}
}

// rankedFile runs the shared ranking primitive over the candidates and
// materializes a recommendation file with the given metadata.
func (g *Generator) rankedFile(ix *catalog.Index, us *userstats.Stats, candidates []string,
	meta models.FileMeta, why func(rankedItem) string) models.RecommendationFile {

	ranked := rankByRatings(candidates, us.Ratings)
	if len(ranked) > g.topN {
		ranked = ranked[:g.topN]
	}

	recs := make([]models.Recommendation, 0, len(ranked))
	for _, item := range ranked {
		summary, indexed := ix.Lookup[item.itemID]
		if !indexed {
			continue
		}
		recs = append(recs, buildRec(len(recs)+1, item.itemID, summary, why(item),
			models.RecStats{
				AvgRating:       round2(item.avg),
				HighRatingCount: item.highCount,
				TotalRatings:    item.count,
			}))
	}

	return models.RecommendationFile{Meta: meta, Recommendations: recs}
}

// fallbackPass emits exactly two taxonomy-independent files. They are
// written even when empty so a cold-start query always resolves.
func (g *Generator) fallbackPass(out *Output, ix *catalog.Index, us *userstats.Stats) {
	out.Files = append(out.Files,
		File{Name: models.Filename(models.DimensionFallback, PopularTag), Content: g.fallbackPopular(ix, us)},
		File{Name: models.Filename(models.DimensionFallback, AcclaimedTag), Content: g.fallbackAcclaimed(ix, us)},
	)
}

// fallbackPopular ranks all sufficiently-rated items by average score.
func (g *Generator) fallbackPopular(ix *catalog.Index, us *userstats.Stats) models.RecommendationFile {
	var ranked []rankedItem
	for _, id := range sortedKeys(us.Ratings) {
		r := us.Ratings[id]
		if r.Count < popularMinRatings {
			continue
		}
		ranked = append(ranked, rankedItem{itemID: id, avg: r.Avg(), highCount: r.HighCount, count: r.Count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].avg != ranked[j].avg {
			return ranked[i].avg > ranked[j].avg
		}
		return ranked[i].count > ranked[j].count
	})

	candidates := len(ranked)
	if len(ranked) > g.topN {
		ranked = ranked[:g.topN]
	}

	recs := make([]models.Recommendation, 0, len(ranked))
	for _, item := range ranked {
		summary, indexed := ix.Lookup[item.itemID]
		if !indexed {
			continue
		}
		recs = append(recs, buildRec(len(recs)+1, item.itemID, summary,
			fmt.Sprintf("Highly rated movie with %.1f/5.0 average from %d users.", item.avg, item.count),
			models.RecStats{AvgRating: round2(item.avg), TotalRatings: item.count}))
	}

	return models.RecommendationFile{
		Meta: models.FileMeta{
			Tag:            PopularTag,
			Type:           models.DimensionFallback,
			Description:    "Most popular movies - use when no specific match found",
			MatchKeywords:  []string{},
			GeneratedAt:    g.now().UTC(),
			IsFallback:     true,
			CandidateCount: candidates,
		},
		Recommendations: recs,
	}
}

// fallbackAcclaimed ranks all items with enough high ratings by
// high-rating count.
func (g *Generator) fallbackAcclaimed(ix *catalog.Index, us *userstats.Stats) models.RecommendationFile {
	var ranked []rankedItem
	for _, id := range sortedKeys(us.Ratings) {
		r := us.Ratings[id]
		if r.HighCount < acclaimedMinHigh {
			continue
		}
		ranked = append(ranked, rankedItem{itemID: id, avg: r.Avg(), highCount: r.HighCount, count: r.Count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].highCount != ranked[j].highCount {
			return ranked[i].highCount > ranked[j].highCount
		}
		return ranked[i].avg > ranked[j].avg
	})

	candidates := len(ranked)
	if len(ranked) > g.topN {
		ranked = ranked[:g.topN]
	}

	recs := make([]models.Recommendation, 0, len(ranked))
	for _, item := range ranked {
		summary, indexed := ix.Lookup[item.itemID]
		if !indexed {
			continue
		}
		recs = append(recs, buildRec(len(recs)+1, item.itemID, summary,
			fmt.Sprintf("Critically acclaimed with %d high ratings. Average: %.1f/5.0", item.highCount, item.avg),
			models.RecStats{AvgRating: round2(item.avg), HighRatingCount: item.highCount, TotalRatings: item.count}))
	}

	return models.RecommendationFile{
		Meta: models.FileMeta{
			Tag:            AcclaimedTag,
			Type:           models.DimensionFallback,
			Description:    "Most acclaimed movies - use when no specific match found",
			MatchKeywords:  []string{},
			GeneratedAt:    g.now().UTC(),
			IsFallback:     true,
			CandidateCount: candidates,
		},
		Recommendations: recs,
	}
}

// buildManifest records every emitted file plus the global totals.
// Taxonomy values that produced no file never appear in it.
func (g *Generator) buildManifest(files []File, ix *catalog.Index, us *userstats.Stats) models.Manifest {
	manifest := models.Manifest{
		GeneratedAt:              g.now().UTC(),
		TotalMoviesIndexed:       ix.TotalMovies(),
		TotalUsersAnalyzed:       us.TotalUsers(),
		TotalRecommendationFiles: len(files),
		GenresFound:              sortedKeys(ix.Genres),
		MoodsFound:               sortedKeys(ix.Moods),
		ErasFound:                sortedKeys(ix.Eras),
	}

	for _, segment := range sortedKeys(us.Segments) {
		if len(us.Segments[segment].Users) >= segmentMinMembers {
			manifest.SegmentsFound = append(manifest.SegmentsFound, segment)
		}
	}

	for _, f := range files {
		keywords := f.Content.Meta.MatchKeywords
		if f.Content.Meta.IsFallback {
			keywords = []string{}
		}
		manifest.Files = append(manifest.Files, models.ManifestFile{
			Filename:      f.Name,
			Type:          f.Content.Meta.Type,
			Tag:           f.Content.Meta.Tag,
			Description:   f.Content.Meta.Description,
			MatchKeywords: keywords,
			ItemCount:     len(f.Content.Recommendations),
			IsFallback:    f.Content.Meta.IsFallback,
		})
	}

	return manifest
}

// buildRec copies the display fields from a catalog summary into one
// ranked recommendation entry.
func buildRec(rank int, itemID string, summary models.MovieSummary, why string, stats models.RecStats) models.Recommendation {
	return models.Recommendation{
		Rank:             rank,
		ItemID:           itemID,
		Title:            summary.Title,
		Year:             summary.Year,
		Director:         summary.Director,
		Genre:            summary.Genre,
		Mood:             summary.Mood,
		Era:              summary.Era,
		DescriptionBrief: summary.Description,
		WhyRecommended:   why,
		Stats:            stats,
	}
}
