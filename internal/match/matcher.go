// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package match resolves a recommendation query against the generated
// artifacts in three tiers: direct tag lookup on the structured fields,
// keyword scoring of free text against the manifest's match keywords, and
// finally the popular fallback when nothing else applies. The matcher
// reads artifacts only; it never recomputes rankings.
package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/filmatlas/filmatlas/internal/models"
)

// DefaultLimit caps the merged recommendation list when the query does
// not set its own limit.
const DefaultLimit = 10

// Query is one recommendation request. The structured fields accept
// comma-separated multi-values; FreeText is only consulted when no
// structured field produced a match.
type Query struct {
	Segment  string `json:"segment,omitempty"`
	Mood     string `json:"mood,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Era      string `json:"era,omitempty"`
	FreeText string `json:"free_text,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Empty reports whether the query carries no usable signal at all.
func (q *Query) Empty() bool {
	return q.Segment == "" && q.Mood == "" && q.Genre == "" && q.Era == "" &&
		strings.TrimSpace(q.FreeText) == ""
}

// MatchedFile records one artifact the matcher selected and why.
type MatchedFile struct {
	Filename string           `json:"filename"`
	Type     models.Dimension `json:"type"`
	Tag      string           `json:"tag"`

	// KeywordScore is set for keyword-tier matches only.
	KeywordScore int `json:"keyword_score,omitempty"`
}

// SourcedRecommendation is one merged recommendation with the artifact
// it came from.
type SourcedRecommendation struct {
	models.Recommendation

	SourceType models.Dimension `json:"source_type"`
	SourceTag  string           `json:"source_tag"`
}

// Result is the matcher's answer to one query.
type Result struct {
	MatchedFiles    []MatchedFile           `json:"matched_files"`
	Recommendations []SourcedRecommendation `json:"recommendations"`
	FallbackUsed    bool                    `json:"fallback_used"`
}

// Matcher resolves queries against a loaded manifest.
type Matcher struct {
	manifest *models.Manifest
	loader   Loader
	logger   zerolog.Logger
}

// New creates a matcher over the given manifest and artifact loader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(manifest *models.Manifest, loader Loader, logger zerolog.Logger) *Matcher {
	return &Matcher{
		manifest: manifest,
		loader:   loader,
		logger:   logger.With().Str("component", "match").Logger(),
	}
}

// Match resolves one query. Selection order is structured dimensions
// first (segment, mood, genre, era, each in the query's own value order),
// then keyword matches by score, then the popular fallback. Merged
// recommendations are deduplicated by item id keeping the first
// occurrence, and truncated to the limit.
func (m *Matcher) Match(q Query) (*Result, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	selected := m.directMatches(q)

	if len(selected) == 0 {
		selected = m.keywordMatches(q.FreeText)
	}

	fallback := false
	if len(selected) == 0 {
		fallback = true
		if f, ok := m.manifest.FallbackFile("popular"); ok {
			selected = append(selected, MatchedFile{Filename: f.Filename, Type: f.Type, Tag: f.Tag})
		}
	}

	result := &Result{MatchedFiles: selected, FallbackUsed: fallback}

	seen := make(map[string]struct{})
	for _, mf := range selected {
		if len(result.Recommendations) == limit {
			break
		}

		file, err := m.loader.LoadFile(mf.Filename)
		if err != nil {
			return nil, err
		}
		for i := range file.Recommendations {
			if len(result.Recommendations) == limit {
				break
			}
			rec := file.Recommendations[i]
			if _, dup := seen[rec.ItemID]; dup {
				continue
			}
			seen[rec.ItemID] = struct{}{}
			result.Recommendations = append(result.Recommendations, SourcedRecommendation{
				Recommendation: rec,
				SourceType:     mf.Type,
				SourceTag:      mf.Tag,
			})
		}
	}

	m.logger.Debug().
		Int("files", len(result.MatchedFiles)).
		Int("recommendations", len(result.Recommendations)).
		Bool("fallback", result.FallbackUsed).
		Msg("query resolved")

	return result, nil
}

// directMatches resolves the structured fields against the manifest's
// per-dimension tags. Values are compared exactly and case-sensitively;
// unknown values are skipped, not errors.
func (m *Matcher) directMatches(q Query) []MatchedFile {
	var out []MatchedFile
	out = m.appendDimension(out, models.DimensionSegment, q.Segment)
	out = m.appendDimension(out, models.DimensionMood, q.Mood)
	out = m.appendDimension(out, models.DimensionGenre, q.Genre)
	out = m.appendDimension(out, models.DimensionEra, q.Era)
	return out
}

func (m *Matcher) appendDimension(out []MatchedFile, d models.Dimension, raw string) []MatchedFile {
	if raw == "" {
		return out
	}
	byTag := m.manifest.FilesByDimension(d)
	for _, value := range splitValues(raw) {
		f, ok := byTag[value]
		if !ok {
			m.logger.Debug().Str("dimension", d.String()).Str("value", value).
				Msg("unknown tag value, skipped")
			continue
		}
		out = append(out, MatchedFile{Filename: f.Filename, Type: f.Type, Tag: f.Tag})
	}
	return out
}

// splitValues splits a comma-separated field and trims whitespace.
func splitValues(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// keywordMatches scores the free text against every non-fallback file's
// match keywords. The text is lowercased and split on non-alphanumeric
// runes; a keyword counts when every one of its own tokens appears in
// the query tokens, so multi-word keywords match regardless of the
// separators the query used. Files with a positive score are returned
// by score descending, manifest order on ties.
func (m *Matcher) keywordMatches(freeText string) []MatchedFile {
	tokens := tokenize(freeText)
	if len(tokens) == 0 {
		return nil
	}

	var out []MatchedFile
	for _, f := range m.manifest.Files {
		if f.IsFallback {
			continue
		}
		score := 0
		for _, kw := range f.MatchKeywords {
			if keywordPresent(kw, tokens) {
				score++
			}
		}
		if score > 0 {
			out = append(out, MatchedFile{
				Filename:     f.Filename,
				Type:         f.Type,
				Tag:          f.Tag,
				KeywordScore: score,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].KeywordScore > out[j].KeywordScore
	})
	return out
}

// tokenize lowercases the text and splits it on non-alphanumeric runes.
func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}

// keywordPresent reports whether every token of the keyword appears in
// the query tokens.
func keywordPresent(keyword string, tokens map[string]struct{}) bool {
	parts := strings.FieldsFunc(strings.ToLower(keyword), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if _, ok := tokens[p]; !ok {
			return false
		}
	}
	return true
}
