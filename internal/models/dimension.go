// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package models

import (
	"fmt"
	"strings"
)

// Dimension is a closed enumeration of the taxonomy dimensions a
// recommendation file can be generated for. Fallback files sit outside
// the four query dimensions but share the same file shape.
type Dimension int

const (
	// DimensionSegment groups items by the user segments that rated them highly.
	DimensionSegment Dimension = iota
	// DimensionMood groups items by named mood groups.
	DimensionMood
	// DimensionGenre groups items by catalog genre.
	DimensionGenre
	// DimensionEra groups items by catalog era.
	DimensionEra
	// DimensionFallback marks the taxonomy-independent fallback files.
	DimensionFallback
)

// String returns the wire name of the dimension as it appears in file
// metadata and the manifest.
func (d Dimension) String() string {
	switch d {
	case DimensionSegment:
		return "segment"
	case DimensionMood:
		return "mood"
	case DimensionGenre:
		return "genre"
	case DimensionEra:
		return "era"
	case DimensionFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// ParseDimension converts a wire name back to a Dimension.
func ParseDimension(s string) (Dimension, error) {
	switch s {
	case "segment":
		return DimensionSegment, nil
	case "mood":
		return DimensionMood, nil
	case "genre":
		return DimensionGenre, nil
	case "era":
		return DimensionEra, nil
	case "fallback":
		return DimensionFallback, nil
	default:
		return 0, fmt.Errorf("unknown dimension %q", s)
	}
}

// MarshalJSON encodes the dimension as its wire name.
func (d Dimension) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a dimension from its wire name.
func (d *Dimension) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDimension(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Slug converts a taxonomy tag to its filename form: lowercased with
// spaces and hyphens replaced by underscores.
func Slug(tag string) string {
	s := strings.ToLower(tag)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// Filename returns the on-disk name of the recommendation file for a
// dimension/tag pair, e.g. "genre_sci_fi.json".
func Filename(d Dimension, tag string) string {
	return d.String() + "_" + Slug(tag) + ".json"
}
