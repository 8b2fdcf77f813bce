// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package chunk loads one chunk file at a time: a catalog chunk (array of
// movies) or a ratings chunk (map of user id to rating record). The reader
// never holds more than the chunk being parsed; accumulation happens in the
// catalog and userstats packages.
//
// A chunk that fails to parse or validate is rejected whole, with the chunk
// identity in the error, so a fold is never applied partially.
package chunk

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"github.com/filmatlas/filmatlas/internal/models"
	"github.com/filmatlas/filmatlas/internal/validation"
)

// CatalogChunk is one parsed catalog chunk file.
type CatalogChunk struct {
	// ID identifies the chunk for idempotence tracking. It is the base
	// filename, which carries the chunk sequence number.
	ID string

	// Movies is the ordered sequence of catalog entries.
	Movies []models.Movie
}

// RatingsChunk is one parsed ratings chunk file.
type RatingsChunk struct {
	// ID identifies the chunk for idempotence tracking.
	ID string

	// Users maps user id to the user's rating record.
	Users map[string]models.UserRecord
}

// ID derives the chunk identity from a chunk file path.
func ID(path string) string {
	return filepath.Base(path)
}

// ReadCatalog loads and validates a single catalog chunk file.
func ReadCatalog(path string) (*CatalogChunk, error) {
	id := ID(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", id, err)
	}

	var movies []models.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("chunk %s: parse: %w", id, err)
	}

	for i := range movies {
		if verr := validation.ValidateStruct(&movies[i]); verr != nil {
			return nil, fmt.Errorf("chunk %s: movie %d (%s): %w", id, i, movies[i].ItemID, verr)
		}
	}

	return &CatalogChunk{ID: id, Movies: movies}, nil
}

// ReadRatings loads and validates a single ratings chunk file.
func ReadRatings(path string) (*RatingsChunk, error) {
	id := ID(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", id, err)
	}

	var users map[string]models.UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("chunk %s: parse: %w", id, err)
	}

	for userID, rec := range users {
		if verr := validation.ValidateStruct(&rec); verr != nil {
			return nil, fmt.Errorf("chunk %s: user %s: %w", id, userID, verr)
		}
	}

	return &RatingsChunk{ID: id, Users: users}, nil
}

// List returns the chunk files in dir matching the glob pattern, sorted
// by filename so sequence-numbered chunks apply in order.
func List(dir, pattern string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("list chunks %q: %w", pattern, err)
	}
	sort.Strings(paths)
	return paths, nil
}
