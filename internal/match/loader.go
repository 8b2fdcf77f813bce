// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package match

import (
	"fmt"
	"path/filepath"

	"github.com/filmatlas/filmatlas/internal/models"
	"github.com/filmatlas/filmatlas/internal/store"
)

// ManifestName is the on-disk name of the master manifest.
const ManifestName = "index.json"

// Loader fetches generated recommendation files by manifest filename.
type Loader interface {
	LoadFile(name string) (*models.RecommendationFile, error)
}

// DirLoader reads recommendation files from the artifacts directory.
type DirLoader struct {
	dir string
}

// NewDirLoader creates a loader rooted at the artifacts directory.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{dir: dir}
}

// LoadFile reads one recommendation file. A manifest entry whose file is
// missing on disk is an integrity error, not an empty result.
func (l *DirLoader) LoadFile(name string) (*models.RecommendationFile, error) {
	var file models.RecommendationFile
	found, err := store.Load(filepath.Join(l.dir, name), &file)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("recommendation file %s listed in manifest but missing", name)
	}
	return &file, nil
}

// LoadManifest reads the master manifest from the artifacts directory.
func LoadManifest(dir string) (*models.Manifest, error) {
	var manifest models.Manifest
	found, err := store.Load(filepath.Join(dir, ManifestName), &manifest)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("manifest %s not found in %s, run a build first", ManifestName, dir)
	}
	return &manifest, nil
}
