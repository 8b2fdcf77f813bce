// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/filmatlas/filmatlas/internal/match"
	"github.com/filmatlas/filmatlas/internal/metrics"
)

// handleHealth reports liveness and whether a manifest is present.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"state": "ok"}
	if _, err := match.LoadManifest(s.artifactsDir); err != nil {
		status["state"] = "degraded"
		status["detail"] = "no manifest, run a build"
	}
	respondJSON(w, r, http.StatusOK, status)
}

// handleManifest returns the master manifest as generated.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	manifest, err := match.LoadManifest(s.artifactsDir)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "NO_MANIFEST",
			"recommendation artifacts not generated yet", err)
		return
	}
	respondJSON(w, r, http.StatusOK, manifest)
}

// handleMatch resolves one query from the URL parameters. The manifest
// is re-read per request so a finished build is picked up without a
// restart.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	manifest, err := match.LoadManifest(s.artifactsDir)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "NO_MANIFEST",
			"recommendation artifacts not generated yet", err)
		return
	}

	query := match.Query{
		Segment:  r.URL.Query().Get("segment"),
		Mood:     r.URL.Query().Get("mood"),
		Genre:    r.URL.Query().Get("genre"),
		Era:      r.URL.Query().Get("era"),
		FreeText: r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, perr := strconv.Atoi(raw)
		if perr != nil || limit < 1 {
			respondError(w, r, http.StatusBadRequest, "INVALID_LIMIT",
				"limit must be a positive integer", perr)
			return
		}
		query.Limit = limit
	}

	matcher := match.New(manifest, match.NewDirLoader(s.artifactsDir), s.logger)

	start := time.Now()
	result, err := matcher.Match(query)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "MATCH_FAILED",
			"failed to resolve query", err)
		return
	}
	metrics.RecordMatch(matchTier(result), time.Since(start))

	respondJSON(w, r, http.StatusOK, result)
}

// matchTier labels the resolution tier for metrics.
func matchTier(result *match.Result) string {
	switch {
	case result.FallbackUsed:
		return "fallback"
	case len(result.MatchedFiles) > 0 && result.MatchedFiles[0].KeywordScore > 0:
		return "keyword"
	default:
		return "direct"
	}
}
