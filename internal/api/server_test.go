// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/filmatlas/filmatlas/internal/config"
	"github.com/filmatlas/filmatlas/internal/logging"
	"github.com/filmatlas/filmatlas/internal/match"
	"github.com/filmatlas/filmatlas/internal/models"
	"github.com/filmatlas/filmatlas/internal/store"
)

// writeArtifacts puts a minimal manifest and two files into dir.
func writeArtifacts(t *testing.T, dir string) {
	t.Helper()

	manifest := models.Manifest{
		GeneratedAt:              time.Now().UTC(),
		TotalMoviesIndexed:       2,
		TotalRecommendationFiles: 2,
		Files: []models.ManifestFile{
			{Filename: "genre_action.json", Type: models.DimensionGenre, Tag: "Action",
				MatchKeywords: []string{"action"}, ItemCount: 1},
			{Filename: "fallback_popular.json", Type: models.DimensionFallback, Tag: "popular",
				MatchKeywords: []string{}, ItemCount: 1, IsFallback: true},
		},
	}

	files := map[string]models.RecommendationFile{
		"genre_action.json": {Recommendations: []models.Recommendation{
			{Rank: 1, ItemID: "mov_001", Title: "First"},
		}},
		"fallback_popular.json": {Recommendations: []models.Recommendation{
			{Rank: 1, ItemID: "mov_002", Title: "Second"},
		}},
	}

	if err := store.Save(dir+"/"+match.ManifestName, manifest); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := store.Save(dir+"/"+name, content); err != nil {
			t.Fatal(err)
		}
	}
}

func testServer(t *testing.T, artifactsDir string) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			Timeout:         5 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
		},
		Artifacts: config.ArtifactsConfig{Dir: artifactsDir},
	}
	return NewServer(cfg, logging.Logger()).routes()
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestHandleMatchDirect(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir)
	handler := testServer(t, dir)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/match?genre=Action", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}

	var result match.Result
	data, _ := json.Marshal(resp.Data)
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.FallbackUsed {
		t.Error("fallback used for direct genre match")
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].ItemID != "mov_001" {
		t.Errorf("recommendations = %+v", result.Recommendations)
	}
}

func TestHandleMatchColdStart(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir)
	handler := testServer(t, dir)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/match", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var result match.Result
	resp := decodeResponse(t, rr)
	data, _ := json.Marshal(resp.Data)
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if !result.FallbackUsed {
		t.Error("cold start did not fall back")
	}
}

func TestHandleMatchInvalidLimit(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir)
	handler := testServer(t, dir)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/match?limit=zero", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp.Error == nil || resp.Error.Code != "INVALID_LIMIT" {
		t.Errorf("error = %+v, want INVALID_LIMIT", resp.Error)
	}
}

func TestHandleMatchNoManifest(t *testing.T) {
	handler := testServer(t, t.TempDir())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/match?genre=Action", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp.Error == nil || resp.Error.Code != "NO_MANIFEST" {
		t.Errorf("error = %+v, want NO_MANIFEST", resp.Error)
	}
}

func TestHandleManifest(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir)
	handler := testServer(t, dir)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/manifest", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var manifest models.Manifest
	resp := decodeResponse(t, rr)
	data, _ := json.Marshal(resp.Data)
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatal(err)
	}
	if manifest.TotalRecommendationFiles != 2 {
		t.Errorf("manifest files = %d, want 2", manifest.TotalRecommendationFiles)
	}
}

func TestHandleHealth(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir)
	handler := testServer(t, dir)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if id := rr.Header().Get("X-Request-ID"); id == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestHandleHealthDegradedWithoutManifest(t *testing.T) {
	handler := testServer(t, t.TempDir())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when degraded", rr.Code)
	}
	resp := decodeResponse(t, rr)
	state, _ := resp.Data.(map[string]interface{})
	if state["state"] != "degraded" {
		t.Errorf("state = %v, want degraded", state["state"])
	}
}
