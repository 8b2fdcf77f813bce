// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/filmatlas/filmatlas/internal/logging"
	"github.com/filmatlas/filmatlas/internal/models"
)

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	response := &models.APIResponse{
		Status: "ok",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: requestID(r),
		},
	}

	body, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondError sends an error response in the standard envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}

	w.Header().Set("Content-Type", "application/json")

	response := &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: requestID(r),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	}

	body, merr := json.Marshal(response)
	if merr != nil {
		logging.Error().Err(merr).Msg("failed to marshal JSON error response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, werr := w.Write(body); werr != nil {
		logging.Error().Err(werr).Msg("failed to write JSON error response")
	}
}
