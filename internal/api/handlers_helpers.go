// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/models"
	"github.com/tomtom215/taptodine/internal/validation"
)

// maxBodyBytes bounds request bodies of the store and checkout surfaces.
const maxBodyBytes = 64 << 10

var errEmptyBody = errors.New("request body is empty")

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response. Responses are per tenant and per
// visitor, so nothing is cacheable by shared caches.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends the {"error": message} envelope and logs err when set.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logging.Error().Int("status", status).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}
	respondJSON(w, status, models.ErrorResponse{Error: message})
}

// decodeJSON reads a bounded JSON body into v and validates it. On failure
// the 400 response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err == nil && len(body) == 0 {
		err = errEmptyBody
	}
	if err == nil {
		err = json.Unmarshal(body, v)
	}
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Rejected request body")
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		respondError(w, http.StatusBadRequest, verr.Error(), nil)
		return false
	}
	return true
}
