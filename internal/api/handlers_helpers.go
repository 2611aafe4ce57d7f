// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bgpwatch/internal/backend"
	"github.com/tomtom215/bgpwatch/internal/commands"
	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/models"
	"github.com/tomtom215/bgpwatch/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue escapes control characters so request values cannot
// forge log lines.
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

// respondJSON writes response uncached. Use respondCached for read
// endpoints that dashboards poll.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	if w.Header().Get("Cache-Control") == "" {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondCached is respondSuccess with revalidation. The ETag is an FNV-1a
// hash of data and total only, since the envelope metadata carries a fresh
// timestamp on every response. A request whose If-None-Match matches gets
// 304 and no body.
func respondCached(w http.ResponseWriter, r *http.Request, data interface{}, total int) {
	payload, err := json.Marshal(data)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to encode response", err)
		return
	}

	etag := generateETag(strconv.AppendInt(append(payload, '|'), int64(total), 10))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	respondSuccess(w, json.RawMessage(payload), total)
}

// generateETag returns a strong ETag (quoted) for data.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// etagMatches reports whether an If-None-Match header lists etag. Weak
// validators compare equal to their strong form.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// respondSuccess wraps data in a success envelope. total is the store size.
func respondSuccess(w http.ResponseWriter, data interface{}, total int) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now(), Total: total},
	})
}

// respondError sends an error envelope and logs err when non-nil.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}
	respondAPIError(w, status, &models.APIError{Code: code, Message: message})
}

func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}

// respondNotification answers a command. Successful commands return the
// notification as data. Failures map by kind:
//
//	ValidationError            400 VALIDATION_ERROR (409 UPLOAD_IN_PROGRESS)
//	TransportError, breaker    503 BACKEND_UNAVAILABLE
//	TransportError             502 BACKEND_ERROR
//	ParseError                 502 BACKEND_RESPONSE_INVALID
func respondNotification(w http.ResponseWriter, n commands.Notification) {
	w.Header().Set("X-Command-ID", n.ID)
	if n.Success {
		respondSuccess(w, n, 0)
		return
	}

	status, code := notificationStatus(n.Err)
	respondAPIError(w, status, &models.APIError{
		Code:    code,
		Message: n.Message,
		Details: map[string]interface{}{
			"command": n.Command,
			"id":      n.ID,
		},
	})
}

func notificationStatus(err error) (int, string) {
	var (
		ve *commands.ValidationError
		te *commands.TransportError
		pe *commands.ParseError
	)
	switch {
	case errors.Is(err, commands.ErrUploadInFlight):
		return http.StatusConflict, "UPLOAD_IN_PROGRESS"
	case errors.As(err, &ve):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.As(err, &pe):
		return http.StatusBadGateway, "BACKEND_RESPONSE_INVALID"
	case backend.IsRejected(err):
		return http.StatusServiceUnavailable, "BACKEND_UNAVAILABLE"
	case errors.As(err, &te):
		return http.StatusBadGateway, "BACKEND_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// validateRequest validates v with go-playground/validator and returns the
// VALIDATION_ERROR form, or nil.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeJSONBody decodes a bounded JSON body into v, writing a 400 on
// failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body too large", nil)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body", nil)
		return false
	}
	return true
}
