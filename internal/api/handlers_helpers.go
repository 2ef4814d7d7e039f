// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/models"
	"github.com/tomtom215/landmark/internal/store"
)

// serverErrorBody is pre-encoded so the failure path cannot itself fail.
var serverErrorBody = []byte(`{"message":"` + models.MessageServerError + `"}`)

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

// respondJSON sends a JSON response with proper headers.
func respondJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.CtxErr(ctx, err).Msg("Failed to marshal JSON response")
		writeServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to write JSON response")
	}
}

// respondServerError logs err with the request context and sends the
// generic failure body. The cause never reaches the client.
func respondServerError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if errors.Is(err, context.Canceled) {
		logging.Ctx(ctx).Debug().Str("op", op).Msg("Client went away")
	} else {
		logging.Ctx(ctx).Error().
			Str("op", op).
			Str("error_type", errorKind(err)).
			Str("error", sanitizeLogValue(err.Error())).
			Str("path", r.URL.Path).
			Msg("API Error")
	}
	writeServerError(w)
}

func writeServerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(serverErrorBody)
}

// errorKind classifies err for logs. Request problems are reported apart
// from store faults even though both answer 500.
func errorKind(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &maxErr):
		return "body_too_large"
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return "malformed_body"
	case errors.Is(err, errInvalidRequest):
		return "invalid_body"
	}
	if t := store.ErrorType(err); t != "" {
		return t
	}
	return "other"
}
