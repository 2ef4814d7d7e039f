// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/tomtom215/landmark/internal/logging"
)

// serverErrorBody is the generic failure body shared with the API handlers.
const serverErrorBody = `{"message":"Server Error"}`

// Recoverer turns a handler panic into the generic 500 response and logs
// the stack trace. http.ErrAbortHandler is re-panicked so net/http can
// abort the connection as intended.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			logging.Ctx(r.Context()).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("Recovered from handler panic")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(serverErrorBody))
		}()

		next.ServeHTTP(w, r)
	})
}
