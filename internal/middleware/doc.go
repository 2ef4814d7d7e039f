// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

/*
Package middleware provides the HTTP middleware used by the API router.

Every middleware has the chi signature func(http.Handler) http.Handler.

Key Components:

  - RequestID: accepts or generates X-Request-ID and stores it, with a new
    correlation id, in the request context for logging.Ctx
  - Recoverer: converts handler panics into 500 {"message":"Server Error"}
  - RequestLogger: one zerolog line per request, warn level above the slow
    request threshold
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - Compression: gzip via github.com/klauspost/compress

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLogger(time.Second))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

RequestID must come first so that every later log line carries the id.
*/
package middleware
