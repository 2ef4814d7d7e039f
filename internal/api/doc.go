// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

/*
Package api provides the HTTP handlers and chi router for the dashboard.

# Endpoints

	POST /api/load-data       bulk load {locations, metadata}
	GET  /api/locations       geometries merged with attributes
	GET  /api/count-per-type  [{_id, count}]
	GET  /api/average-rating  [{_id, avgRating}]
	GET  /api/top-reviewed    attribute record or null
	GET  /api/incomplete      geometries missing a coordinate
	GET  /api/summary         all four aggregates in one response
	GET  /api/health/live     liveness probe
	GET  /api/health/ready    readiness probe, 503 when the store is down
	GET  /metrics             Prometheus exposition
	GET  /swagger/*           OpenAPI document (doc.json) and Swagger UI

Every failure on a data endpoint, including a malformed or invalid load
body, is answered with status 500 and {"message":"Server Error"}. The cause
is logged with the request id and never sent to the client.

# Middleware

SetupChi installs, in order: request id, real IP, panic recovery, request
logging, CORS, Prometheus metrics and gzip compression. Data endpoints are
additionally rate limited per client IP with go-chi/httprate.
*/
package api
