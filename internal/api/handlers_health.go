// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/models"
)

// readinessTimeout bounds the store ping behind the readiness probe.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, models.HealthStatus{Status: "ok"})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only if the record store answers a ping, 503 otherwise.
//
// @Summary Readiness probe
// @Description Pings the record store with a short timeout.
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Failure 503 {object} models.HealthStatus
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	storeName := ""
	if h.config != nil {
		storeName = h.config.Store.Driver
	}

	if err := h.svc.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		respondJSON(r.Context(), w, http.StatusServiceUnavailable, models.HealthStatus{
			Status: "unavailable",
			Store:  storeName,
		})
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, models.HealthStatus{Status: "ok", Store: storeName})
}
