// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package api

import (
	"context"

	"github.com/tomtom215/landmark/internal/analytics"
	"github.com/tomtom215/landmark/internal/config"
	"github.com/tomtom215/landmark/internal/models"
)

// Service is the analytics surface the handlers depend on.
// *analytics.Service satisfies it.
type Service interface {
	Load(ctx context.Context, geometries []models.GeometryRecord, attributes []models.AttributeRecord) error
	Locations(ctx context.Context) ([]models.MergedRecord, error)
	CountPerCategory(ctx context.Context) ([]models.CategoryCount, error)
	AverageRatingPerCategory(ctx context.Context) ([]models.CategoryRating, error)
	TopReviewed(ctx context.Context) (models.Optional[models.AttributeRecord], error)
	Incomplete(ctx context.Context) ([]models.GeometryRecord, error)
	Summary(ctx context.Context) (models.Summary, error)
	Ping(ctx context.Context) error
}

var _ Service = (*analytics.Service)(nil)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor
//   - handlers_helpers.go: response helpers
//   - handlers_poi.go: bulk load and dashboard queries
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	svc          Service
	config       *config.Config
	maxBodyBytes int64
}

// NewHandler creates a new API handler. cfg may be nil in tests, in which
// case the default request body limit applies.
func NewHandler(svc Service, cfg *config.Config) *Handler {
	maxBody := int64(defaultMaxBodyBytes)
	if cfg != nil && cfg.Server.MaxBodyBytes > 0 {
		maxBody = cfg.Server.MaxBodyBytes
	}
	return &Handler{
		svc:          svc,
		config:       cfg,
		maxBodyBytes: maxBody,
	}
}

// defaultMaxBodyBytes bounds the bulk load body when no limit is configured.
const defaultMaxBodyBytes = 32 << 20
