// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package api

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/models"
	"github.com/tomtom215/landmark/internal/validation"
)

// LoadData handles POST /api/load-data.
//
// The geometry batch is written before the attribute batch. If the
// attribute batch fails the geometries stay stored and the client still
// receives the generic 500.
//
// @Summary Bulk load locations and metadata
// @Description Inserts every location, then every metadata record. Duplicate ids fail the request.
// @Tags Data
// @Accept json
// @Produce json
// @Param request body models.LoadRequest true "Locations and metadata to insert"
// @Success 200 {object} models.MessageResponse "Data Loaded Successfully"
// @Failure 500 {object} models.MessageResponse "Server Error"
// @Router /load-data [post]
func (h *Handler) LoadData(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req models.LoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondServerError(w, r, "decode load request", err)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		logging.Ctx(r.Context()).Warn().
			Strs("fields", verr.Fields()).
			Msg("Rejected load request")
		respondServerError(w, r, "validate load request", fmt.Errorf("%w: %w", errInvalidRequest, verr))
		return
	}

	geometries, attributes := req.Records()
	if err := h.svc.Load(r.Context(), geometries, attributes); err != nil {
		respondServerError(w, r, "load", err)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, models.MessageResponse{Message: models.MessageLoaded})
}

// Locations handles GET /api/locations.
//
// @Summary List merged locations
// @Description Every location joined with its metadata. Locations without metadata carry only id and coordinates.
// @Tags Data
// @Produce json
// @Success 200 {array} models.MergedRecord
// @Failure 500 {object} models.MessageResponse "Server Error"
// @Router /locations [get]
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Locations(r.Context())
	if err != nil {
		respondServerError(w, r, "locations", err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, records)
}

// CountPerType handles GET /api/count-per-type.
//
// @Summary Count places per type
// @Tags Analytics
// @Produce json
// @Success 200 {array} models.CategoryCount
// @Failure 500 {object} models.MessageResponse "Server Error"
// @Router /count-per-type [get]
func (h *Handler) CountPerType(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.CountPerCategory(r.Context())
	if err != nil {
		respondServerError(w, r, "count per type", err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, counts)
}

// AverageRating handles GET /api/average-rating.
//
// @Summary Average rating per type
// @Tags Analytics
// @Produce json
// @Success 200 {array} models.CategoryRating
// @Failure 500 {object} models.MessageResponse "Server Error"
// @Router /average-rating [get]
func (h *Handler) AverageRating(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.svc.AverageRatingPerCategory(r.Context())
	if err != nil {
		respondServerError(w, r, "average rating", err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, ratings)
}

// TopReviewed handles GET /api/top-reviewed. The body is the literal null
// when no attribute records exist.
//
// @Summary Most reviewed place
// @Description Returns null when no metadata has been loaded.
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.AttributeRecord
// @Failure 500 {object} models.MessageResponse "Server Error"
// @Router /top-reviewed [get]
func (h *Handler) TopReviewed(w http.ResponseWriter, r *http.Request) {
	top, err := h.svc.TopReviewed(r.Context())
	if err != nil {
		respondServerError(w, r, "top reviewed", err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, top)
}

// Incomplete handles GET /api/incomplete.
//
// @Summary Locations missing a coordinate
// @Tags Analytics
// @Produce json
// @Success 200 {array} models.GeometryRecord
// @Failure 500 {object} models.MessageResponse "Server Error"
// @Router /incomplete [get]
func (h *Handler) Incomplete(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Incomplete(r.Context())
	if err != nil {
		respondServerError(w, r, "incomplete", err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, records)
}

// Summary handles GET /api/summary.
//
// @Summary Every dashboard aggregate in one response
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.Summary
// @Failure 500 {object} models.MessageResponse "Server Error"
// @Router /summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		respondServerError(w, r, "summary", err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, sum)
}
