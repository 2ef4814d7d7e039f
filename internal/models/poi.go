// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package models

// GeometryRecord is the stored position of a point-of-interest.
//
// Latitude and Longitude are nil when the coordinate is unresolved. A record
// with either coordinate nil is considered incomplete.
type GeometryRecord struct {
	ID        string   `json:"id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Incomplete reports whether either coordinate is unresolved.
// Each coordinate is checked independently.
func (g GeometryRecord) Incomplete() bool {
	return g.Latitude == nil || g.Longitude == nil
}

// AttributeRecord is the stored descriptive data of a point-of-interest.
// It correlates with a GeometryRecord by ID; no referential integrity is enforced.
type AttributeRecord struct {
	ID          string  `json:"id"`
	Category    string  `json:"type"`
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"reviews"`
}

// MergedRecord is a geometry record joined with the attribute record sharing
// its ID. Attribute fields are omitted when no attribute record matched.
type MergedRecord struct {
	ID          string   `json:"id"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Category    *string  `json:"type,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int64   `json:"reviews,omitempty"`
}

// Merge builds a MergedRecord from a geometry and an optional attribute record.
// Pass nil when no attribute record matched.
func Merge(g GeometryRecord, a *AttributeRecord) MergedRecord {
	m := MergedRecord{
		ID:        g.ID,
		Latitude:  g.Latitude,
		Longitude: g.Longitude,
	}
	if a != nil {
		category := a.Category
		rating := a.Rating
		reviews := a.ReviewCount
		m.Category = &category
		m.Rating = &rating
		m.ReviewCount = &reviews
	}
	return m
}

// HasAttributes reports whether an attribute record was merged in.
func (m MergedRecord) HasAttributes() bool {
	return m.Category != nil
}

// Float returns a pointer to v. Convenience for building records with coordinates.
func Float(v float64) *float64 {
	return &v
}
