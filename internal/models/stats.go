// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package models

// CategoryCount is the number of attribute records in one category.
type CategoryCount struct {
	Category string `json:"_id"`
	Count    int64  `json:"count"`
}

// CategoryRating is the arithmetic mean rating of one category.
// Only categories with at least one record produce a row.
type CategoryRating struct {
	Category  string  `json:"_id"`
	AvgRating float64 `json:"avgRating"`
}

// Summary bundles every dashboard aggregate into a single response.
type Summary struct {
	CountPerType  []CategoryCount           `json:"countPerType"`
	AverageRating []CategoryRating          `json:"averageRating"`
	TopReviewed   Optional[AttributeRecord] `json:"topReviewed"`
	Incomplete    []GeometryRecord          `json:"incomplete"`
}

// HealthStatus represents the readiness check response.
type HealthStatus struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}
