// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package analytics

import (
	"sort"

	"github.com/tomtom215/landmark/internal/models"
)

// MergeRecords left-joins geometries against attributes by ID.
//
// Output order and length follow geometries. Attribute records with no
// matching geometry are dropped. The join builds a hash index over
// attributes, so it runs in O(len(geometries) + len(attributes)).
func MergeRecords(geometries []models.GeometryRecord, attributes []models.AttributeRecord) []models.MergedRecord {
	index := make(map[string]*models.AttributeRecord, len(attributes))
	for i := range attributes {
		// IDs are unique per collection; keep the first if a backend ever disagrees.
		if _, exists := index[attributes[i].ID]; !exists {
			index[attributes[i].ID] = &attributes[i]
		}
	}

	merged := make([]models.MergedRecord, 0, len(geometries))
	for _, g := range geometries {
		merged = append(merged, models.Merge(g, index[g.ID]))
	}
	return merged
}

// CountByCategory counts attribute records per category, sorted by category.
func CountByCategory(attributes []models.AttributeRecord) []models.CategoryCount {
	counts := make(map[string]int64)
	for _, a := range attributes {
		counts[a.Category]++
	}

	out := make([]models.CategoryCount, 0, len(counts))
	for category, n := range counts {
		out = append(out, models.CategoryCount{Category: category, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// AverageRatingByCategory returns the arithmetic mean rating per category,
// sorted by category. Categories without records do not appear.
func AverageRatingByCategory(attributes []models.AttributeRecord) []models.CategoryRating {
	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[string]*acc)
	for _, a := range attributes {
		s, ok := sums[a.Category]
		if !ok {
			s = &acc{}
			sums[a.Category] = s
		}
		s.sum += a.Rating
		s.n++
	}

	out := make([]models.CategoryRating, 0, len(sums))
	for category, s := range sums {
		out = append(out, models.CategoryRating{Category: category, AvgRating: s.sum / float64(s.n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// MostReviewed returns the attribute record with the highest review count.
// Ties go to the earliest record. Empty input yields None.
func MostReviewed(attributes []models.AttributeRecord) models.Optional[models.AttributeRecord] {
	if len(attributes) == 0 {
		return models.None[models.AttributeRecord]()
	}
	best := 0
	for i := 1; i < len(attributes); i++ {
		if attributes[i].ReviewCount > attributes[best].ReviewCount {
			best = i
		}
	}
	return models.Some(attributes[best])
}
