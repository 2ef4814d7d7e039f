// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package models

// Messages returned by the API. The dashboard matches on the exact text.
const (
	MessageLoaded      = "Data Loaded Successfully"
	MessageServerError = "Server Error"
)

// MessageResponse is the body of write acknowledgements and every error.
//
//	{"message": "Server Error"}
type MessageResponse struct {
	Message string `json:"message"`
}

// LoadRequest is the body accepted by the bulk load endpoint.
//
// Fields are pointers so that validation can tell a missing value from a
// zero value: a rating of 0 is legal, an absent rating is not.
type LoadRequest struct {
	Locations []LocationInput `json:"locations" validate:"dive"`
	Metadata  []MetadataInput `json:"metadata" validate:"dive"`
}

// LocationInput is one geometry entry of a LoadRequest.
type LocationInput struct {
	ID        string   `json:"id" validate:"required,notblank"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// MetadataInput is one attribute entry of a LoadRequest.
type MetadataInput struct {
	ID      string   `json:"id" validate:"required,notblank"`
	Type    string   `json:"type" validate:"required,notblank"`
	Rating  *float64 `json:"rating" validate:"required"`
	Reviews *int64   `json:"reviews" validate:"required,min=0"`
}

// Records converts the request into store records.
// It assumes the request has already been validated.
func (r *LoadRequest) Records() ([]GeometryRecord, []AttributeRecord) {
	geometries := make([]GeometryRecord, 0, len(r.Locations))
	for _, l := range r.Locations {
		geometries = append(geometries, GeometryRecord{
			ID:        l.ID,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
		})
	}

	attributes := make([]AttributeRecord, 0, len(r.Metadata))
	for _, m := range r.Metadata {
		a := AttributeRecord{ID: m.ID, Category: m.Type}
		if m.Rating != nil {
			a.Rating = *m.Rating
		}
		if m.Reviews != nil {
			a.ReviewCount = *m.Reviews
		}
		attributes = append(attributes, a)
	}
	return geometries, attributes
}
