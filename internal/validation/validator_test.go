// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/landmark/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

func validRequest() models.LoadRequest {
	return models.LoadRequest{
		Locations: []models.LocationInput{
			{ID: "p1", Latitude: models.Float(52.52), Longitude: models.Float(13.405)},
			{ID: "p2", Latitude: nil, Longitude: models.Float(2.35)},
			{ID: "p3"},
		},
		Metadata: []models.MetadataInput{
			{ID: "p1", Type: "museum", Rating: models.Float(4.5), Reviews: int64Ptr(120)},
			{ID: "p2", Type: "cafe", Rating: models.Float(0), Reviews: int64Ptr(0)},
		},
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestValidateStruct_LoadRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*models.LoadRequest)
		wantField string
		wantTag   string
	}{
		{name: "valid", mutate: func(*models.LoadRequest) {}},
		{name: "empty request", mutate: func(r *models.LoadRequest) { *r = models.LoadRequest{} }},
		{
			name:      "missing location id",
			mutate:    func(r *models.LoadRequest) { r.Locations[1].ID = "" },
			wantField: "locations[1].id",
			wantTag:   "required",
		},
		{
			name:      "blank location id",
			mutate:    func(r *models.LoadRequest) { r.Locations[0].ID = "   " },
			wantField: "locations[0].id",
			wantTag:   "notblank",
		},
		{
			name:      "latitude out of range",
			mutate:    func(r *models.LoadRequest) { r.Locations[0].Latitude = models.Float(91) },
			wantField: "locations[0].latitude",
			wantTag:   "latitude",
		},
		{
			name:      "longitude out of range",
			mutate:    func(r *models.LoadRequest) { r.Locations[0].Longitude = models.Float(-181) },
			wantField: "locations[0].longitude",
			wantTag:   "longitude",
		},
		{
			name:      "missing type",
			mutate:    func(r *models.LoadRequest) { r.Metadata[0].Type = "" },
			wantField: "metadata[0].type",
			wantTag:   "required",
		},
		{
			name:      "missing rating",
			mutate:    func(r *models.LoadRequest) { r.Metadata[1].Rating = nil },
			wantField: "metadata[1].rating",
			wantTag:   "required",
		},
		{
			name:      "missing reviews",
			mutate:    func(r *models.LoadRequest) { r.Metadata[0].Reviews = nil },
			wantField: "metadata[0].reviews",
			wantTag:   "required",
		},
		{
			name:      "negative reviews",
			mutate:    func(r *models.LoadRequest) { r.Metadata[0].Reviews = int64Ptr(-1) },
			wantField: "metadata[0].reviews",
			wantTag:   "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tt.mutate(&req)
			verr := ValidateStruct(&req)

			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("ValidateStruct() expected %s error on %s", tt.wantTag, tt.wantField)
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if !strings.HasPrefix(errs[0].Error(), tt.wantField) {
				t.Errorf("message %q should start with the field name", errs[0].Error())
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	t.Parallel()

	req := validRequest()
	req.Locations[0].ID = ""
	req.Metadata[1].Reviews = int64Ptr(-5)

	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation errors")
	}

	fields := verr.Fields()
	if len(fields) != 2 {
		t.Fatalf("Fields() = %v, want 2 entries", fields)
	}
	if fields[0] != "locations[0].id" || fields[1] != "metadata[1].reviews" {
		t.Errorf("Fields() = %v", fields)
	}

	msg := verr.Error()
	if !strings.Contains(msg, "; ") {
		t.Errorf("combined message should join errors with '; ', got %q", msg)
	}
	if !strings.Contains(msg, "metadata[1].reviews must be at least 0") {
		t.Errorf("combined message missing min error: %q", msg)
	}
}

func TestTrimRootNamespace(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"LoadRequest.metadata[0].type": "metadata[0].type",
		"LoadRequest.locations":        "locations",
		"id":                           "id",
	}
	for in, want := range tests {
		if got := trimRootNamespace(in); got != want {
			t.Errorf("trimRootNamespace(%q) = %q, want %q", in, got, want)
		}
	}
}

type rangeStruct struct {
	Name  string `json:"name" validate:"min=3,max=5"`
	Count int    `json:"count" validate:"gte=1,lte=10"`
	Kind  string `json:"kind" validate:"oneof=a b"`
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&rangeStruct{Name: "ab", Count: 11, Kind: "c"})
	if verr == nil {
		t.Fatal("expected errors")
	}

	want := []string{
		"name must be at least 3 characters",
		"count must be less than or equal to 10",
		"kind must be one of: a b",
	}
	errs := verr.Errors()
	if len(errs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(want), verr)
	}
	for i, w := range want {
		if errs[i].Error() != w {
			t.Errorf("error[%d] = %q, want %q", i, errs[i].Error(), w)
		}
	}
}
