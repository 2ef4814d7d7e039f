// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Package validation provides struct validation using go-playground/validator v10.
//
// It holds a thread-safe singleton validator (struct metadata is cached after
// the first use) configured to report JSON field names, so a failure on the
// third metadata entry reads "metadata[2].reviews is required" rather than
// the Go field path.
//
// # Custom Validators
//
//   - notblank: rejects strings made only of whitespace
//
// # Usage
//
//	var req models.LoadRequest
//	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	    // handle decode error
//	}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    logging.Ctx(ctx).Warn().Strs("fields", verr.Fields()).Msg("Rejected load request")
//	    // respond
//	}
//
// # Common Validation Tags
//
//   - required: Field must be present (for pointers: non-nil)
//   - dive: Validate every element of a slice
//   - latitude, longitude: Coordinate ranges
//   - min=n, max=n: Numeric bounds or string lengths
//   - omitempty: Skip remaining rules when the value is empty or nil
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
