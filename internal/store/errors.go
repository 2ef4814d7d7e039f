// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/metrics"
)

// Sentinel errors returned by every backend.
var (
	// ErrDuplicateKey means an inserted ID already exists in its collection.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStoreUnavailable means the backend could not be reached or a query failed.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound means a point lookup matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrEmptyID means a record without an ID was offered for insert.
	ErrEmptyID = errors.New("record id is required")
)

// Record kinds, used in errors and metric labels.
const (
	KindGeometry  = "geometry"
	KindAttribute = "attribute"
)

// DuplicateKeyError identifies the record that violated uniqueness.
// It matches ErrDuplicateKey with errors.Is.
type DuplicateKeyError struct {
	Kind string
	ID   string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %s %q", e.Kind, e.ID)
}

// Is reports whether target is ErrDuplicateKey.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// Unavailable wraps err as ErrStoreUnavailable, keeping the cause in the chain.
// Errors already classified as duplicate key or unavailable pass through.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrEmptyID) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// ErrorType returns the metrics label for err.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrEmptyID):
		return metrics.ErrorTypeDuplicate
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ErrorTypeCanceled
	case errors.Is(err, ErrStoreUnavailable):
		return metrics.ErrorTypeUnavailable
	default:
		return metrics.ErrorTypeOther
	}
}

// IsCallerError reports whether err was caused by the input rather than the
// backend. Caller errors do not count against the circuit breaker.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, ErrEmptyID) ||
		errors.Is(err, context.Canceled)
}

// CloseWithLog closes a resource and logs any error.
// Use this for cleanup where errors should be acknowledged but not fail the operation.
func CloseWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}
