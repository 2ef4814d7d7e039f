// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package api

import "errors"

// errInvalidRequest marks a load body that decoded but failed validation.
var errInvalidRequest = errors.New("invalid load request")
