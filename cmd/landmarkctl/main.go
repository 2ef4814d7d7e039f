// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Command landmarkctl is the operator tool for Landmark: bulk loads from a
// file, dashboard statistics in the terminal and store health checks.
package main

import (
	"os"

	"github.com/tomtom215/landmark/cmd/landmarkctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
