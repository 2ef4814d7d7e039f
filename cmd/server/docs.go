// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// General API information for the generated OpenAPI document served at
// /swagger/. Regenerate docs/ after changing any handler annotation.
//
//go:generate swag init --parseInternal --dir ../../ --generalInfo cmd/server/docs.go --output ../../docs
//
// @title Landmark API
// @version 1.0
// @description Point-of-interest storage and the aggregates behind the Landmark dashboard.
// @description Every data endpoint fails with status 500 and {"message":"Server Error"}.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/landmark/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /api
// @schemes http https
//
// @tag.name Data
// @tag.description Bulk load and the merged location list
//
// @tag.name Analytics
// @tag.description Dashboard aggregates over the stored metadata and geometries
//
// @tag.name Health
// @tag.description Liveness and readiness probes
package main
