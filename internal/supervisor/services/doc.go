// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

/*
Package services provides suture.Service wrappers for Landmark components.

  - HTTPServerService: runs *http.Server and drains it on shutdown
  - StoreMonitorService: pings the record store and exports store_up

Each wrapper returns an error to request a restart and ctx.Err() when asked
to stop, and implements fmt.Stringer so supervisor events name it.
*/
package services
