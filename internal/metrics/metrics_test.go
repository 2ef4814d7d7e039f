// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordStoreOperation(t *testing.T) {
	before := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("test", "insert_geometries", ErrorTypeDuplicate))

	RecordStoreOperation("test", "insert_geometries", 5*time.Millisecond, "")
	RecordStoreOperation("test", "insert_geometries", 5*time.Millisecond, ErrorTypeDuplicate)

	after := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("test", "insert_geometries", ErrorTypeDuplicate))
	if after-before != 1 {
		t.Errorf("expected one duplicate error recorded, got %v", after-before)
	}
}

func TestRecordSQLQuery(t *testing.T) {
	before := testutil.ToFloat64(SQLSlowQueries.WithLabelValues("sqlite-test"))

	RecordSQLQuery("sqlite-test", "select", time.Millisecond, false)
	RecordSQLQuery("sqlite-test", "select", 2*time.Second, true)

	if got := testutil.ToFloat64(SQLSlowQueries.WithLabelValues("sqlite-test")) - before; got != 1 {
		t.Errorf("expected one slow query, got %v", got)
	}
}

func TestRecordLoad(t *testing.T) {
	geoBefore := testutil.ToFloat64(RecordsLoaded.WithLabelValues("geometry"))
	attrBefore := testutil.ToFloat64(RecordsLoaded.WithLabelValues("attribute"))

	RecordLoad(3, 2)

	if got := testutil.ToFloat64(RecordsLoaded.WithLabelValues("geometry")) - geoBefore; got != 3 {
		t.Errorf("geometry delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(RecordsLoaded.WithLabelValues("attribute")) - attrBefore; got != 2 {
		t.Errorf("attribute delta = %v, want 2", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/test", "200"))
	RecordAPIRequest("GET", "/api/test", "200", 10*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/test", "200")) - before; got != 1 {
		t.Errorf("request counter delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("memory-test"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("memory-test"))

	RecordCacheLookup("memory-test", true)
	RecordCacheLookup("memory-test", false)
	RecordCacheLookup("memory-test", false)
	RecordCacheInvalidation("memory-test")

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("memory-test")) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("memory-test")) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(CacheInvalidations.WithLabelValues("memory-test")); got < 1 {
		t.Errorf("invalidations = %v, want >= 1", got)
	}
}

func TestSetStoreUp(t *testing.T) {
	SetStoreUp("test-backend", true)
	if got := testutil.ToFloat64(StoreUp.WithLabelValues("test-backend")); got != 1 {
		t.Errorf("store_up = %v, want 1", got)
	}
	SetStoreUp("test-backend", false)
	if got := testutil.ToFloat64(StoreUp.WithLabelValues("test-backend")); got != 0 {
		t.Errorf("store_up = %v, want 0", got)
	}
}
