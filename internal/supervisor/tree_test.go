// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/landmark/internal/logging"
)

func newTestTree(t *testing.T, cfg TreeConfig) *SupervisorTree {
	t.Helper()
	tree, err := NewSupervisorTree(logging.NewSlogLogger("supervisor-test"), cfg)
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	return tree
}

// waitForStart polls until svc has been started n times.
func waitForStart(t *testing.T, svc *mockService, n int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if svc.StartCount() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s: expected at least %d starts, got %d", svc, n, svc.StartCount())
}

func TestSupervisorTreeConstruction(t *testing.T) {
	t.Run("creates hierarchical supervisor tree", func(t *testing.T) {
		tree := newTestTree(t, TreeConfig{
			FailureThreshold: 5,
			FailureBackoff:   time.Second,
			ShutdownTimeout:  10 * time.Second,
		})
		if tree.Root() == nil {
			t.Error("root supervisor should not be nil")
		}
	})

	t.Run("applies default values for zero config", func(t *testing.T) {
		tree := newTestTree(t, TreeConfig{})
		if tree.config != DefaultTreeConfig() {
			t.Errorf("zero config should resolve to defaults, got %+v", tree.config)
		}
	})
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	t.Run("tree starts both layers and stops gracefully", func(t *testing.T) {
		tree := newTestTree(t, TreeConfig{
			FailureBackoff:  100 * time.Millisecond,
			ShutdownTimeout: time.Second,
		})

		dataSvc := newMockService("mock-store-monitor")
		apiSvc := newMockService("mock-http")
		tree.AddDataService(dataSvc)
		tree.AddAPIService(apiSvc)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := tree.ServeBackground(ctx)

		waitForStart(t, dataSvc, 1)
		waitForStart(t, apiSvc, 1)
		cancel()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("unexpected error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("tree did not shut down in time")
		}

		if dataSvc.StopCount() != 1 || apiSvc.StopCount() != 1 {
			t.Errorf("services should stop once, got data=%d api=%d", dataSvc.StopCount(), apiSvc.StopCount())
		}

		report, err := tree.UnstoppedServiceReport()
		if err != nil {
			t.Fatal(err)
		}
		if len(report) != 0 {
			t.Errorf("unexpected unstopped services: %v", report)
		}
	})
}

func TestSupervisorTreeFailureHandling(t *testing.T) {
	t.Run("failing data service is restarted without touching the api layer", func(t *testing.T) {
		tree := newTestTree(t, TreeConfig{
			FailureThreshold: 10,
			FailureBackoff:   10 * time.Millisecond,
			ShutdownTimeout:  time.Second,
		})

		failing := newMockService("flaky-store-monitor")
		failing.SetFailCount(2)
		stable := newMockService("http")

		tree.AddDataService(failing)
		tree.AddAPIService(stable)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		errCh := tree.ServeBackground(ctx)

		waitForStart(t, failing, 3)
		if stable.StartCount() != 1 {
			t.Errorf("api service restarted %d times, want exactly one start", stable.StartCount())
		}

		cancel()
		<-errCh
	})

	t.Run("ErrDoNotRestart is honoured", func(t *testing.T) {
		tree := newTestTree(t, TreeConfig{
			FailureBackoff:  10 * time.Millisecond,
			ShutdownTimeout: time.Second,
		})

		oneShot := newMockService("one-shot")
		oneShot.SetError(suture.ErrDoNotRestart)
		tree.AddDataService(oneShot)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		errCh := tree.ServeBackground(ctx)

		waitForStart(t, oneShot, 1)
		time.Sleep(100 * time.Millisecond)
		if oneShot.StartCount() != 1 {
			t.Errorf("expected exactly 1 start, got %d", oneShot.StartCount())
		}

		cancel()
		<-errCh
	})
}

func TestDefaultTreeConfig(t *testing.T) {
	config := DefaultTreeConfig()

	if config.FailureThreshold != 5.0 {
		t.Errorf("expected FailureThreshold 5.0, got %f", config.FailureThreshold)
	}
	if config.FailureDecay != 30.0 {
		t.Errorf("expected FailureDecay 30.0, got %f", config.FailureDecay)
	}
	if config.FailureBackoff != 15*time.Second {
		t.Errorf("expected FailureBackoff 15s, got %v", config.FailureBackoff)
	}
	if config.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected ShutdownTimeout 10s, got %v", config.ShutdownTimeout)
	}
}
