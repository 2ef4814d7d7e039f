// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newWaitReadyCmd() *cobra.Command {
	var (
		url      string
		timeout  time.Duration
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "waitready",
		Short: "Wait until a running server reports ready (for deployment scripts)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				if ready(ctx, url) {
					okColor.Fprintln(cmd.OutOrStdout(), "ready")
					return nil
				}
				select {
				case <-ctx.Done():
					return fmt.Errorf("%s not ready after %s", url, timeout)
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:5000/api/health/ready", "readiness probe URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "give up after this long")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "delay between probes")
	return cmd
}

func ready(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
