// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func newPingCmd(opts *globalOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured record store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			svc, closeAll, err := opts.openService(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			start := time.Now()
			if err := svc.Ping(ctx); err != nil {
				failColor.Fprintln(cmd.OutOrStdout(), "store unreachable")
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "store ok")
			dimColor.Fprintf(cmd.OutOrStdout(), " (%s)\n", time.Since(start).Round(time.Microsecond))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "give up after this long")
	return cmd
}
