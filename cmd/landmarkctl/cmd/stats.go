// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/landmark/internal/models"
)

func newStatsCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeAll, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			sum, err := svc.Summary(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			printSummary(out, sum)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the /api/summary JSON instead of tables")
	return cmd
}

func printSummary(out io.Writer, sum models.Summary) {
	header(out, "Places per type")
	if len(sum.CountPerType) == 0 {
		dimColor.Fprintln(out, "  (no metadata)")
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range sum.CountPerType {
		fmt.Fprintf(tw, "  %s\t%d\n", c.Category, c.Count)
	}
	_ = tw.Flush()

	fmt.Fprintln(out)
	header(out, "Average rating")
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range sum.AverageRating {
		fmt.Fprintf(tw, "  %s\t%.2f\n", r.Category, r.AvgRating)
	}
	_ = tw.Flush()

	fmt.Fprintln(out)
	header(out, "Top reviewed")
	if top, ok := sum.TopReviewed.Get(); ok {
		boldColor.Fprintf(out, "  %s", top.ID)
		fmt.Fprintf(out, " (%s) rating %.1f, %d reviews\n", top.Category, top.Rating, top.ReviewCount)
	} else {
		dimColor.Fprintln(out, "  (none)")
	}

	fmt.Fprintln(out)
	header(out, "Incomplete locations")
	if len(sum.Incomplete) == 0 {
		okColor.Fprintln(out, "  none, every location has both coordinates")
		return
	}
	warnColor.Fprintf(out, "  %d missing a coordinate\n", len(sum.Incomplete))
	for _, g := range sum.Incomplete {
		fmt.Fprintf(out, "  - %s (latitude %s, longitude %s)\n", g.ID, coord(g.Latitude), coord(g.Longitude))
	}
}

func coord(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.4f", *v)
}
