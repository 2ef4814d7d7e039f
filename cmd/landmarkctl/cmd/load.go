// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/landmark/internal/models"
	"github.com/tomtom215/landmark/internal/store"
	"github.com/tomtom215/landmark/internal/validation"
)

func newLoadCmd(opts *globalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "load --file data.json",
		Short: "Bulk load {locations, metadata} from a JSON file",
		Long: `Reads a file shaped like the POST /api/load-data body and loads it
directly into the configured record store. Geometries are written before
attributes; a failure in the attribute batch leaves the geometries stored.
Use "-" to read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := readLoadRequest(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, closeAll, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			geometries, attributes := req.Records()
			start := time.Now()
			if err := svc.Load(cmd.Context(), geometries, attributes); err != nil {
				if errors.Is(err, store.ErrDuplicateKey) {
					return fmt.Errorf("load rejected, ids already stored: %w", err)
				}
				return fmt.Errorf("load failed: %w", err)
			}

			out := cmd.OutOrStdout()
			okColor.Fprintf(out, "Loaded %d locations and %d metadata records", len(geometries), len(attributes))
			dimColor.Fprintf(out, " in %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file to load (\"-\" for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readLoadRequest decodes and validates a load file.
func readLoadRequest(path string, stdin io.Reader) (*models.LoadRequest, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var req models.LoadRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, fmt.Errorf("invalid load file: %w", verr)
	}
	return &req, nil
}
