// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Package cmd implements the landmarkctl subcommands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tomtom215/landmark/internal/analytics"
	"github.com/tomtom215/landmark/internal/cache"
	"github.com/tomtom215/landmark/internal/config"
	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/store"
	"github.com/tomtom215/landmark/internal/store/backend"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	driver     string
	path       string
	dsn        string
	verbose    bool
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "landmarkctl",
		Short:         "Operator tool for the Landmark point-of-interest store",
		Long:          "landmarkctl loads data files into the record store, prints dashboard statistics and checks store health.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: search config.yaml, then /etc/landmark)")
	flags.StringVar(&opts.driver, "driver", "", "override store.driver (memory|badger|duckdb|sqlite|postgres)")
	flags.StringVar(&opts.path, "path", "", "override store.path")
	flags.StringVar(&opts.dsn, "dsn", "", "override store.dsn")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newLoadCmd(opts),
		newStatsCmd(opts),
		newPingCmd(opts),
		newWaitReadyCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// loadConfig loads the layered configuration and applies flag overrides.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, o.configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if o.driver != "" {
		cfg.Store.Driver = o.driver
	}
	if o.path != "" {
		cfg.Store.Path = o.path
	}
	if o.dsn != "" {
		cfg.Store.DSN = o.dsn
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// openService opens the configured store. Only a shared (redis) cache is
// attached: a process-local cache dies with the command, but a shared one
// must be invalidated when this process loads data.
func (o *globalOptions) openService(ctx context.Context) (*analytics.Service, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	s, err := backend.Open(ctx, &cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	var c cache.Cacher = cache.Noop{}
	if cfg.Cache.Driver == config.CacheRedis {
		c, err = cache.New(&cfg.Cache)
		if err != nil {
			store.CloseWithLog(s, "record store")
			return nil, nil, err
		}
	}

	closeAll := func() {
		store.CloseWithLog(c, "response cache")
		store.CloseWithLog(s, "record store")
	}
	return analytics.NewService(s, c), closeAll, nil
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	failColor   = color.New(color.FgRed, color.Bold)
	dimColor    = color.New(color.Faint)
	boldColor   = color.New(color.Bold)
)

func header(w io.Writer, title string) {
	headerColor.Fprintf(w, "== %s ==\n", title)
}
