// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stacklok/skillboard/config"
	"github.com/stacklok/skillboard/env"
	"github.com/stacklok/skillboard/logging"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	env    env.Reader
	logOut io.Writer
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&globalOptions{env: &env.OSReader{}, logOut: os.Stderr})
}

func newRootCmdWith(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skillboard",
		Short: "Admin server for a catalog of skills and skill categories",
		Long: `skillboard serves the admin pages and JSON API for a catalog of skills,
their light and dark icons, and the categories that group them.

Examples:
  skillboard serve --config ./skillboard.yaml
  skillboard indexes
  skillboard category add "Languages"`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"path to a YAML config file (default $"+config.PathEnv+")")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "override logging.format (json, text)")

	cmd.AddCommand(newServeCmd(opts), newIndexesCmd(opts), newCategoryCmd(opts))
	return cmd
}

// load reads the configuration, applies flag overrides and builds the logger.
func (o *globalOptions) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath, o.env)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" || o.logFormat != "" {
		if o.logLevel != "" {
			cfg.Logging.Level = o.logLevel
		}
		if o.logFormat != "" {
			cfg.Logging.Format = o.logFormat
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	logger := logging.New(append(cfg.LoggerOptions(), logging.WithOutput(o.logOut))...)
	return cfg, logger, nil
}
