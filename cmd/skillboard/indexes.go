// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the unique name indexes in MongoDB and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			cat, err := openCatalog(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = cat.close(cmd.Context()) }()

			if cat.mongo == nil {
				return errors.New("indexes only apply to the mongo catalog store")
			}
			if err := cat.mongo.EnsureIndexes(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
			return err
		},
	}
}
