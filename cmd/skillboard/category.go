// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stacklok/skillboard/catalog"
	"github.com/stacklok/skillboard/directory"
)

func newCategoryCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage skill categories",
	}
	cmd.AddCommand(newCategoryAddCmd(opts), newCategoryListCmd(opts))
	return cmd
}

func newCategoryAddCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create an empty category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			cat, err := openCatalog(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = cat.close(cmd.Context()) }()

			created, err := directory.New(cat.store, logger).Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created category %q (%s)\n", created.Name, created.ID)
			return err
		},
	}
}

func newCategoryListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List category ids and names",
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

			refs, err := directory.New(cat.store, logger).Names(cmd.Context())
			if err != nil {
				return err
			}
			return printCategories(cmd.OutOrStdout(), refs)
		},
	}
}

func printCategories(w io.Writer, refs []catalog.CategoryRef) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME")
	for _, r := range refs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.Name)
	}
	return tw.Flush()
}
