// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/deckreview/filters.go
// Summary: Evaluation filter preset commands.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/framegrace/deckreview/prefs"
)

func (c *cli) filtersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Manage evaluation filter presets",
	}
	cmd.AddCommand(c.filtersListCommand(), c.filtersCreateCommand(), c.filtersToggleCommand(), c.filtersDeleteCommand())
	return cmd
}

func (c *cli) filtersListCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List filter presets; the active one is marked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return c.withStore(func(store prefs.Store) error {
				filters := prefs.NewFilters(store)
				list, err := filters.List(cmd.Context())
				if err != nil {
					return err
				}
				selected, ok, err := filters.Selected(cmd.Context())
				if err != nil {
					return err
				}
				p := c.printer()
				if format != formatText {
					return p.data(format, list)
				}
				if len(list) == 0 {
					p.println(p.muted.Render("No filters created yet"))
					return nil
				}
				headers := []string{"", "ID", "Name"}
				for _, dim := range prefs.DimensionNames {
					headers = append(headers, strings.ToUpper(dim[:1])+dim[1:])
				}
				rows := make([][]string, 0, len(list))
				for _, f := range list {
					mark := ""
					if ok && f.ID == selected.ID {
						mark = "✓"
					}
					row := []string{mark, f.ID, f.Name}
					for _, dim := range prefs.DimensionNames {
						row = append(row, strconv.Itoa(f.Dimensions.Get(dim)))
					}
					rows = append(rows, row)
				}
				p.table(headers, rows)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", formatText, "output format: text, json or yaml")
	return cmd
}

func (c *cli) filtersCreateCommand() *cobra.Command {
	var name, prompt string
	var weights map[string]int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a filter preset",
		Long: `Create a filter preset.

Dimension weights default to founders=75 market=60 product=35 traction=15
investors=5 vision=10 and can be overridden with --weight dim=N (0-100).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dims := prefs.DefaultDimensions()
			for dim, w := range weights {
				if err := dims.Set(dim, w); err != nil {
					return err
				}
			}
			return c.withStore(func(store prefs.Store) error {
				f, err := prefs.NewFilters(store).Create(cmd.Context(), name, prompt, dims)
				if err != nil {
					return err
				}
				p := c.printer()
				p.println(p.good.Render("Filter created successfully"))
				p.field("ID", f.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "filter name")
	cmd.Flags().StringVar(&prompt, "prompt", "", "custom evaluation prompt")
	cmd.Flags().StringToIntVar(&weights, "weight", nil, "dimension weight, e.g. --weight market=80")
	return cmd
}

func (c *cli) filtersToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Select a filter for evaluations, or clear it if already selected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(store prefs.Store) error {
				f, selected, err := prefs.NewFilters(store).Toggle(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				title, desc := prefs.ToggleMessage(f, selected)
				p := c.printer()
				p.println(p.label.Render(title) + ": " + desc)
				return nil
			})
		},
	}
}

func (c *cli) filtersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a filter preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(store prefs.Store) error {
				if err := prefs.NewFilters(store).Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Filter %s deleted\n", args[0])
				return nil
			})
		},
	}
}
