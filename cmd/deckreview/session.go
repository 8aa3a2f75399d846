// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/deckreview/session.go
// Summary: Login and logout for the dashboard gate.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/framegrace/deckreview/prefs"
)

func (c *cli) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Store the reviewer name used by the dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(store prefs.Store) error {
				if err := prefs.NewSession(store).Login(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Signed in as %s\n", strings.TrimSpace(args[0]))
				return nil
			})
		},
	}
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(func(store prefs.Store) error {
				s := prefs.NewSession(store)
				user, ok, err := s.Current(cmd.Context())
				if err != nil {
					return err
				}
				if err := s.Logout(cmd.Context()); err != nil {
					return err
				}
				if ok {
					fmt.Fprintf(c.out, "Signed out %s\n", user)
				} else {
					fmt.Fprintln(c.out, "Not signed in")
				}
				return nil
			})
		},
	}
}
