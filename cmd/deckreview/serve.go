// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/deckreview/serve.go
// Summary: HTTP proxy command serving the /api routes.

package main

import (
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/config"
	"github.com/framegrace/deckreview/proxy"
)

func (c *cli) serveCommand() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the application API in front of the evaluation backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen == "" {
				listen = c.settings.Listen
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			klog.InfoS("Proxy: starting", "listen", listen, "upstream", client.BaseURL())
			return proxy.New(client).ListenAndServe(cmd.Context(), listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config and "+config.EnvListen+")")
	return cmd
}
