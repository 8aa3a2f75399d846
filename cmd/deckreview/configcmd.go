// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/deckreview/configcmd.go
// Summary: Config commands: path, show and set.
// Notes: These run even when the stored settings are invalid, so a bad
// value can be repaired from the command line.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/config"
	"github.com/framegrace/deckreview/tree"
)

func (c *cli) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change the config file",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.load(cmd); err != nil {
				klog.V(1).InfoS("Config: stored settings are invalid", "err", err)
			}
			return nil
		},
	}
	cmd.AddCommand(c.configPathCommand(), c.configShowCommand(), c.configSetCommand())
	return cmd
}

func (c *cli) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			c.printer().println(path)
			return nil
		},
	}
}

func (c *cli) configShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show [section]",
		Short: "Print the loaded config with defaults filled in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			data := config.Get().Plain()
			var x interface{} = data
			if len(args) == 1 {
				sec, ok := data[args[0]]
				if !ok {
					return apperrors.Newf(apperrors.KindNotFound, "show config", "no config section %q", args[0])
				}
				x = sec
			}
			v, err := tree.FromAny(x)
			if err != nil {
				return fmt.Errorf("show config: %w", err)
			}
			if format == formatText {
				format = formatJSON
			}
			return c.printer().value(format, v)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", formatText, "output format: text, json or yaml")
	return cmd
}

func (c *cli) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <section.key> <value>...",
		Short: "Change one config value and save the file",
		Long: `Change one config value and save the file.

The value is read as JSON when it parses (30, true, "text"); anything else
is stored as a string. The change is rejected when the resulting settings
are invalid, e.g. an api.base_url that is not an http or https URL.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			name, key, ok := strings.Cut(args[0], ".")
			if !ok || name == "" || key == "" {
				return apperrors.Newf(apperrors.KindValidation, "set config", "key %q must look like section.key", args[0])
			}
			raw := strings.Join(args[1:], " ")
			v, err := tree.Parse([]byte(raw))
			if err != nil {
				v = tree.String(raw)
			}

			cfg := config.Clone(config.Get())
			cfg.SetValue(name, key, v.ToAny())
			if _, err := config.Resolve(cfg, nil); err != nil {
				return apperrors.New(apperrors.KindValidation, "set config", err)
			}
			config.Set(cfg)
			if err := config.Save(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			if err := config.Reload(); err != nil {
				return fmt.Errorf("reload config: %w", err)
			}

			stored, err := tree.FromAny(config.Get().Section(name)[key])
			if err != nil {
				return fmt.Errorf("set config: %w", err)
			}
			text, err := stored.MarshalJSON()
			if err != nil {
				return fmt.Errorf("set config: %w", err)
			}
			klog.V(2).InfoS("Config: saved", "key", args[0])
			p := c.printer()
			p.println(p.label.Render(args[0]) + " = " + string(text))
			return nil
		},
	}
}
