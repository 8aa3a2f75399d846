// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/deckreview/root.go
// Summary: Root cobra command, global flags and shared resources.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/backend"
	"github.com/framegrace/deckreview/config"
	"github.com/framegrace/deckreview/prefs"
)

// cli carries the state shared by all commands.
type cli struct {
	out    io.Writer
	errOut io.Writer
	env    func(string) string
	now    func() time.Time
	// tty reports whether out is an interactive terminal.
	tty func() bool

	configPath string
	apiURL     string
	klogFlags  *flag.FlagSet

	settings config.Settings
}

func newCLI(out, errOut io.Writer, env func(string) string) *cli {
	return &cli{
		out:    out,
		errOut: errOut,
		env:    env,
		now:    time.Now,
		tty:    func() bool { return isTerminal(out) },
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "deckreview",
		Short:         "Review AI evaluations of startup pitch decks",
		Long:          "deckreview lists pitch deck applications, shows their evaluations, edits raw extracted data and proxies the evaluation backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI(cmd)
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	c.klogFlags = flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(c.klogFlags)
	root.PersistentFlags().AddGoFlagSet(c.klogFlags)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default <user config dir>/deckreview/deckreview.json)")
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "evaluation backend base URL (overrides config and "+config.EnvAPIURL+")")

	root.AddCommand(
		c.tuiCommand(),
		c.serveCommand(),
		c.listCommand(),
		c.showCommand(),
		c.setCommand(),
		c.createCommand(),
		c.uploadCommand(),
		c.actionCommand(),
		c.filtersCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.configCommand(),
	)
	return root
}

// load resolves settings from the config file, environment and flags.
func (c *cli) load(cmd *cobra.Command) error {
	if c.configPath != "" {
		config.SetPath(c.configPath)
	}
	cfg := config.Get()
	if err := config.Err(); err != nil {
		klog.ErrorS(err, "Config: load failed, using defaults")
	}
	s, err := config.Resolve(cfg, c.env)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		s.APIURL = c.apiURL
	}
	if s.Verbosity > 0 && !cmd.Flags().Changed("v") {
		if err := c.klogFlags.Set("v", strconv.Itoa(s.Verbosity)); err != nil {
			return fmt.Errorf("set verbosity: %w", err)
		}
	}
	c.settings = s
	klog.V(2).InfoS("Config: resolved", "api", s.APIURL, "dataDir", s.DataDir, "listen", s.Listen)
	return nil
}

func (c *cli) client() (*backend.Client, error) {
	return backend.New(c.settings.APIURL, backend.WithTimeout(c.settings.Timeout))
}

// openStore opens the preference database, creating the data directory.
func (c *cli) openStore() (*prefs.SQLiteStore, error) {
	if err := os.MkdirAll(c.settings.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return prefs.OpenSQLite(c.settings.PrefsPath())
}

// withStore runs fn against an open preference store.
func (c *cli) withStore(fn func(store prefs.Store) error) error {
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
