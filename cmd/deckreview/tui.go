// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/deckreview/tui.go
// Summary: Interactive terminal dashboard command.
// Notes: klog is redirected to a file before the screen is taken over.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apps/reviewer"
	"github.com/framegrace/deckreview/internal/runner"
	"github.com/framegrace/deckreview/notify"
)

func (c *cli) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive review dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI(cmd)
		},
	}
}

// logFile is the configured log path or <data dir>/deckreview.log.
func (c *cli) logFile() string {
	if c.settings.LogFile != "" {
		return c.settings.LogFile
	}
	return filepath.Join(c.settings.DataDir, "deckreview.log")
}

func (c *cli) redirectLogs() error {
	path := c.logFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	for name, value := range map[string]string{
		"logtostderr":     "false",
		"alsologtostderr": "false",
		"stderrthreshold": "FATAL",
		"one_output":      "true",
		"log_file":        path,
	} {
		if err := c.klogFlags.Set(name, value); err != nil {
			return fmt.Errorf("configure logging: %w", err)
		}
	}
	return nil
}

func (c *cli) runTUI(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the dashboard needs an interactive terminal; see --help for one-shot commands")
	}
	if err := c.redirectLogs(); err != nil {
		return err
	}
	client, err := c.client()
	if err != nil {
		return err
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(klog.NewContext(cmd.Context(), klog.LoggerWithName(klog.Background(), "reviewer")))
	defer cancel()
	klog.FromContext(ctx).Info("Starting dashboard", "api", client.BaseURL(), "prefs", store.Path())
	app := reviewer.New(ctx, reviewer.Options{
		Backend:       client,
		Store:         store,
		Notifier:      notify.Log{},
		ToastLifetime: c.settings.ToastLifetime,
	})
	err = runner.Run(ctx, app)
	// Abandon requests still in flight.
	cancel()
	app.Wait()
	return err
}
