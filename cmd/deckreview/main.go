// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/deckreview/main.go
// Summary: Entry point for the deckreview binary.
// Usage: deckreview [tui|serve|list|show|set|create|upload|action|filters|login|logout|config]

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apperrors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	klog.Flush()
	if err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	c := newCLI(os.Stdout, os.Stderr, os.Getenv)
	cmd := c.rootCommand()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// report prints err. Validation failures list one field per line.
func report(w io.Writer, err error) {
	fields := apperrors.Fields(err)
	if len(fields) == 0 {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, "Error: invalid input")
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, fields[k])
	}
}
