// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/apply.go
// Summary: Routes parsed field input to a path-addressed updater.

package editor

import "github.com/framegrace/deckreview/tree"

// Updater accepts a value for a path inside the working copy.
type Updater interface {
	Update(path tree.Path, v tree.Value) error
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(path tree.Path, v tree.Value) error

func (f UpdaterFunc) Update(path tree.Path, v tree.Value) error { return f(path, v) }

// Apply parses input for f and hands the result to u.
func Apply(u Updater, f Field, input string) error {
	v, err := f.Parse(input)
	if err != nil {
		return err
	}
	return u.Update(f.Path, v)
}
