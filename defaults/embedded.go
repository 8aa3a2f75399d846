// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Embedded default configuration file.

package defaults

import (
	_ "embed"
)

//go:embed deckreview.json
var config []byte

// Config returns a copy of the embedded default config JSON.
func Config() []byte {
	out := make([]byte, len(config))
	copy(out, config)
	return out
}
