// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Parsed defaults from the embedded JSON file.

package config

import (
	"encoding/json"
	"sync"

	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/defaults"
)

var (
	embeddedOnce sync.Once
	embedded     Config
)

// defaultConfig returns a fresh copy of the embedded defaults.
func defaultConfig() Config {
	embeddedOnce.Do(func() {
		var cfg Config
		if err := json.Unmarshal(defaults.Config(), &cfg); err != nil {
			klog.ErrorS(err, "Embedded default config is invalid")
			cfg = make(Config)
		}
		applyDefaults(cfg)
		embedded = cfg
	})
	return Clone(embedded)
}
