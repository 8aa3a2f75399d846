// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values registered on every loaded config.

package config

// Section names.
const (
	SectionAPI     = "api"
	SectionServer  = "server"
	SectionStorage = "storage"
	SectionLog     = "log"
	SectionUI      = "ui"
)

// Built-in fallbacks, used when a key is missing from the file.
const (
	DefaultAPIURL         = "http://localhost:8000"
	DefaultTimeoutSeconds = 30
	DefaultListen         = ":3000"
	DefaultToastSeconds   = 3.0
)

func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults(SectionAPI, Section{
		"base_url":        DefaultAPIURL,
		"timeout_seconds": DefaultTimeoutSeconds,
	})
	cfg.RegisterDefaults(SectionServer, Section{
		"listen": DefaultListen,
	})
	cfg.RegisterDefaults(SectionStorage, Section{
		"data_dir": "",
	})
	cfg.RegisterDefaults(SectionLog, Section{
		"file":    "",
		"verbose": 0,
	})
	cfg.RegisterDefaults(SectionUI, Section{
		"toast_seconds": DefaultToastSeconds,
		"color":         true,
	})
}
