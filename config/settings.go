// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/settings.go
// Summary: Typed settings resolved from config, environment, and flags.

package config

import (
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"time"
)

// Environment variables that override the config file.
const (
	EnvAPIURL  = "DECKREVIEW_API_URL"
	EnvListen  = "DECKREVIEW_LISTEN"
	EnvDataDir = "DECKREVIEW_DATA_DIR"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	APIURL    string
	Timeout   time.Duration
	Listen    string
	DataDir   string
	LogFile   string
	Verbosity int
	// ToastLifetime is how long TUI notifications stay on screen.
	ToastLifetime time.Duration
	// Color enables styled output on terminals.
	Color bool
}

// PrefsPath is the preference database inside DataDir.
func (s Settings) PrefsPath() string {
	return filepath.Join(s.DataDir, "prefs.db")
}

// Resolve builds Settings from cfg with environment overrides applied.
// env is usually os.Getenv; a nil env disables overrides.
func Resolve(cfg Config, env func(string) string) (Settings, error) {
	s := Settings{
		APIURL:    cfg.GetString(SectionAPI, "base_url", DefaultAPIURL),
		Timeout:   cfg.GetSeconds(SectionAPI, "timeout_seconds", DefaultTimeoutSeconds*time.Second),
		Listen:    cfg.GetString(SectionServer, "listen", DefaultListen),
		DataDir:   cfg.GetString(SectionStorage, "data_dir", ""),
		LogFile:   cfg.GetString(SectionLog, "file", ""),
		Verbosity: cfg.GetInt(SectionLog, "verbose", 0),
		Color:     cfg.GetBool(SectionUI, "color", true),
	}
	toast := cfg.GetFloat(SectionUI, "toast_seconds", DefaultToastSeconds)
	if toast <= 0 || math.IsNaN(toast) || math.IsInf(toast, 0) {
		toast = DefaultToastSeconds
	}
	s.ToastLifetime = time.Duration(toast * float64(time.Second))
	if env != nil {
		if v := env(EnvAPIURL); v != "" {
			s.APIURL = v
		}
		if v := env(EnvListen); v != "" {
			s.Listen = v
		}
		if v := env(EnvDataDir); v != "" {
			s.DataDir = v
		}
	}
	if s.DataDir == "" {
		root, err := Root()
		if err != nil {
			return Settings{}, fmt.Errorf("resolve data dir: %w", err)
		}
		s.DataDir = root
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeoutSeconds * time.Second
	}
	u, err := url.Parse(s.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Settings{}, fmt.Errorf("invalid api base url %q", s.APIURL)
	}
	return s, nil
}
