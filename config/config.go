// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Sectioned configuration store for deckreview.
// Notes: The file is created with embedded defaults on first load.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/klog/v2"
)

const configName = "deckreview.json"

// Config stores configuration sections as JSON-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

var (
	mu       sync.RWMutex
	loaded   bool
	current  Config
	override string
	loadErr  error
)

// SetPath points the store at an explicit file instead of the user config
// directory. It forces the next access to reload.
func SetPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	override = path
	loaded = false
}

// Path returns the file the store reads and writes.
func Path() (string, error) {
	mu.RLock()
	defer mu.RUnlock()
	return pathLocked()
}

func pathLocked() (string, error) {
	if override != "" {
		return override, nil
	}
	return defaultConfigPath()
}

// Err returns the most recent load error.
func Err() error {
	mu.Lock()
	defer mu.Unlock()
	ensureLoadedLocked()
	return loadErr
}

// Get returns the loaded configuration.
func Get() Config {
	mu.Lock()
	defer mu.Unlock()
	ensureLoadedLocked()
	return current
}

// Reload re-reads the config file.
func Reload() error {
	mu.Lock()
	defer mu.Unlock()
	loadErr = loadLocked()
	loaded = true
	return loadErr
}

// Set replaces the in-memory config.
func Set(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	ensureLoadedLocked()
	if cfg == nil {
		cfg = make(Config)
	}
	current = Clone(cfg)
}

// Save persists the in-memory config.
func Save() error {
	mu.Lock()
	defer mu.Unlock()
	ensureLoadedLocked()
	path, err := pathLocked()
	if err != nil {
		return err
	}
	return writeConfig(path, current)
}

// Clone copies the config and its sections.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	clone := make(Config, len(cfg))
	for name, raw := range cfg {
		var section map[string]interface{}
		switch v := raw.(type) {
		case Section:
			section = v
		case map[string]interface{}:
			section = v
		default:
			clone[name] = v
			continue
		}
		out := make(Section, len(section))
		for key, value := range section {
			out[key] = value
		}
		clone[name] = out
	}
	return clone
}

// ensureLoadedLocked loads the file on first use or after SetPath.
// The caller holds mu for writing.
func ensureLoadedLocked() {
	if loaded {
		return
	}
	current = make(Config)
	loadErr = loadLocked()
	loaded = true
}

func loadLocked() error {
	path, err := pathLocked()
	if err != nil {
		klog.ErrorS(err, "Failed to resolve config path")
		current = defaultConfig()
		return err
	}

	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		klog.ErrorS(readErr, "Failed to read config", "path", path)
		cfg = make(Config)
	}

	if !exists || len(cfg) == 0 {
		cfg = defaultConfig()
		if readErr == nil {
			if err := writeConfig(path, cfg); err != nil {
				klog.ErrorS(err, "Failed to write default config", "path", path)
				readErr = err
			}
		}
	}
	applyDefaults(cfg)

	current = cfg
	if readErr == nil && exists {
		klog.V(1).InfoS("Loaded config", "path", path)
	}
	return readErr
}

func readConfig(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

func writeConfig(path string, cfg Config) error {
	if cfg == nil {
		cfg = make(Config)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
