// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

func resetStore() {
	loaded = false
	current = nil
	override = ""
	loadErr = nil
}

func TestDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := Get()
	if got := cfg.GetString(SectionAPI, "base_url", ""); got != DefaultAPIURL {
		t.Fatalf("expected base_url %q, got %q", DefaultAPIURL, got)
	}

	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if disk.Section(SectionServer) == nil {
		t.Fatalf("expected server section to be present")
	}
}

func TestSaveWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := Clone(Get())
	cfg.SetValue(SectionServer, "listen", ":9090")
	Set(cfg)
	if err := Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := Get().GetString(SectionServer, "listen", ""); got != ":9090" {
		t.Fatalf("expected listen :9090 after reload, got %q", got)
	}
}

func TestExplicitPathKeepsUserValues(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	path := filepath.Join(t.TempDir(), "custom.json")
	if err := writeConfig(path, Config{
		"api": map[string]interface{}{"base_url": "https://review.example.com"},
	}); err != nil {
		t.Fatalf("write config: %v", err)
	}
	SetPath(path)

	cfg := Get()
	if got := cfg.GetString(SectionAPI, "base_url", ""); got != "https://review.example.com" {
		t.Fatalf("expected user base_url, got %q", got)
	}
	if got := cfg.GetInt(SectionAPI, "timeout_seconds", 0); got != DefaultTimeoutSeconds {
		t.Fatalf("expected default timeout to be filled in, got %d", got)
	}
}

func TestCorruptFileFallsBack(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{oops"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	SetPath(path)

	if Err() == nil {
		t.Fatalf("expected a load error")
	}
	if got := Get().GetString(SectionServer, "listen", ""); got != DefaultListen {
		t.Fatalf("expected default listen, got %q", got)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{oops" {
		t.Fatalf("corrupt file must not be overwritten")
	}
}

func TestSetPathWhileReading(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	dir := t.TempDir()
	paths := make([]string, 4)
	for i := range paths {
		paths[i] = filepath.Join(dir, "cfg"+strconv.Itoa(i)+".json")
		if err := writeConfig(paths[i], Config{
			"server": map[string]interface{}{"listen": ":900" + strconv.Itoa(i)},
		}); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}

	SetPath(paths[0])
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			SetPath(paths[i%len(paths)])
		}(i)
		go func() {
			defer wg.Done()
			if got := Get().GetString(SectionServer, "listen", ""); !strings.HasPrefix(got, ":900") {
				t.Errorf("unexpected listen %q", got)
			}
			_ = Err()
		}()
	}
	wg.Wait()

	SetPath(paths[2])
	if got := Get().GetString(SectionServer, "listen", ""); got != ":9002" {
		t.Fatalf("expected the last path to win, got %q", got)
	}
}

func TestTypedGetters(t *testing.T) {
	cfg := Config{
		"s": map[string]interface{}{
			"f":    1.5,
			"n":    json.Number("7"),
			"str":  "12",
			"flag": "true",
			"zero": 0.0,
		},
	}
	if got := cfg.GetInt("s", "f", 0); got != 1 {
		t.Fatalf("GetInt float: %d", got)
	}
	if got := cfg.GetInt("s", "n", 0); got != 7 {
		t.Fatalf("GetInt number: %d", got)
	}
	if got := cfg.GetInt("s", "str", 0); got != 12 {
		t.Fatalf("GetInt string: %d", got)
	}
	if got := cfg.GetFloat("s", "missing", 2.5); got != 2.5 {
		t.Fatalf("GetFloat default: %v", got)
	}
	if !cfg.GetBool("s", "flag", false) || cfg.GetBool("s", "zero", true) {
		t.Fatalf("GetBool conversions wrong")
	}
	if got := cfg.GetSeconds("s", "str", time.Second); got != 12*time.Second {
		t.Fatalf("GetSeconds: %v", got)
	}
}

func TestResolveEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := defaultConfig()
	env := map[string]string{
		EnvAPIURL:  "https://api.example.com",
		EnvListen:  "127.0.0.1:4000",
		EnvDataDir: "/tmp/deckreview-data",
	}
	s, err := Resolve(cfg, func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.APIURL != "https://api.example.com" || s.Listen != "127.0.0.1:4000" {
		t.Fatalf("env overrides not applied: %+v", s)
	}
	if s.PrefsPath() != filepath.Join("/tmp/deckreview-data", "prefs.db") {
		t.Fatalf("unexpected prefs path %q", s.PrefsPath())
	}
	if s.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", s.Timeout)
	}
}

func TestResolveDefaultsAndErrors(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	s, err := Resolve(Config{}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.DataDir != filepath.Join(root, "deckreview") {
		t.Fatalf("expected data dir under config root, got %q", s.DataDir)
	}

	bad := Config{"api": map[string]interface{}{"base_url": "ftp://nope"}}
	if _, err := Resolve(bad, nil); err == nil {
		t.Fatalf("expected invalid scheme to fail")
	}
}

func TestResolveUISettings(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	s, err := Resolve(defaultConfig(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.ToastLifetime != 3*time.Second || !s.Color {
		t.Fatalf("unexpected ui defaults: %v %v", s.ToastLifetime, s.Color)
	}

	cfg := defaultConfig()
	cfg.SetValue(SectionUI, "toast_seconds", 1.5)
	cfg.SetValue(SectionUI, "color", "false")
	if s, err = Resolve(cfg, nil); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.ToastLifetime != 1500*time.Millisecond || s.Color {
		t.Fatalf("ui overrides not applied: %v %v", s.ToastLifetime, s.Color)
	}

	cfg.SetValue(SectionUI, "toast_seconds", -2)
	if s, _ = Resolve(cfg, nil); s.ToastLifetime != 3*time.Second {
		t.Fatalf("non-positive lifetime should fall back, got %v", s.ToastLifetime)
	}
}
