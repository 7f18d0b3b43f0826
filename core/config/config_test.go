// File: config_test.go
// Title: Configuration Unit Tests
// Description: Tests for TOML/YAML loading, dot-notation access, typed
//              getters, defaults, and environment overrides.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial test suite

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mdserror "github.com/msto63/mDS/core/error"
)

const tomlSample = `
[runtime]
iteration_limit = 10000
strict = false

[privileged]
endpoint = "http://localhost:8710"
timeout = "5s"
`

const yamlSample = `
runtime:
  iteration_limit: 10000
  strict: false
privileged:
  endpoint: "http://localhost:8710"
  timeout: "5s"
`

func TestLoadFromString_TOML(t *testing.T) {
	cfg, err := LoadFromString(tomlSample, FormatTOML)
	if err != nil {
		t.Fatalf("LoadFromString failed: %v", err)
	}

	if got := cfg.GetInt("runtime.iteration_limit"); got != 10000 {
		t.Errorf("GetInt = %d, want 10000", got)
	}
	if got := cfg.GetString("privileged.endpoint"); got != "http://localhost:8710" {
		t.Errorf("GetString = %q", got)
	}
	if cfg.GetBool("runtime.strict") {
		t.Error("GetBool = true, want false")
	}
	if got := cfg.GetDuration("privileged.timeout"); got != 5*time.Second {
		t.Errorf("GetDuration = %v, want 5s", got)
	}
}

func TestLoadFromString_YAML(t *testing.T) {
	cfg, err := LoadFromString(yamlSample, FormatYAML)
	if err != nil {
		t.Fatalf("LoadFromString failed: %v", err)
	}

	if got := cfg.GetInt("runtime.iteration_limit"); got != 10000 {
		t.Errorf("GetInt = %d, want 10000", got)
	}
	if got := cfg.GetDuration("privileged.timeout"); got != 5*time.Second {
		t.Errorf("GetDuration = %v, want 5s", got)
	}
}

func TestLoad_AutoDetect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yamlSample), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.GetString("privileged.endpoint"); got != "http://localhost:8710" {
		t.Errorf("GetString = %q", got)
	}
	if cfg.FilePath() != path {
		t.Errorf("FilePath = %q, want %q", cfg.FilePath(), path)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !mdserror.HasCode(err, mdserror.CodeMissingConfig) {
		t.Errorf("code = %v, want %v", mdserror.CodeOf(err), mdserror.CodeMissingConfig)
	}
}

func TestGetters_Defaults(t *testing.T) {
	cfg := NewEmpty()

	if got := cfg.GetString("no.such.key", "fallback"); got != "fallback" {
		t.Errorf("GetString default = %q", got)
	}
	if got := cfg.GetInt("no.such.key", 42); got != 42 {
		t.Errorf("GetInt default = %d", got)
	}
	if got := cfg.GetBool("no.such.key", true); !got {
		t.Error("GetBool default = false")
	}
	if got := cfg.GetDuration("no.such.key", time.Minute); got != time.Minute {
		t.Errorf("GetDuration default = %v", got)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg, err := LoadFromString(tomlSample, FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	cfg.envPrefix = "MDSTEST"

	t.Setenv("MDSTEST_PRIVILEGED_ENDPOINT", "http://override:9000")
	t.Setenv("MDSTEST_RUNTIME_ITERATION_LIMIT", "500")

	if got := cfg.GetString("privileged.endpoint"); got != "http://override:9000" {
		t.Errorf("env override GetString = %q", got)
	}
	if got := cfg.GetInt("runtime.iteration_limit"); got != 500 {
		t.Errorf("env override GetInt = %d", got)
	}
}

func TestSetAndHas(t *testing.T) {
	cfg := NewEmpty()
	cfg.Set("runtime.max_call_depth", 32)

	if !cfg.Has("runtime.max_call_depth") {
		t.Error("Has = false after Set")
	}
	if got := cfg.GetInt("runtime.max_call_depth"); got != 32 {
		t.Errorf("GetInt = %d, want 32", got)
	}
	if cfg.Has("runtime.unset") {
		t.Error("Has = true for unset key")
	}
}

func TestLoadFromString_Invalid(t *testing.T) {
	if _, err := LoadFromString("not = [valid", FormatTOML); err == nil {
		t.Error("expected error for invalid TOML")
	}
	if _, err := LoadFromString(":\n  - bad", FormatYAML); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
