// File: doc.go
// Title: Package Documentation for core/config
// Description: Package documentation for the mDS configuration package.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial documentation

// Package config loads runtime configuration from TOML or YAML files and
// provides typed access through dot-notation keys.
//
// Environment variables override file values when an EnvPrefix is set; a
// key like "privileged.endpoint" maps to MDS_PRIVILEGED_ENDPOINT:
//
//	cfg, err := config.LoadWithOptions("config.toml", config.LoadOptions{
//		EnvPrefix: "MDS",
//	})
//	endpoint := cfg.GetString("privileged.endpoint", "http://localhost:8710")
//
// All getters accept an optional default value returned when the key is
// absent in both the file and the environment.
package config
