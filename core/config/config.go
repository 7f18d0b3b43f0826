// File: config.go
// Title: Core Configuration Management
// Description: Implements the Config type for loading and accessing
//              configuration data from TOML and YAML files with environment
//              variable overrides and dot-notation key access.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation with TOML/YAML support

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdserror "github.com/msto63/mDS/core/error"
	mdsstringx "github.com/msto63/mDS/utils/stringx"
)

// Format represents the configuration file format
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota

	// FormatYAML represents YAML format
	FormatYAML

	// FormatAuto auto-detects format from file extension
	FormatAuto
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Config represents a configuration instance with thread-safe access
type Config struct {
	mu        sync.RWMutex
	data      map[string]interface{}
	filePath  string
	format    Format
	envPrefix string
}

// LoadOptions defines options for loading configuration
type LoadOptions struct {
	Format    Format                 // File format (default: auto-detect)
	EnvPrefix string                 // Environment variable prefix (default: none)
	Defaults  map[string]interface{} // Default values for missing keys
}

// Load loads configuration from a file with default options
func Load(filePath string) (*Config, error) {
	return LoadWithOptions(filePath, LoadOptions{Format: FormatAuto})
}

// LoadWithOptions loads configuration from a file with custom options
func LoadWithOptions(filePath string, options LoadOptions) (*Config, error) {
	if mdsstringx.IsBlank(filePath) {
		return nil, mdserror.New("config file path cannot be empty").
			WithCode(mdserror.CodeValidationFailed).
			WithOperation("config.LoadWithOptions")
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdserror.Newf("config file not found: %s", filePath).
				WithCode(mdserror.CodeMissingConfig).
				WithOperation("config.LoadWithOptions")
		}
		return nil, mdserror.Wrapf(err, "failed to read config file %s", filePath).
			WithCode(mdserror.CodeConfigError)
	}

	format := options.Format
	if format == FormatAuto {
		format = detectFormat(filePath)
	}

	data, err := parseContent(content, format)
	if err != nil {
		return nil, mdserror.Wrapf(err, "failed to parse config file %s", filePath).
			WithCode(mdserror.CodeConfigError)
	}

	return &Config{
		data:      mergeDefaults(data, options.Defaults),
		filePath:  filePath,
		format:    format,
		envPrefix: options.EnvPrefix,
	}, nil
}

// LoadFromString loads configuration from a string (useful for tests)
func LoadFromString(content string, format Format) (*Config, error) {
	data, err := parseContent([]byte(content), format)
	if err != nil {
		return nil, mdserror.Wrap(err, "failed to parse config content").
			WithCode(mdserror.CodeConfigError)
	}
	return &Config{data: data, format: format}, nil
}

// NewEmpty creates an empty config, useful when no config file is present
func NewEmpty() *Config {
	return &Config{data: make(map[string]interface{}), format: FormatTOML}
}

// detectFormat determines the format from the file extension
func detectFormat(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// parseContent parses raw content according to the format
func parseContent(content []byte, format Format) (map[string]interface{}, error) {
	data := make(map[string]interface{})

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	}

	return data, nil
}

// mergeDefaults fills missing top-level keys from defaults
func mergeDefaults(data, defaults map[string]interface{}) map[string]interface{} {
	if data == nil {
		data = make(map[string]interface{})
	}
	for k, v := range defaults {
		if _, exists := data[k]; !exists {
			data[k] = v
		}
	}
	return data
}

// GetString returns a string value for the given dot-notation key
func (c *Config) GetString(key string, defaultValue ...string) string {
	if env := c.getEnvValue(key); env != "" {
		return env
	}

	if value := c.getValue(key); value != nil {
		switch v := value.(type) {
		case string:
			return v
		default:
			return fmt.Sprintf("%v", v)
		}
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetInt returns an integer value for the given dot-notation key
func (c *Config) GetInt(key string, defaultValue ...int) int {
	if env := c.getEnvValue(key); env != "" {
		if i, err := strconv.Atoi(env); err == nil {
			return i
		}
	}

	if value := c.getValue(key); value != nil {
		switch v := value.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		case string:
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

// GetBool returns a boolean value for the given dot-notation key
func (c *Config) GetBool(key string, defaultValue ...bool) bool {
	if env := c.getEnvValue(key); env != "" {
		if b, err := strconv.ParseBool(env); err == nil {
			return b
		}
	}

	if value := c.getValue(key); value != nil {
		switch v := value.(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// GetDuration returns a duration value for the given dot-notation key
func (c *Config) GetDuration(key string, defaultValue ...time.Duration) time.Duration {
	if env := c.getEnvValue(key); env != "" {
		if d, err := time.ParseDuration(env); err == nil {
			return d
		}
	}

	if value := c.getValue(key); value != nil {
		switch v := value.(type) {
		case string:
			if d, err := time.ParseDuration(v); err == nil {
				return d
			}
		case int:
			return time.Duration(v) * time.Second
		case int64:
			return time.Duration(v) * time.Second
		case float64:
			return time.Duration(v * float64(time.Second))
		}
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

// Has reports whether the key exists in the configuration
func (c *Config) Has(key string) bool {
	return c.getValue(key) != nil
}

// Set sets a value for the given dot-notation key
func (c *Config) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parts := strings.Split(key, ".")
	current := c.data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// FilePath returns the path the configuration was loaded from
func (c *Config) FilePath() string {
	return c.filePath
}

// getValue resolves a dot-notation key against the nested data
func (c *Config) getValue(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	parts := strings.Split(key, ".")
	var current interface{} = c.data

	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

// getEnvValue checks for an environment variable override
func (c *Config) getEnvValue(key string) string {
	if c.envPrefix == "" {
		return ""
	}
	envKey := c.envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	return os.Getenv(envKey)
}
