// config.go: host configuration loading and validation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agilira/argus"
	goerrors "github.com/agilira/go-errors"
	"gopkg.in/yaml.v3"
)

// HostConfig describes how a Facade discovers and loads plugins. It is the
// serializable counterpart to the options a caller would otherwise set by
// hand when constructing a Facade.
type HostConfig struct {
	SearchDirs       []string `json:"searchDirs" yaml:"searchDirs"`
	Recursive        bool     `json:"recursive" yaml:"recursive"`
	MinSystemVersion string   `json:"minSystemVersion" yaml:"minSystemVersion"`
	MainPlugin       string   `json:"mainPlugin" yaml:"mainPlugin"`
	LoggerLevel      string   `json:"loggerLevel" yaml:"loggerLevel"`
}

// LoadConfigFile reads path, detects its format from the extension, and
// parses it into a HostConfig.
func LoadConfigFile(path string) (HostConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HostConfig{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	format := argus.DetectFormat(path)
	return loadConfigWithFormat(data, format)
}

// LoadConfigBytes parses data into a HostConfig. formatHint is a file
// extension such as "json", "yaml", or "toml", used the same way
// LoadConfigFile derives a format from a path. An empty hint passes an
// empty name to argus.DetectFormat, so there is no extension to detect a
// format from; the data itself is not inspected.
func LoadConfigBytes(data []byte, formatHint string) (HostConfig, error) {
	var format argus.ConfigFormat
	if formatHint != "" {
		format = argus.DetectFormat("config." + formatHint)
	} else {
		format = argus.DetectFormat("")
	}
	return loadConfigWithFormat(data, format)
}

func loadConfigWithFormat(data []byte, format argus.ConfigFormat) (HostConfig, error) {
	var cfg HostConfig

	switch format {
	case argus.FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return HostConfig{}, wrapConfigParseError(format, err)
		}
	default:
		configMap, err := argus.ParseConfig(data, format)
		if err != nil {
			return HostConfig{}, wrapConfigParseError(format, err)
		}
		if err := bindHostConfig(configMap, &cfg); err != nil {
			return HostConfig{}, wrapConfigParseError(format, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return HostConfig{}, err
	}

	return cfg, nil
}

func bindHostConfig(m map[string]any, cfg *HostConfig) error {
	if v, ok := m["searchDirs"].([]any); ok {
		dirs := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("searchDirs entries must be strings")
			}
			dirs = append(dirs, s)
		}
		cfg.SearchDirs = dirs
	}
	if v, ok := m["recursive"].(bool); ok {
		cfg.Recursive = v
	}
	if v, ok := m["minSystemVersion"].(string); ok {
		cfg.MinSystemVersion = v
	}
	if v, ok := m["mainPlugin"].(string); ok {
		cfg.MainPlugin = v
	}
	if v, ok := m["loggerLevel"].(string); ok {
		cfg.LoggerLevel = v
	}
	return nil
}

func wrapConfigParseError(format argus.ConfigFormat, cause error) *goerrors.Error {
	return NewConfigParseError(fmt.Sprintf("%v", format), cause)
}

// Validate reports whether the config satisfies the invariants a Facade
// requires before it will attempt discovery: at least one search directory,
// each of which filepath.Abs accepts.
func (c HostConfig) Validate() error {
	if len(c.SearchDirs) == 0 {
		return NewConfigInvalidError("searchDirs must contain at least one entry")
	}
	for _, dir := range c.SearchDirs {
		if _, err := filepath.Abs(dir); err != nil {
			return NewConfigInvalidError(fmt.Sprintf("search directory %q is not a valid path: %v", dir, err))
		}
	}
	return nil
}
