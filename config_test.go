// config_test.go: host configuration loading coverage
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Covers scenario E9: a YAML host config with two search directories and
// recursive: true parses to a HostConfig whose SearchDirs has length 2 and
// Recursive is true.
func TestLoadConfigBytes_YAMLTwoSearchDirs(t *testing.T) {
	data := []byte(`
searchDirs:
  - ./plugins
  - ./extra-plugins
recursive: true
mainPlugin: core
`)

	cfg, err := LoadConfigBytes(data, "yaml")
	require.NoError(t, err)
	assert.Len(t, cfg.SearchDirs, 2)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, "core", cfg.MainPlugin)
}

func TestLoadConfigBytes_JSON(t *testing.T) {
	data := []byte(`{"searchDirs": ["./plugins"], "recursive": false, "loggerLevel": "debug"}`)

	cfg, err := LoadConfigBytes(data, "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"./plugins"}, cfg.SearchDirs)
	assert.Equal(t, "debug", cfg.LoggerLevel)
}

func TestLoadConfigBytes_EmptySearchDirsRejected(t *testing.T) {
	data := []byte(`{"searchDirs": []}`)

	_, err := LoadConfigBytes(data, "json")
	assert.Error(t, err, "expected validation error for empty searchDirs")
}

func TestLoadConfigBytes_MalformedRejected(t *testing.T) {
	data := []byte(`{not valid json`)

	_, err := LoadConfigBytes(data, "json")
	assert.Error(t, err, "expected parse error for malformed JSON")
}

func TestHostConfig_ValidateDefaults(t *testing.T) {
	cfg := HostConfig{SearchDirs: []string{"./plugins"}}
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Recursive, "expected Recursive default to be false")
	assert.Empty(t, cfg.MinSystemVersion, "expected no minimum system version default")
}
