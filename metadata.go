// metadata.go: embedded plugin metadata parsing and validation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"encoding/json"
	"regexp"
)

// pluginNamePattern is the identifier grammar required of a plugin's name.
var pluginNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Dependency is a single declared dependency: another plugin's name and
// the minimum version of it this plugin requires.
type Dependency struct {
	Name       string `json:"name"`
	MinVersion string `json:"version"`
}

// PluginMetadata is the parsed form of a plugin's embedded JPMetadata
// symbol. A PluginMetadata with an empty Name must never be admitted to
// the Registry.
type PluginMetadata struct {
	APIVersion   string       `json:"api"`
	Name         string       `json:"name"`
	PrettyName   string       `json:"prettyName"`
	Version      string       `json:"version"`
	Author       string       `json:"author"`
	URL          string       `json:"url"`
	License      string       `json:"license"`
	Copyright    string       `json:"copyright"`
	Dependencies []Dependency `json:"dependencies"`
}

// ParseMetadata decodes raw UTF-8 JSON into a PluginMetadata, validating
// every required field and gating the declared API version against
// JPPluginAPI. Any failure is reported as a structured error and the
// caller is expected to treat the candidate as SearchCannotParseMetadata.
func ParseMetadata(raw []byte) (PluginMetadata, error) {
	var meta PluginMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return PluginMetadata{}, NewInvalidMetadataError("", "json: "+err.Error())
	}

	required := map[string]string{
		"api":        meta.APIVersion,
		"name":       meta.Name,
		"prettyName": meta.PrettyName,
		"version":    meta.Version,
		"author":     meta.Author,
		"url":        meta.URL,
		"license":    meta.License,
		"copyright":  meta.Copyright,
	}
	for field, value := range required {
		if value == "" {
			return PluginMetadata{}, NewInvalidMetadataError("", field)
		}
	}

	if !pluginNamePattern.MatchString(meta.Name) {
		return PluginMetadata{}, NewInvalidPluginNameError(meta.Name)
	}

	apiVersion, err := ParseVersion(meta.APIVersion)
	if err != nil {
		return PluginMetadata{}, err
	}
	hostAPI, err := ParseVersion(JPPluginAPI)
	if err != nil {
		return PluginMetadata{}, err
	}
	if !apiVersion.Compatible(hostAPI) {
		return PluginMetadata{}, NewIncompatibleAPIError("", meta.APIVersion, JPPluginAPI)
	}

	return meta, nil
}
