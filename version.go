// version.go: semantic version parsing and API compatibility checks
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"strconv"
	"strings"
)

// JPPluginAPI is the plugin ABI version this host implements. A plugin's
// declared api version must be Compatible with this value to be admitted.
const JPPluginAPI = "1.0.0"

// Version is a parsed MAJOR.MINOR.PATCH string with optional prerelease
// and build metadata suffixes, which are retained for String() but never
// participate in Compatible().
type Version struct {
	Major, Minor, Patch uint64
	Prerelease          string
	Build               string
	Original            string
}

// ParseVersion parses a version string of the form "MAJOR.MINOR.PATCH",
// optionally followed by a "-prerelease" and/or "+build" suffix. Extra
// suffixes are accepted and preserved but do not affect comparisons.
func ParseVersion(raw string) (Version, error) {
	original := raw

	if idx := strings.IndexByte(raw, '+'); idx >= 0 {
		raw = raw[:idx]
	}

	var prerelease string
	core := raw
	if idx := strings.IndexByte(raw, '-'); idx >= 0 {
		core = raw[:idx]
		prerelease = raw[idx+1:]
	}

	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version{}, NewInvalidVersionStringError(original, nil)
	}

	major, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Version{}, NewInvalidVersionStringError(original, err)
	}
	minor, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Version{}, NewInvalidVersionStringError(original, err)
	}
	patch, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return Version{}, NewInvalidVersionStringError(original, err)
	}

	var build string
	if idx := strings.IndexByte(original, '+'); idx >= 0 {
		build = original[idx+1:]
	}

	return Version{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: prerelease,
		Build:      build,
		Original:   original,
	}, nil
}

// String returns the original string this Version was parsed from.
func (v Version) String() string {
	if v.Original != "" {
		return v.Original
	}
	return strconv.FormatUint(v.Major, 10) + "." + strconv.FormatUint(v.Minor, 10) + "." + strconv.FormatUint(v.Patch, 10)
}

// Compatible reports whether v satisfies required: same major, and
// (minor, patch) lexicographically greater than or equal to required's.
// Prerelease and build metadata never affect this check.
func (v Version) Compatible(required Version) bool {
	if v.Major != required.Major {
		return false
	}
	if v.Minor != required.Minor {
		return v.Minor > required.Minor
	}
	return v.Patch >= required.Patch
}

// Compare returns -1, 0, or 1 if v is less than, equal to, or greater
// than other, comparing major, minor, then patch. Prerelease and build
// metadata are ignored.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpUint64(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpUint64(v.Minor, other.Minor)
	default:
		return cmpUint64(v.Patch, other.Patch)
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
