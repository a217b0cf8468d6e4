// version_test.go: version parsing and compatibility coverage
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

func TestParseVersion_Basic(t *testing.T) {
	v, err := ParseVersion("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Major)
	assert.Equal(t, uint64(2), v.Minor)
	assert.Equal(t, uint64(3), v.Patch)
}

func TestParseVersion_PrereleaseAndBuild(t *testing.T) {
	v, err := ParseVersion("2.0.0-beta.1+build42")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v.Major)
	assert.Equal(t, uint64(0), v.Minor)
	assert.Equal(t, uint64(0), v.Patch)
	assert.Equal(t, "beta.1", v.Prerelease)
	assert.Equal(t, "build42", v.Build)
}

func TestParseVersion_Invalid(t *testing.T) {
	cases := []string{"", "1.2", "1.2.3.4", "a.b.c"}
	for _, c := range cases {
		_, err := ParseVersion(c)
		assert.Error(t, err, "expected error parsing %q", c)
	}
}

// Covers testable property 6: version compatibility.
func TestVersion_Compatible(t *testing.T) {
	base := mustParseVersion(t, "1.2.3")

	tests := []struct {
		required string
		want     bool
	}{
		{"1.2.3", true},
		{"1.2.4", false},
		{"1.1.9", true},
		{"2.0.0", false},
	}

	for _, tt := range tests {
		req := mustParseVersion(t, tt.required)
		assert.Equal(t, tt.want, base.Compatible(req), "Version(1.2.3).Compatible(%s)", tt.required)
	}
}

func TestVersion_CompatibleHigherMinorLowerPatch(t *testing.T) {
	v := mustParseVersion(t, "1.3.0")
	req := mustParseVersion(t, "1.2.9")
	assert.True(t, v.Compatible(req), "1.3.0 should be compatible with required 1.2.9 (minor dominates)")
}

func TestVersion_Compare(t *testing.T) {
	a := mustParseVersion(t, "1.2.3")
	b := mustParseVersion(t, "1.2.4")

	assert.Negative(t, a.Compare(b), "expected 1.2.3 < 1.2.4")
	assert.Positive(t, b.Compare(a), "expected 1.2.4 > 1.2.3")
	assert.Zero(t, a.Compare(a), "expected 1.2.3 == 1.2.3")
}

func TestVersion_String(t *testing.T) {
	v := mustParseVersion(t, "1.2.3-rc1")
	assert.Equal(t, "1.2.3-rc1", v.String(), "expected original string preserved")
}

func mustParseVersion(t *testing.T, raw string) Version {
	t.Helper()
	v, err := ParseVersion(raw)
	require.NoError(t, err, "failed to parse version %q", raw)
	return v
}
