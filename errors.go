// errors.go: return-code taxonomy and structured error definitions
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"github.com/agilira/go-errors"
)

// ReturnCode is the tagged result of a host-facing operation. Success is
// the only value for which IsSuccess reports true; Go has no implicit
// bool conversion for named types, so call sites spell out
// "if !code.IsSuccess()" where the reference API relied on operator bool.
type ReturnCode int

const (
	Success ReturnCode = iota
	UnknownError

	SearchNothingFound
	SearchCannotParseMetadata
	SearchNameAlreadyExists
	SearchListFilesError

	LoadDependencyBadVersion
	LoadDependencyNotFound
	LoadDependencyCycle

	UnloadNotAll
)

// IsSuccess reports whether the code represents a successful operation.
func (c ReturnCode) IsSuccess() bool {
	return c == Success
}

// Message returns a stable, human-readable description of the code.
func (c ReturnCode) Message() string {
	switch c {
	case Success:
		return "success"
	case UnknownError:
		return "unknown error"
	case SearchNothingFound:
		return "no plugin found in the given directory"
	case SearchCannotParseMetadata:
		return "cannot parse the plugin metadata"
	case SearchNameAlreadyExists:
		return "a plugin with this name already exists"
	case SearchListFilesError:
		return "cannot list files in the given directory"
	case LoadDependencyBadVersion:
		return "a dependency was found but has an incompatible version"
	case LoadDependencyNotFound:
		return "a dependency was not found"
	case LoadDependencyCycle:
		return "a cycle was detected in the dependency graph"
	case UnloadNotAll:
		return "not all plugins could be unloaded"
	default:
		return "unknown error"
	}
}

// Error codes for the plugin host, grouped by concern.
const (
	ErrCodeInvalidPluginName    = "PLUGIN_1001"
	ErrCodeInvalidMetadata      = "PLUGIN_1002"
	ErrCodeIncompatibleAPI      = "PLUGIN_1003"
	ErrCodeMissingSymbol        = "PLUGIN_1004"
	ErrCodeInvalidVersionString = "PLUGIN_1005"

	ErrCodeDiscoveryListFailed = "DISCOVERY_1101"
	ErrCodeDiscoveryLoadFailed = "DISCOVERY_1102"

	ErrCodeDependencyNotFound = "DEPENDENCY_1201"
	ErrCodeDependencyBadVer   = "DEPENDENCY_1202"
	ErrCodeDependencyCycle    = "DEPENDENCY_1203"

	ErrCodePluginNotFound       = "LIFECYCLE_1301"
	ErrCodePluginAlreadyLoaded  = "LIFECYCLE_1302"
	ErrCodeUnloadFailed         = "LIFECYCLE_1303"
	ErrCodeMainPluginAlreadySet = "LIFECYCLE_1304"
	ErrCodeMainPluginNotFound   = "LIFECYCLE_1305"

	ErrCodeUnknownRequest = "BROKER_1401"

	ErrCodeConfigInvalid = "CONFIG_1501"
	ErrCodeConfigParse   = "CONFIG_1502"

	ErrCodePluginExecutionPanic = "PANIC_1601"

	ErrCodePlatformUnsupported = "NATIVELIB_1701"
)

// NewInvalidPluginNameError reports a plugin metadata record whose name is
// empty or fails the identifier grammar.
func NewInvalidPluginNameError(name string) *errors.Error {
	return errors.New(ErrCodeInvalidPluginName, "invalid plugin name").
		WithUserMessage("plugin name is required and must match [A-Za-z_][A-Za-z0-9_]*").
		WithContext("provided_name", name).
		WithSeverity("error")
}

// NewInvalidMetadataError reports a metadata record missing a required field.
func NewInvalidMetadataError(path string, field string) *errors.Error {
	return errors.New(ErrCodeInvalidMetadata, "invalid plugin metadata").
		WithUserMessage("plugin metadata is missing a required field").
		WithContext("path", path).
		WithContext("missing_field", field).
		WithSeverity("error")
}

// NewIncompatibleAPIError reports metadata whose declared API version is
// not compatible with the host's JPPluginAPI.
func NewIncompatibleAPIError(path string, declared string, required string) *errors.Error {
	return errors.New(ErrCodeIncompatibleAPI, "incompatible plugin API version").
		WithUserMessage("plugin was built against an incompatible API version").
		WithContext("path", path).
		WithContext("declared_api", declared).
		WithContext("required_api", required).
		WithSeverity("error")
}

// NewMissingSymbolError reports a candidate library missing one of the
// three required exported symbols.
func NewMissingSymbolError(path string, symbol string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeMissingSymbol, "missing exported symbol").
		WithUserMessage("candidate library does not export a required symbol").
		WithContext("path", path).
		WithContext("symbol", symbol).
		WithSeverity("warning")
}

// NewInvalidVersionStringError reports a version string that failed to parse.
func NewInvalidVersionStringError(raw string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeInvalidVersionString, "invalid version string").
		WithUserMessage("version string is not of the form MAJOR.MINOR.PATCH").
		WithContext("raw_version", raw).
		WithSeverity("error")
}

// NewDiscoveryListFailedError reports a directory enumeration failure.
func NewDiscoveryListFailedError(dir string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeDiscoveryListFailed, "failed to list plugin directory").
		WithUserMessage("could not enumerate candidate libraries").
		WithContext("dir", dir).
		WithSeverity("error")
}

// NewDiscoveryLoadFailedError reports a native library open failure for a
// single discovery candidate (non-fatal; the candidate is discarded).
func NewDiscoveryLoadFailedError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeDiscoveryLoadFailed, "failed to open candidate library").
		WithUserMessage("candidate library could not be opened").
		WithContext("path", path).
		WithSeverity("warning")
}

// NewDependencyNotFoundError reports a declared dependency with no
// matching record in the Registry.
func NewDependencyNotFoundError(pluginName string, depName string) *errors.Error {
	return errors.New(ErrCodeDependencyNotFound, "dependency not found").
		WithUserMessage("a declared dependency was not discovered").
		WithContext("plugin_name", pluginName).
		WithContext("dependency_name", depName).
		WithSeverity("error")
}

// NewDependencyBadVersionError reports a dependency whose installed
// version does not satisfy the declared minimum.
func NewDependencyBadVersionError(pluginName string, depName string, have string, want string) *errors.Error {
	return errors.New(ErrCodeDependencyBadVer, "dependency version incompatible").
		WithUserMessage("a declared dependency does not satisfy the minimum version").
		WithContext("plugin_name", pluginName).
		WithContext("dependency_name", depName).
		WithContext("have_version", have).
		WithContext("want_version", want).
		WithSeverity("error")
}

// NewDependencyCycleError reports a cycle detected while computing load order.
func NewDependencyCycleError(names []string) *errors.Error {
	return errors.New(ErrCodeDependencyCycle, "dependency cycle detected").
		WithUserMessage("the dependency graph contains a cycle").
		WithContext("involved_plugins", names).
		WithSeverity("error")
}

// NewPluginNotFoundError reports an operation referencing an unknown plugin name.
func NewPluginNotFoundError(name string) *errors.Error {
	return errors.New(ErrCodePluginNotFound, "plugin not found").
		WithUserMessage("the requested plugin is not in the registry").
		WithContext("plugin_name", name).
		WithSeverity("error")
}

// NewUnloadFailedError reports a library that failed to report not-loaded
// after an unload attempt.
func NewUnloadFailedError(name string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeUnloadFailed, "unload failed").
		WithUserMessage("plugin could not be fully unloaded").
		WithContext("plugin_name", name).
		WithSeverity("error")
}

// NewMainPluginAlreadySetError reports a second attempt to register a main plugin.
func NewMainPluginAlreadySetError(current string, attempted string) *errors.Error {
	return errors.New(ErrCodeMainPluginAlreadySet, "main plugin already registered").
		WithUserMessage("a main plugin is already registered").
		WithContext("current_main_plugin", current).
		WithContext("attempted_main_plugin", attempted).
		WithSeverity("error")
}

// NewMainPluginNotFoundError reports registerMainPlugin naming an unknown plugin.
func NewMainPluginNotFoundError(name string) *errors.Error {
	return errors.New(ErrCodeMainPluginNotFound, "main plugin candidate not found").
		WithUserMessage("the named plugin does not exist in the registry").
		WithContext("plugin_name", name).
		WithSeverity("error")
}

// NewConfigInvalidError reports a HostConfig that failed validation.
func NewConfigInvalidError(reason string) *errors.Error {
	return errors.New(ErrCodeConfigInvalid, "invalid host configuration: "+reason).
		WithUserMessage("host configuration failed validation").
		WithSeverity("error")
}

// NewConfigParseError reports a malformed configuration document.
func NewConfigParseError(format string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeConfigParse, "failed to parse host configuration").
		WithUserMessage("host configuration could not be parsed").
		WithContext("format", format).
		WithSeverity("error")
}

// NewPluginExecutionPanicError reports a recovered panic raised inside
// plugin-supplied code.
func NewPluginExecutionPanicError(pluginName string, entryPoint string, recovered any) *errors.Error {
	return errors.New(ErrCodePluginExecutionPanic, "plugin entry point panicked").
		WithUserMessage("a plugin panicked and was contained by the host").
		WithContext("plugin_name", pluginName).
		WithContext("entry_point", entryPoint).
		WithContext("recovered", recovered).
		WithSeverity("error")
}

// NewPlatformUnsupportedError reports an attempt to load a native plugin
// on a platform without buildmode=plugin support.
func NewPlatformUnsupportedError(path string) *errors.Error {
	return errors.New(ErrCodePlatformUnsupported, "native plugin loading unsupported on this platform").
		WithUserMessage("this platform does not support loading native plugins").
		WithContext("path", path).
		WithSeverity("error")
}
