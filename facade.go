// facade.go: the composed front door over Registry, LifecycleController,
// and RequestBroker.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"os"
	"path/filepath"
)

// Facade composes a Registry, LifecycleController, and RequestBroker
// behind the host-facing API surface. Unlike the singleton it is
// grounded on, NewFacade is an explicit constructor — callers that want
// one process-wide instance can hold it themselves; tests get a fresh
// instance per call for free.
type Facade struct {
	cfg      HostConfig
	logger   Logger
	clock    Clock
	registry *Registry
	broker   *RequestBroker
	lc       *LifecycleController
}

// NewFacade builds a Facade wired from cfg. A nil logger falls back to
// DefaultLogger; the clock is always the default cached clock — tests
// that need a fixed clock should drive the Registry directly. cfg.MainPlugin
// is not registered here: the named plugin does not exist in the Registry
// until a search discovers it, so registration happens lazily the first
// time ApplyMainPlugin is called, typically right after discovery.
func NewFacade(cfg HostConfig, logger Logger) *Facade {
	if logger == nil {
		logger = DefaultLogger()
	}
	clock := NewClock()
	registry := NewRegistry(clock, logger)
	broker := NewRequestBroker(registry, AppDirectory(), logger)
	lc := NewLifecycleController(registry, broker, logger)

	return &Facade{cfg: cfg, logger: logger, clock: clock, registry: registry, broker: broker, lc: lc}
}

// ApplyMainPlugin registers cfg.MainPlugin as the privileged main plugin if
// the configuration named one; it is a no-op returning nil if MainPlugin is
// empty. Callers normally invoke this once, after discovery has populated
// the Registry and before LoadPlugins.
func (f *Facade) ApplyMainPlugin() error {
	if f.cfg.MainPlugin == "" {
		return nil
	}
	return f.registry.RegisterMainPlugin(f.cfg.MainPlugin)
}

// AppDirectory returns the directory containing the host's own executable,
// or "" if it cannot be determined.
func AppDirectory() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// SearchForPlugins discovers plugins under dir, honoring recursive.
func (f *Facade) SearchForPlugins(dir string, recursive bool, callback DiscoveryCallback) (ReturnCode, error) {
	return f.registry.SearchForPlugins(dir, recursive, callback)
}

// SearchConfiguredDirectories runs SearchForPlugins over every directory
// named in the Facade's HostConfig, using its Recursive flag, then applies
// cfg.MainPlugin if one was configured.
func (f *Facade) SearchConfiguredDirectories(callback DiscoveryCallback) (ReturnCode, error) {
	overall := SearchNothingFound
	for _, dir := range f.cfg.SearchDirs {
		code, err := f.registry.SearchForPlugins(dir, f.cfg.Recursive, callback)
		if err != nil {
			return code, err
		}
		if code == Success {
			overall = Success
		}
	}
	if err := f.ApplyMainPlugin(); err != nil {
		return overall, err
	}
	return overall, nil
}

// RegisterMainPlugin designates name as the privileged main plugin.
func (f *Facade) RegisterMainPlugin(name string) error {
	return f.registry.RegisterMainPlugin(name)
}

// LoadPlugins is the bulk load entry point.
func (f *Facade) LoadPlugins(tryToContinue bool, callback DiscoveryCallback) (ReturnCode, error) {
	return f.lc.LoadPlugins(tryToContinue, callback)
}

// LoadPlugin is the targeted load entry point.
func (f *Facade) LoadPlugin(name string) (bool, error) {
	return f.lc.LoadPlugin(name)
}

// LoadPluginFromPath loads a single library outside of any search
// directory.
func (f *Facade) LoadPluginFromPath(path string) (bool, error) {
	return f.lc.LoadPluginFromPath(path)
}

// UnloadPlugins is the bulk unload entry point.
func (f *Facade) UnloadPlugins(callback DiscoveryCallback) (ReturnCode, error) {
	return f.lc.UnloadPlugins(callback)
}

// UnloadPlugin is the targeted unload entry point.
func (f *Facade) UnloadPlugin(name string) (bool, error) {
	return f.lc.UnloadPlugin(name)
}

// PluginsList returns every registered plugin name.
func (f *Facade) PluginsList() []string {
	return f.registry.Names()
}

// PluginsLocation returns the distinct directories searched so far.
func (f *Facade) PluginsLocation() []string {
	return f.registry.Locations()
}

// PluginsCount returns the number of registered plugins.
func (f *Facade) PluginsCount() int {
	return f.registry.Count()
}

// HasPlugin reports whether name is a known plugin.
func (f *Facade) HasPlugin(name string) bool {
	return f.registry.HasPlugin(name)
}

// HasPluginWithVersion reports whether name is known and its version is
// compatible with minVersion.
func (f *Facade) HasPluginWithVersion(name string, minVersion string) bool {
	record := f.registry.Get(name)
	if record == nil {
		return false
	}
	required, err := ParseVersion(minVersion)
	if err != nil {
		return false
	}
	actual, err := ParseVersion(record.Metadata().Version)
	if err != nil {
		return false
	}
	return actual.Compatible(required)
}

// IsPluginLoaded reports whether name is both known and currently LIVE.
func (f *Facade) IsPluginLoaded(name string) bool {
	record := f.registry.Get(name)
	return record != nil && record.IsLoaded()
}

// PluginObject returns the live instance for name, or nil if not loaded.
func (f *Facade) PluginObject(name string) IPlugin {
	record := f.registry.Get(name)
	if record == nil {
		return nil
	}
	return record.Instance()
}

// PluginInfo returns a snapshot of name's metadata, or the zero value if
// name is unknown.
func (f *Facade) PluginInfo(name string) PluginInfo {
	record := f.registry.Get(name)
	if record == nil {
		return PluginInfo{}
	}
	return pluginInfoFromMetadata(record.Metadata())
}

// PluginAPI returns the host's plugin API version.
func (f *Facade) PluginAPI() string {
	return JPPluginAPI
}
