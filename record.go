// record.go: per-plugin state held by the Registry
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import "time"

// triState memoizes a three-valued outcome (dependency resolution) without
// resorting to a *bool or a sentinel int.
type triState int

const (
	triUnknown triState = iota
	triYes
	triNo
)

// PluginRecord is the Registry's per-plugin state: everything needed to
// load, unload, and answer broker queries about one discovered library.
// It has value semantics except for the library handle and instance it
// owns, both of which release() tears down exactly once.
type PluginRecord struct {
	path    string
	handle  nativeLibrary
	metadata PluginMetadata

	creator JPCreatePlugin
	instance IPlugin

	dependenciesResolved triState
	graphID              int
	isMainPlugin         bool

	discoveredAt time.Time
	released     bool
}

// newPluginRecord builds a record for a freshly discovered library. graphID
// starts at -1, meaning "not part of the current load pass".
func newPluginRecord(path string, handle nativeLibrary, metadata PluginMetadata, creator JPCreatePlugin, discoveredAt time.Time) *PluginRecord {
	return &PluginRecord{
		path:                 path,
		handle:               handle,
		metadata:             metadata,
		creator:              creator,
		dependenciesResolved: triUnknown,
		graphID:              -1,
		discoveredAt:         discoveredAt,
	}
}

// Name returns the plugin's unique name, as declared in its metadata.
func (r *PluginRecord) Name() string { return r.metadata.Name }

// Metadata returns the plugin's parsed metadata.
func (r *PluginRecord) Metadata() PluginMetadata { return r.metadata }

// IsLoaded reports whether this record currently has a live instance.
func (r *PluginRecord) IsLoaded() bool { return r.instance != nil && !r.released }

// Instance returns the live plugin object, or nil if not currently loaded.
func (r *PluginRecord) Instance() IPlugin { return r.instance }

// resetForLoadPass clears the per-pass graph bookkeeping before a bulk load.
func (r *PluginRecord) resetForLoadPass() {
	r.graphID = -1
}

// release is the idempotent teardown routine the explicit unload path
// calls. It is safe to call more than once: only the first call has any
// effect, so a record reachable from more than one unload step never runs
// AboutToBeUnloaded twice.
func (r *PluginRecord) release(logger Logger) {
	if r.released {
		return
	}
	r.released = true

	if r.instance != nil {
		inst := r.instance
		r.instance = nil
		panicked, recovered := guardCall(logger, r.metadata.Name, "aboutToBeUnloaded", func() {
			inst.AboutToBeUnloaded()
		})
		if panicked {
			logger.Error("plugin panicked during unload",
				"plugin", r.metadata.Name,
				"error", NewPluginExecutionPanicError(r.metadata.Name, "aboutToBeUnloaded", recovered))
		}
	}

	if r.handle != nil {
		if err := r.handle.Unload(); err != nil {
			logger.Warn("failed to unload native library", "plugin", r.metadata.Name, "path", r.path, "error", err)
		}
	}
}
