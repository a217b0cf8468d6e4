// registry.go: in-memory plugin index and discovery driver
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
)

// DiscoveryCallback receives a ReturnCode and a path or name for every
// non-fatal discovery event (name collisions, unparsable metadata, list
// errors) that searchForPlugins encounters while walking a directory.
type DiscoveryCallback func(code ReturnCode, detail string)

// nativeLibraryExtension returns the platform-specific shared-library
// suffix searchForPlugins enumerates.
func nativeLibraryExtension() string {
	switch runtime.GOOS {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// Registry is the in-memory mapping from unique plugin name to
// PluginRecord. It also owns the discovery-location bookkeeping and the
// last-computed load order, but never touches a library handle directly —
// that is PluginRecord's job.
type Registry struct {
	records    map[string]*PluginRecord
	sequence   []string
	locations  []string
	loadOrder  []string
	mainPlugin string

	clock  Clock
	logger Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(clock Clock, logger Logger) *Registry {
	return &Registry{
		records: make(map[string]*PluginRecord),
		clock:   clock,
		logger:  logger,
	}
}

// HasPlugin reports whether name is a known plugin.
func (r *Registry) HasPlugin(name string) bool {
	_, ok := r.records[name]
	return ok
}

// Get returns the record for name, or nil if unknown.
func (r *Registry) Get(name string) *PluginRecord {
	return r.records[name]
}

// Names returns every registered plugin name, sorted for reproducibility —
// the Registry's correctness never depends on this order, but a stable
// order keeps load-order tie-breaking and test assertions deterministic.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.records))
	for name := range r.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Locations returns the distinct directories searchForPlugins has scanned.
func (r *Registry) Locations() []string {
	return append([]string(nil), r.locations...)
}

// Count reports the number of registered plugins.
func (r *Registry) Count() int {
	return len(r.records)
}

// MainPluginName returns the registered main plugin's name, or "" if none.
func (r *Registry) MainPluginName() string {
	return r.mainPlugin
}

// RegisterMainPlugin designates name as the privileged main plugin. It
// succeeds only if no main plugin is currently registered and name is a
// known plugin.
func (r *Registry) RegisterMainPlugin(name string) error {
	if r.mainPlugin != "" {
		return NewMainPluginAlreadySetError(r.mainPlugin, name)
	}
	record, ok := r.records[name]
	if !ok {
		return NewMainPluginNotFoundError(name)
	}
	r.mainPlugin = name
	record.isMainPlugin = true
	return nil
}

// insert adds a freshly-discovered record, remembering dir in the
// locations list if it is not already present, and appends name to the
// insertion-order sequence used to stabilize straggler unload.
func (r *Registry) insert(dir string, record *PluginRecord) {
	r.records[record.Name()] = record
	r.sequence = append(r.sequence, record.Name())

	for _, existing := range r.locations {
		if existing == dir {
			return
		}
	}
	r.locations = append(r.locations, dir)
}

// remove drops name from the Registry without touching its handle; callers
// must release() the record themselves beforehand.
func (r *Registry) remove(name string) {
	delete(r.records, name)
}

// SearchForPlugins enumerates candidate shared libraries under dir (and,
// if recursive, its subdirectories), loading each one and admitting it to
// the Registry when it exposes the three required symbols, a unique name,
// and metadata that parses. Non-plugin libraries are silently discarded;
// name collisions and unparsable metadata are reported through callback
// (which may be nil) and discarded as well.
func (r *Registry) SearchForPlugins(dir string, recursive bool, callback DiscoveryCallback) (ReturnCode, error) {
	paths, listErr := listLibraries(dir, recursive)
	if listErr != nil {
		if callback != nil {
			callback(SearchListFilesError, listErr.Error())
		}
		if len(paths) == 0 {
			return SearchListFilesError, NewDiscoveryListFailedError(dir, listErr)
		}
	}

	found := false
	for _, path := range paths {
		if r.tryAdmit(dir, path, callback) {
			found = true
		}
	}

	if found {
		return Success, nil
	}
	return SearchNothingFound, nil
}

// tryAdmit loads one candidate library and, if it is a well-formed,
// uniquely-named plugin, inserts it into the Registry.
func (r *Registry) tryAdmit(dir, path string, callback DiscoveryCallback) bool {
	lib := newNativeLibrary()
	if err := lib.Load(path); err != nil {
		r.logger.Debug("candidate library could not be opened, skipping", "error", NewDiscoveryLoadFailedError(path, err))
		return false
	}

	if !lib.HasSymbol(symbolName) || !lib.HasSymbol(symbolMetadata) || !lib.HasSymbol(symbolCreatePlugin) {
		_ = lib.Unload()
		return false
	}

	name, err := StringSymbol(lib, symbolName)
	if err != nil {
		_ = lib.Unload()
		return false
	}

	if r.HasPlugin(name) {
		if callback != nil {
			callback(SearchNameAlreadyExists, path)
		}
		_ = lib.Unload()
		return false
	}

	rawMetadata, err := BytesSymbol(lib, symbolMetadata)
	if err != nil {
		if callback != nil {
			callback(SearchCannotParseMetadata, path)
		}
		_ = lib.Unload()
		return false
	}

	metadata, err := ParseMetadata(rawMetadata)
	if err != nil {
		if callback != nil {
			callback(SearchCannotParseMetadata, path)
		}
		_ = lib.Unload()
		return false
	}

	creator, err := CreatePluginSymbol(lib, symbolCreatePlugin)
	if err != nil {
		if callback != nil {
			callback(SearchCannotParseMetadata, path)
		}
		_ = lib.Unload()
		return false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	record := newPluginRecord(abs, lib, metadata, creator, r.clock.Now())
	r.insert(dir, record)
	return true
}

// listLibraries walks dir for files matching the platform's native
// shared-library extension.
func listLibraries(dir string, recursive bool) ([]string, error) {
	ext := nativeLibraryExtension()
	var paths []string

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ext {
			paths = append(paths, path)
		}
		return nil
	})

	return paths, walkErr
}
