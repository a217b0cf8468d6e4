// lifecycle.go: dependency checking, load-order computation, and bulk or
// targeted load/unload.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"fmt"
	"sort"
)

// LifecycleController drives a Registry through dependency checking, load
// ordering, and plugin construction/teardown. It holds no state of its
// own beyond a reference to the Registry, the broker entry points it
// hands to every plugin, and the Logger it reports through.
type LifecycleController struct {
	registry *Registry
	broker   *RequestBroker
	logger   Logger
}

// NewLifecycleController builds a controller bound to registry, dispatching
// plugin-issued requests through broker.
func NewLifecycleController(registry *Registry, broker *RequestBroker, logger Logger) *LifecycleController {
	return &LifecycleController{registry: registry, broker: broker, logger: logger}
}

// checkDependencies is the memoized recursive dependency check. It returns
// the ReturnCode a caller should surface for this record (Success once
// resolution succeeds, or the first failure encountered on the path,
// possibly belonging to a transitive dependency) paired with the
// structured error describing that failure, or a nil error on Success. A
// record already marked as failed is not walked again: it reports
// LoadDependencyNotFound if the record itself has left the Registry and
// LoadDependencyBadVersion otherwise, whichever code the first check
// produced. A record is marked resolved before its dependencies are
// walked, so a dependency cycle resolves as Success here and is reported
// by LoadPlugins' topological sort instead.
func (lc *LifecycleController) checkDependencies(record *PluginRecord, callback DiscoveryCallback) (ReturnCode, error) {
	switch record.dependenciesResolved {
	case triYes:
		return Success, nil
	case triNo:
		if !lc.registry.HasPlugin(record.Name()) {
			return LoadDependencyNotFound, NewDependencyNotFoundError(record.Name(), record.Name())
		}
		return LoadDependencyBadVersion, NewDependencyBadVersionError(record.Name(), record.Name(), record.metadata.Version, "")
	}

	// Any failure below overwrites this with triNo.
	record.dependenciesResolved = triYes

	for _, dep := range record.metadata.Dependencies {
		depRecord := lc.registry.Get(dep.Name)
		if depRecord == nil {
			record.dependenciesResolved = triNo
			if callback != nil {
				callback(LoadDependencyNotFound, record.path)
			}
			return LoadDependencyNotFound, NewDependencyNotFoundError(record.Name(), dep.Name)
		}

		depVersion, err := ParseVersion(dep.MinVersion)
		if err != nil {
			record.dependenciesResolved = triNo
			if callback != nil {
				callback(LoadDependencyBadVersion, record.path)
			}
			return LoadDependencyBadVersion, NewDependencyBadVersionError(record.Name(), dep.Name, "", dep.MinVersion)
		}

		pluginVersion, err := ParseVersion(depRecord.metadata.Version)
		if err != nil || !pluginVersion.Compatible(depVersion) {
			record.dependenciesResolved = triNo
			if callback != nil {
				callback(LoadDependencyBadVersion, record.path)
			}
			return LoadDependencyBadVersion, NewDependencyBadVersionError(record.Name(), dep.Name, depRecord.metadata.Version, dep.MinVersion)
		}

		if code, depErr := lc.checkDependencies(depRecord, callback); code != Success {
			record.dependenciesResolved = triNo
			return code, depErr
		}
	}

	record.dependenciesResolved = triYes
	return Success, nil
}

// LoadPlugins is the bulk load entry point. Every record with unresolved
// dependencies is checked; if tryToContinue is false, the first failure
// aborts the whole pass. Records whose dependencies resolve are ordered
// with a fresh DependencyGraph and constructed in that order.
func (lc *LifecycleController) LoadPlugins(tryToContinue bool, callback DiscoveryCallback) (ReturnCode, error) {
	graph := NewDependencyGraph()
	graphIndex := make(map[string]int)

	for _, name := range lc.registry.Names() {
		record := lc.registry.Get(name)
		record.resetForLoadPass()

		code, err := lc.checkDependencies(record, callback)
		if !tryToContinue && code != Success {
			return code, err
		}

		if record.dependenciesResolved == triYes {
			idx := graph.AddNode(name, nil)
			record.graphID = idx
			graphIndex[name] = idx
		}
	}

	for name, idx := range graphIndex {
		record := lc.registry.Get(name)
		parents := make([]int, 0, len(record.metadata.Dependencies))
		for _, dep := range record.metadata.Dependencies {
			if parentIdx, ok := graphIndex[dep.Name]; ok {
				parents = append(parents, parentIdx)
			}
		}
		graph.Nodes[idx].ParentNodes = parents
	}

	order, cycle := graph.TopologicalSort()
	if cycle {
		involved := make([]string, 0, len(graphIndex))
		for name := range graphIndex {
			involved = append(involved, name)
		}
		sort.Strings(involved)
		if callback != nil {
			callback(LoadDependencyCycle, "")
		}
		return LoadDependencyCycle, NewDependencyCycleError(involved)
	}

	lc.registry.loadOrder = order

	for _, name := range order {
		record := lc.registry.Get(name)
		if err := lc.constructAndLoad(record); err != nil {
			lc.logger.Error("plugin failed to load during bulk pass", "plugin", name, "error", err)
		}
	}

	if lc.registry.mainPlugin != "" {
		if mainRecord := lc.registry.Get(lc.registry.mainPlugin); mainRecord != nil {
			lc.execMainPlugin(mainRecord)
		}
	}

	return Success, nil
}

// constructAndLoad invokes record's factory with its already-constructed
// dependency instances, stores the result, and calls Loaded on it,
// containing any panic so one misbehaving plugin cannot abort the pass. It
// returns the structured panic error for the entry point that failed, or
// nil if construction and Loaded both completed normally.
func (lc *LifecycleController) constructAndLoad(record *PluginRecord) error {
	deps := make([]IPlugin, 0, len(record.metadata.Dependencies))
	for _, dep := range record.metadata.Dependencies {
		if depRecord := lc.registry.Get(dep.Name); depRecord != nil {
			deps = append(deps, depRecord.instance)
		}
	}

	panicked, recovered := guardCall(lc.logger, record.Name(), "JPCreatePlugin", func() {
		record.instance = record.creator(lc.broker.handleRequest, lc.broker.getNonDepPlugin, deps, record.isMainPlugin)
	})
	if panicked {
		record.instance = nil
		return NewPluginExecutionPanicError(record.Name(), "JPCreatePlugin", recovered)
	}
	if record.instance == nil {
		return nil
	}

	panicked, recovered = guardCall(lc.logger, record.Name(), "Loaded", func() {
		record.instance.Loaded()
	})
	if panicked {
		record.release(lc.logger)
		return NewPluginExecutionPanicError(record.Name(), "Loaded", recovered)
	}
	return nil
}

func (lc *LifecycleController) execMainPlugin(record *PluginRecord) {
	main, ok := record.instance.(MainPlugin)
	if !ok {
		return
	}
	panicked, recovered := guardCall(lc.logger, record.Name(), "MainPluginExec", func() {
		main.MainPluginExec()
	})
	if panicked {
		lc.logger.Error("main plugin panicked during MainPluginExec",
			"plugin", record.Name(), "error", NewPluginExecutionPanicError(record.Name(), "MainPluginExec", recovered))
	}
}

// LoadPlugin is the targeted load entry point: a no-op success if name is
// already loaded, otherwise a dependency check followed by construction.
func (lc *LifecycleController) LoadPlugin(name string) (bool, error) {
	record := lc.registry.Get(name)
	if record == nil {
		return false, NewPluginNotFoundError(name)
	}
	if record.IsLoaded() {
		return true, nil
	}

	if code, err := lc.checkDependencies(record, nil); code != Success {
		return false, err
	}

	if err := lc.constructAndLoad(record); err != nil {
		return record.IsLoaded(), err
	}
	return record.IsLoaded(), nil
}

// LoadPluginFromPath loads and admits a single library at path, then loads
// it the same way LoadPlugin does. A plugin already registered under the
// same name and currently loaded is treated as a success.
func (lc *LifecycleController) LoadPluginFromPath(path string) (bool, error) {
	lib := newNativeLibrary()
	if err := lib.Load(path); err != nil {
		return false, NewDiscoveryLoadFailedError(path, err)
	}

	name, err := StringSymbol(lib, symbolName)
	if err != nil {
		_ = lib.Unload()
		return false, err
	}

	if existing := lc.registry.Get(name); existing != nil && existing.IsLoaded() {
		_ = lib.Unload()
		return true, nil
	}

	rawMetadata, err := BytesSymbol(lib, symbolMetadata)
	if err != nil {
		_ = lib.Unload()
		return false, err
	}
	metadata, err := ParseMetadata(rawMetadata)
	if err != nil {
		_ = lib.Unload()
		return false, err
	}
	creator, err := CreatePluginSymbol(lib, symbolCreatePlugin)
	if err != nil {
		_ = lib.Unload()
		return false, err
	}

	record := newPluginRecord(path, lib, metadata, creator, lc.registry.clock.Now())
	lc.registry.records[name] = record
	lc.registry.sequence = append(lc.registry.sequence, name)

	if code, depErr := lc.checkDependencies(record, nil); code != Success {
		return false, depErr
	}

	if err := lc.constructAndLoad(record); err != nil {
		return record.IsLoaded(), err
	}
	return record.IsLoaded(), nil
}

// UnloadPlugins is the bulk unload entry point: records in the stored load
// order are torn down in reverse, then any stragglers (plugins never
// reached by the last LoadPlugins call) are drained in their discovery
// order. Returns UnloadNotAll, paired with the first NewUnloadFailedError
// encountered, if any record's handle reports still loaded afterward.
func (lc *LifecycleController) UnloadPlugins(callback DiscoveryCallback) (ReturnCode, error) {
	allUnloaded := true
	var firstErr error

	release := func(name string, record *PluginRecord) {
		record.release(lc.logger)
		if record.handle != nil && record.handle.IsLoaded() {
			allUnloaded = false
			if firstErr == nil {
				firstErr = NewUnloadFailedError(name, fmt.Errorf("handle still reports loaded after release"))
			}
		}
		lc.registry.remove(name)
	}

	for i := len(lc.registry.loadOrder) - 1; i >= 0; i-- {
		name := lc.registry.loadOrder[i]
		if record := lc.registry.Get(name); record != nil {
			release(name, record)
		}
	}

	for _, name := range lc.registry.sequence {
		if record := lc.registry.Get(name); record != nil {
			release(name, record)
		}
	}

	lc.registry.locations = nil
	lc.registry.sequence = nil
	lc.registry.loadOrder = nil

	if !allUnloaded {
		if callback != nil {
			callback(UnloadNotAll, "")
		}
		return UnloadNotAll, firstErr
	}
	return Success, nil
}

// UnloadPlugin is the targeted unload entry point: it first recursively
// unloads every currently-loaded plugin that declares name as a
// dependency, then releases name itself.
func (lc *LifecycleController) UnloadPlugin(name string) (bool, error) {
	record := lc.registry.Get(name)
	if record == nil {
		return false, NewPluginNotFoundError(name)
	}
	if !record.IsLoaded() {
		return false, nil
	}

	for _, dependentName := range lc.registry.Names() {
		if dependentName == name {
			continue
		}
		dependent := lc.registry.Get(dependentName)
		if dependent == nil || !dependent.IsLoaded() {
			continue
		}
		for _, dep := range dependent.metadata.Dependencies {
			if dep.Name == name {
				if ok, err := lc.UnloadPlugin(dependentName); !ok {
					return false, err
				}
				break
			}
		}
	}

	record.release(lc.logger)
	if record.handle != nil && record.handle.IsLoaded() {
		lc.registry.remove(name)
		return false, NewUnloadFailedError(name, fmt.Errorf("handle still reports loaded after release"))
	}
	lc.registry.remove(name)
	return true, nil
}
