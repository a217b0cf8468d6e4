// Package pluginhost implements the runtime core of a native
// shared-library plugin system: discovery of `.so`/`.dylib`/`.dll`
// candidates on disk, JSON metadata ingestion with API-version gating,
// dependency resolution with semantic-version constraints, cycle
// detection, topological load ordering, lifecycle orchestration with
// partial-failure recovery, and a request broker that lets plugins call
// back into the host and, for a single privileged main plugin, reach
// other loaded plugins directly.
//
// Basic usage:
//
//	cfg := pluginhost.HostConfig{SearchDirs: []string{"./plugins"}}
//	facade := pluginhost.NewFacade(cfg, pluginhost.DefaultLogger())
//
//	code, err := facade.SearchForPlugins(cfg.SearchDirs[0], cfg.Recursive, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	code, err = facade.LoadPlugins(true, nil)
//	if !code.IsSuccess() {
//		log.Fatal(err)
//	}
//
//	defer func() { _, _ = facade.UnloadPlugins(nil) }()
//
// A plugin is a Go shared library built with `go build -buildmode=plugin`
// exporting three symbols: JPName (string), JPMetadata ([]byte, UTF-8
// JSON), and JPCreatePlugin (a factory function). Go's plugin loader has
// no unload primitive, so Facade.UnloadPlugins releases a plugin's Go-side
// state (instance, symbol table, registry entry) without unmapping the
// underlying library from the process — see the Registry and
// LifecycleController documentation for details.
//
// The Facade and its collaborators are not safe for concurrent
// load/unload calls: orchestration is single-threaded by design, matching
// the single-threaded contract plugins are written against.
//
// Copyright (c) 2025 AGILira - A. Giordano
// SPDX-License-Identifier: MPL-2.0
package pluginhost
