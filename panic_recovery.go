// panic_recovery.go: panic containment for plugin-supplied entry points
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"runtime"
)

// guardCall invokes fn, recovering and logging any panic raised inside it
// rather than letting it propagate into the LifecycleController or Facade.
// It is used to wrap every call the host makes into plugin-supplied code
// (the factory, loaded, aboutToBeUnloaded, and mainPluginExec entry
// points) so a single misbehaving plugin cannot crash the host process.
// This is containment, not sandboxing: the panicking goroutine's other
// local state is not rolled back, only the call frame is prevented from
// unwinding past this boundary.
func guardCall(logger Logger, pluginName string, entryPoint string, fn func()) (panicked bool, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 64<<10)
			n := runtime.Stack(buf, false)
			logger.Error("plugin entry point panicked",
				"plugin", pluginName,
				"entry_point", entryPoint,
				"panic", r,
				"stack", string(buf[:n]))
			panicked = true
			recovered = r
		}
	}()
	fn()
	return false, nil
}
