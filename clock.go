// clock.go: injectable time source for discovery and lifecycle timestamps
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

import (
	"time"

	"github.com/agilira/go-timecache"
)

// Clock supplies the current time to components that timestamp events
// (discovery, load, unload) without hard-coding time.Now, so tests can
// substitute a fixed or stepped clock. Unlike the rest of the CORE, Clock
// implementations must tolerate concurrent access.
type Clock interface {
	Now() time.Time
}

// cachedClock is the default Clock, backed by go-timecache's
// periodically-refreshed cache rather than a syscall per call.
type cachedClock struct{}

// NewClock returns the default Clock used by a Facade that does not
// override it explicitly.
func NewClock() Clock {
	return cachedClock{}
}

func (cachedClock) Now() time.Time {
	return timecache.CachedTime()
}

// FixedClock is a Clock that always returns the same instant, useful for
// deterministic tests.
type FixedClock struct {
	At time.Time
}

// NewFixedClock returns a Clock pinned to at.
func NewFixedClock(at time.Time) FixedClock {
	return FixedClock{At: at}
}

func (c FixedClock) Now() time.Time {
	return c.At
}
