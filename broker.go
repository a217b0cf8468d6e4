// broker.go: request broker — the static entry points handed to every
// plugin at construction, routing manager requests and mediating the main
// plugin's reach-around access to non-dependency plugins.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginhost

// RequestBroker answers ManagerRequestFunc calls issued by plugins and
// resolves GetNonDepFunc lookups for the registered main plugin. It holds
// a reference to the Registry and the two pieces of host-identity data
// (app directory, plugin API version) the broker exposes to plugins.
type RequestBroker struct {
	registry   *Registry
	appDir     string
	pluginAPI  string
	logger     Logger
}

// NewRequestBroker builds a broker bound to registry. appDir is the host
// executable's directory, returned verbatim by GET_APPDIRECTORY.
func NewRequestBroker(registry *Registry, appDir string, logger Logger) *RequestBroker {
	return &RequestBroker{registry: registry, appDir: appDir, pluginAPI: JPPluginAPI, logger: logger}
}

// handleRequest is the ManagerRequestFunc every plugin receives at
// construction. sender identifies the calling plugin: it is logged, and it
// is the default target of GET_PLUGININFO and GET_PLUGINVERSION when data
// names no plugin. The broker trusts the Registry's LIVE/known state, not
// the caller, to decide what sender may see.
func (b *RequestBroker) handleRequest(sender string, code RequestCode, data any) (result any, status RequestStatus) {
	b.logger.Debug("request from plugin", "sender", sender, "code", code)

	switch code {
	case OpGetAppDirectory:
		return b.appDir, StatusSuccess

	case OpGetPluginAPI:
		return b.pluginAPI, StatusSuccess

	case OpGetPluginsCount:
		return b.registry.Count(), StatusSuccess

	case OpGetPluginInfo:
		target := sender
		if name, ok := data.(string); ok && name != "" {
			target = name
		}
		record := b.registry.Get(target)
		if record == nil {
			return nil, StatusNotFound
		}
		return pluginInfoFromMetadata(record.Metadata()), StatusSuccess

	case OpGetPluginVersion:
		target := sender
		if name, ok := data.(string); ok && name != "" {
			target = name
		}
		record := b.registry.Get(target)
		if record == nil {
			return nil, StatusNotFound
		}
		return record.Metadata().Version, StatusSuccess

	case OpCheckPlugin:
		name, _ := data.(string)
		if b.registry.HasPlugin(name) {
			return nil, StatusResultTrue
		}
		return nil, StatusResultFalse

	case OpCheckPluginLoaded:
		name, _ := data.(string)
		if record := b.registry.Get(name); record != nil && record.IsLoaded() {
			return nil, StatusResultTrue
		}
		return nil, StatusResultFalse

	default:
		return nil, StatusUnknownRequest
	}
}

// getNonDepPlugin is the GetNonDepFunc every plugin receives at
// construction. It resolves to a live instance only when sender is the
// registered main plugin and pluginName names a currently LIVE plugin;
// it returns nil defensively if sender's own record can no longer be
// found in the Registry, rather than assuming it is still resolvable.
func (b *RequestBroker) getNonDepPlugin(sender string, pluginName string) IPlugin {
	senderRecord := b.registry.Get(sender)
	if senderRecord == nil || !senderRecord.isMainPlugin {
		return nil
	}

	target := b.registry.Get(pluginName)
	if target == nil || !target.IsLoaded() {
		return nil
	}
	return target.instance
}

func pluginInfoFromMetadata(m PluginMetadata) PluginInfo {
	return PluginInfo{
		Name:       m.Name,
		PrettyName: m.PrettyName,
		Version:    m.Version,
		Author:     m.Author,
		URL:        m.URL,
		License:    m.License,
		Copyright:  m.Copyright,
	}
}
