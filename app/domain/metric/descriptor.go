// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metric

// Domain scopes a collector to the set of targets it runs against.
type Domain string

const (
	DomainCommon      Domain = "common"       // runs for both gz and vm targets
	DomainGZ          Domain = "gz"           // runs only for the global zone
	DomainVM          Domain = "vm"           // runs only for container targets
	DomainCoreZoneOnly Domain = "core-zone-only"
)

// CollectorDescriptor identifies a collector within its domain and carries
// its caching policy.
type CollectorDescriptor struct {
	Domain     Domain
	Name       string
	TTLSeconds int // may be negative to mean "never cache"
	EmptyOK    bool
}

// PluginOrigin is the domain a plugin was loaded for.
type PluginOrigin string

const (
	PluginOriginGZ PluginOrigin = "gz"
	PluginOriginVM PluginOrigin = "vm"
)

// PluginDescriptor is produced by the plugin directory loader (§4.7).
type PluginDescriptor struct {
	Name      string // filename minus extension, unique within its directory
	Path      string // absolute
	TimeoutMs int
	TTLSeconds int
	Origin    PluginOrigin
}
