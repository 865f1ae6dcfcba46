// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/collector"
	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/plugin"
)

// Collectors builds the named set of collectors that run for every target,
// global zone or container alike: the built-in kstat collectors plus one
// PluginCollector per descriptor the caller has already loaded (spec §4.9).
func Collectors(
	kstatReader kstat.Reader,
	sysinfoReader acquire.SysinfoReader,
	plugins []plugin.Descriptor,
	executor *plugin.Executor,
	maxOutputBytes int,
) map[string]collector.Collector {
	set := map[string]collector.Collector{
		"cpu":      NewCPUCollector(kstatReader),
		"memory":   NewMemoryCollector(kstatReader),
		"link":     NewLinkCollector(kstatReader),
		"identity": NewIdentityCollector(sysinfoReader),
	}
	for _, d := range plugins {
		set["plugin_"+d.Name] = NewPluginCollector(d, executor, maxOutputBytes)
	}
	return set
}
