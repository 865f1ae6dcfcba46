// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package vm

import (
	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/collector"
	"github.com/joyent/triton-cmon-agent/app/domain/collector/common"
	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/plugin"
)

// Collectors builds the named set of collectors that run only for
// container targets (spec §4.9).
func Collectors(
	kstatReader kstat.Reader,
	scraper *acquire.SidecarScraper,
	zfsReader *acquire.ZfsUsageReader,
	plugins []plugin.Descriptor,
	executor *plugin.Executor,
	maxOutputBytes int,
) map[string]collector.Collector {
	set := map[string]collector.Collector{
		"caps":    NewCapsCollector(kstatReader),
		"sidecar": NewSidecarCollector(scraper),
		"zfs":     NewZfsCollector(zfsReader),
	}
	for _, d := range plugins {
		set["plugin_"+d.Name] = common.NewPluginCollector(d, executor, maxOutputBytes)
	}
	return set
}
