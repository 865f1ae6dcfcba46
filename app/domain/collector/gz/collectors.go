// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package gz

import (
	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/collector"
	"github.com/joyent/triton-cmon-agent/app/domain/collector/common"
	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/plugin"
)

// Collectors builds the named set of collectors that run only for the
// "gz" target (spec §4.9).
func Collectors(
	kstatReader kstat.Reader,
	poolReader *acquire.PoolStatsReader,
	ntpReader *acquire.Reader,
	plugins []plugin.Descriptor,
	executor *plugin.Executor,
	maxOutputBytes int,
) map[string]collector.Collector {
	set := map[string]collector.Collector{
		"arcstats": NewArcstatsCollector(kstatReader),
		"pool":     NewPoolCollector(poolReader),
		"ntp":      NewNtpCollector(ntpReader),
	}
	for _, d := range plugins {
		set["plugin_"+d.Name] = common.NewPluginCollector(d, executor, maxOutputBytes)
	}
	return set
}
