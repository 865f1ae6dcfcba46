// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"

	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const cpuCollectorTTLSeconds = 10

var cpuFields = []kstat.Field{
	{KstatKey: "user", Key: "cpu_user_ticks_total", Type: metric.TypeCounter, Help: "user-mode clock ticks"},
	{KstatKey: "kernel", Key: "cpu_kernel_ticks_total", Type: metric.TypeCounter, Help: "kernel-mode clock ticks"},
	{KstatKey: "idle", Key: "cpu_idle_ticks_total", Type: metric.TypeCounter, Help: "idle clock ticks"},
	{KstatKey: "wait", Key: "cpu_wait_ticks_total", Type: metric.TypeCounter, Help: "I/O wait clock ticks"},
}

// CPUCollector reads the cpu_stat kstat for the target's kernel instance,
// the global zone's lone CPU partition for target "gz" or the zone's
// assigned vCPU accounting for a container (spec §3 supplement: CPU).
type CPUCollector struct {
	Kstat kstat.Reader
}

// NewCPUCollector constructs a CPUCollector over the given kstat reader.
func NewCPUCollector(reader kstat.Reader) *CPUCollector {
	return &CPUCollector{Kstat: reader}
}

func (c *CPUCollector) CacheTTLSeconds() int { return cpuCollectorTTLSeconds }

func (c *CPUCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	instance, err := zi.KstatInstance()
	if err != nil {
		return nil, err
	}
	q := kstat.Query{Class: "misc", Module: "cpu_stat", Instance: "<instanceId>"}.WithInstance(instance)

	records, err := c.Kstat.Read(ctx, q)
	if err != nil {
		return nil, metric.NewError(metric.KindNotAvailable, err)
	}
	if len(records) == 0 {
		return nil, metric.NewError(metric.KindNotFound, errNoRecords("cpu_stat", zi.Zonename))
	}

	return kstat.Project(records, cpuFields, nil)
}
