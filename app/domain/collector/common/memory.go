// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"

	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const memoryCollectorTTLSeconds = 10

var memoryFields = []kstat.Field{
	{KstatKey: "pagestotal", Key: "memory_pages_total", Type: metric.TypeGauge, Help: "total pages of physical memory"},
	{KstatKey: "pagesfree", Key: "memory_pages_free", Type: metric.TypeGauge, Help: "free pages of physical memory"},
	{KstatKey: "pageslocked", Key: "memory_pages_locked", Type: metric.TypeGauge, Help: "pages locked in physical memory"},
	{KstatKey: "availrmem", Key: "memory_pages_available", Type: metric.TypeGauge, Help: "pages available for swapping"},
	{KstatKey: "freemem", Key: "memory_pages_free_swappable", Type: metric.TypeGauge, Help: "free swappable pages"},
}

// MemoryCollector reads the host-wide vm_page/system_pages kstat (spec §3
// supplement: memory). This kstat is global-scoped regardless of target,
// so it reports the same snapshot for "gz" and every container, unlike
// CPUCollector and LinkCollector.
type MemoryCollector struct {
	Kstat kstat.Reader
}

// NewMemoryCollector constructs a MemoryCollector over the given kstat
// reader.
func NewMemoryCollector(reader kstat.Reader) *MemoryCollector {
	return &MemoryCollector{Kstat: reader}
}

func (m *MemoryCollector) CacheTTLSeconds() int { return memoryCollectorTTLSeconds }

func (m *MemoryCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	q := kstat.Query{Class: "pages", Module: "unix", Instance: "0", Name: "system_pages"}

	records, err := m.Kstat.Read(ctx, q)
	if err != nil {
		return nil, metric.NewError(metric.KindNotAvailable, err)
	}
	if len(records) == 0 {
		return nil, metric.NewError(metric.KindNotFound, errNoRecords("system_pages", zi.Zonename))
	}

	return kstat.Project(records, memoryFields, nil)
}
