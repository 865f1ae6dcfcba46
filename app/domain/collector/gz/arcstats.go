// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package gz holds collectors that run only against the "gz" target: the
// global zone's host-wide ZFS ARC, pool, and NTP state, plus global-zone
// plugin scripts.
package gz

import (
	"context"
	"fmt"

	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const arcstatsCollectorTTLSeconds = 10

var arcstatsFields = []kstat.Field{
	{KstatKey: "size", Key: "zfs_arc_size_bytes", Type: metric.TypeGauge, Help: "current ARC size"},
	{KstatKey: "c", Key: "zfs_arc_target_size_bytes", Type: metric.TypeGauge, Help: "ARC target size"},
	{KstatKey: "c_min", Key: "zfs_arc_min_size_bytes", Type: metric.TypeGauge, Help: "ARC minimum size"},
	{KstatKey: "c_max", Key: "zfs_arc_max_size_bytes", Type: metric.TypeGauge, Help: "ARC maximum size"},
	{KstatKey: "hits", Key: "zfs_arc_hits_total", Type: metric.TypeCounter, Help: "ARC hits"},
	{KstatKey: "misses", Key: "zfs_arc_misses_total", Type: metric.TypeCounter, Help: "ARC misses"},
	{KstatKey: "deleted", Key: "zfs_arc_deleted_total", Type: metric.TypeCounter, Help: "ARC buffers deleted"},
	{KstatKey: "evict_skip", Key: "zfs_arc_evict_skip_total", Type: metric.TypeCounter, Help: "ARC evictions skipped"},
}

// ArcstatsCollector reads the host-wide ZFS ARC kstat (spec §8 scenario 1
// smoke test).
type ArcstatsCollector struct {
	Kstat kstat.Reader
}

// NewArcstatsCollector constructs an ArcstatsCollector over the given
// kstat reader.
func NewArcstatsCollector(reader kstat.Reader) *ArcstatsCollector {
	return &ArcstatsCollector{Kstat: reader}
}

func (a *ArcstatsCollector) CacheTTLSeconds() int { return arcstatsCollectorTTLSeconds }

func (a *ArcstatsCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	q := kstat.Query{Class: "misc", Module: "zfs", Name: "arcstats", Instance: "0"}

	records, err := a.Kstat.Read(ctx, q)
	if err != nil {
		return nil, metric.NewError(metric.KindNotAvailable, err)
	}
	if len(records) == 0 {
		return nil, metric.NewError(metric.KindNotFound, fmt.Errorf("gz: no arcstats kstat record"))
	}

	return kstat.Project(records, arcstatsFields, nil)
}
