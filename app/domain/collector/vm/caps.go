// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package vm holds collectors that run only against container targets:
// zone-local CPU/memory caps, sidecar scraping for core service zones, and
// per-container plugin scripts.
package vm

import (
	"context"

	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const capsCollectorTTLSeconds = 10

// isAbsentCapSentinel reports whether f is one of the two raw values the
// older vm.js agent used to mean "no cap configured": exactly zero, or
// 2^64-1 (float64 cannot represent that integer exactly, so the check uses
// a threshold just below it rather than equality). Either must be treated
// as an absent metric rather than emitted as a bogus number (§9 Open
// Question).
func isAbsentCapSentinel(f float64) bool {
	const nearUint64Max = 1.8446744073709550e+19 // 2^64 - 2^11, safely below any real cap
	return f == 0 || f >= nearUint64Max
}

var cpuCapsFields = []kstat.Field{
	{KstatKey: "value", Key: "zone_cpu_cap_value", Type: metric.TypeGauge, Help: "configured CPU cap, in percent of a core"},
	{KstatKey: "usage", Key: "zone_cpu_cap_usage", Type: metric.TypeGauge, Help: "current CPU usage against the cap"},
	{KstatKey: "nwait", Key: "zone_cpu_cap_above_sec_total", Type: metric.TypeCounter, Help: "seconds spent capped"},
}

// memUsageGaugeKeys and memUsageCounterKeys are always meaningful, including a raw value of zero (a
// zone genuinely using no swap reports swap=0, which is real data, not an
// absent cap).
var memUsageGaugeKeys = map[string]string{
	"rss":  "zone_memory_rss_bytes",
	"swap": "zone_memory_swap_bytes",
}

var memUsageCounterKeys = map[string]string{
	"nover":    "zone_memory_cap_exceeded_total",
	"pagedout": "zone_memory_paged_out_total",
}

// memCapKeys are configured limits, where the vm.js sentinel applies: a
// raw value of 0 or 2^64-1 means "uncapped", not "capped at zero".
var memCapKeys = map[string]string{
	"physcap":  "zone_memory_cap_bytes",
	"swapcap":  "zone_swap_cap_bytes",
}

// CapsCollector reads a zone's CPU and memory cap kstats (spec §3
// supplement: zone_caps/lockedmem).
type CapsCollector struct {
	Kstat kstat.Reader
}

// NewCapsCollector constructs a CapsCollector over the given kstat reader.
func NewCapsCollector(reader kstat.Reader) *CapsCollector {
	return &CapsCollector{Kstat: reader}
}

func (c *CapsCollector) CacheTTLSeconds() int { return capsCollectorTTLSeconds }

// EmptyOK is true: an uncapped zone legitimately has no cap series.
func (c *CapsCollector) EmptyOK() bool { return true }

func (c *CapsCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	var tuples []metric.Tuple

	instance, err := zi.KstatInstance()
	if err != nil {
		return nil, err
	}

	cpuQ := kstat.Query{Class: "zone_caps", Module: "caps", Name: "cpucaps_zone_<instanceId>"}.WithInstance(instance)
	cpuRecords, err := c.Kstat.Read(ctx, cpuQ)
	if err != nil {
		return nil, metric.NewError(metric.KindNotAvailable, err)
	}
	if len(cpuRecords) > 0 {
		cpuTuples, err := kstat.Project(cpuRecords, cpuCapsFields, nil)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, cpuTuples...)
	}

	memQ := kstat.Query{Class: "zone_memory_cap", Module: "memory_cap", Name: "<instanceId>"}.WithInstance(instance)
	memRecords, err := c.Kstat.Read(ctx, memQ)
	if err != nil {
		return nil, metric.NewError(metric.KindNotAvailable, err)
	}
	for _, rec := range memRecords {
		for statKey, metricKey := range memUsageGaugeKeys {
			if t, ok := memStatTuple(rec, statKey, metricKey, metric.TypeGauge, false); ok {
				tuples = append(tuples, t)
			}
		}
		for statKey, metricKey := range memUsageCounterKeys {
			if t, ok := memStatTuple(rec, statKey, metricKey, metric.TypeCounter, false); ok {
				tuples = append(tuples, t)
			}
		}
		for statKey, metricKey := range memCapKeys {
			if t, ok := memStatTuple(rec, statKey, metricKey, metric.TypeGauge, true); ok {
				tuples = append(tuples, t)
			}
		}
	}

	return tuples, nil
}

// memStatTuple converts one memory_cap statistic to a tuple. When
// suppressSentinel is true, a raw value matching the absent-cap sentinel
// is dropped instead of emitted (§9 Open Question); usage fields like rss
// and swap always emit, since zero is a legitimate reading for them.
func memStatTuple(rec kstat.Record, statKey, metricKey string, typ metric.Type, suppressSentinel bool) (metric.Tuple, bool) {
	raw, ok := rec.Data[statKey]
	if !ok {
		return metric.Tuple{}, false
	}

	if suppressSentinel {
		var f float64
		switch v := raw.(type) {
		case int64:
			f = float64(v)
		case float64:
			f = v
		default:
			return metric.Tuple{}, false
		}
		if isAbsentCapSentinel(f) {
			return metric.Tuple{}, false
		}
	}

	value, err := kstat.Identity(raw)
	if err != nil {
		return metric.Tuple{}, false
	}
	return metric.Tuple{Key: metricKey, Type: typ, Value: value, Help: metricKey}, true
}
