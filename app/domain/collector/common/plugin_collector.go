// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package common holds collectors that run against every target, global
// zone or container alike.
package common

import (
	"context"
	"fmt"

	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/parser"
	"github.com/joyent/triton-cmon-agent/app/domain/plugin"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const defaultMaxOutputBytes = 1 << 20 // 1 MiB

// PluginCollector adapts one loaded plugin descriptor to the Collector
// contract. A plugin that fails to produce data (timeout, overflow, bad
// exit, malformed output) does not fail the request: it reports its
// unavailability via a single boolean metric (spec §7, scenario 3).
type PluginCollector struct {
	Descriptor     plugin.Descriptor
	Executor       *plugin.Executor
	MaxOutputBytes int
}

// NewPluginCollector constructs a PluginCollector for one loaded plugin.
// A non-positive maxOutputBytes falls back to defaultMaxOutputBytes, the
// same pattern NewExecutor uses for its own maxConcurrent argument.
func NewPluginCollector(d plugin.Descriptor, executor *plugin.Executor, maxOutputBytes int) *PluginCollector {
	if maxOutputBytes <= 0 {
		maxOutputBytes = defaultMaxOutputBytes
	}
	return &PluginCollector{Descriptor: d, Executor: executor, MaxOutputBytes: maxOutputBytes}
}

// CacheTTLSeconds returns the plugin's configured TTL; the orchestrator
// may override it per-request with a "ttl" option tuple (scenario 4).
func (c *PluginCollector) CacheTTLSeconds() int { return c.Descriptor.TTLSeconds }

// EmptyOK is true: a plugin that reports only its own availability boolean
// is a normal, cacheable result, not a missing-data condition.
func (c *PluginCollector) EmptyOK() bool { return true }

func (c *PluginCollector) availabilityTuple(up string) metric.Tuple {
	return metric.Tuple{
		Key:    fmt.Sprintf("plugin_%s_metrics_available_boolean", c.Descriptor.Name),
		Type:   metric.TypeGauge,
		Value:  up,
		Help:   "whether the plugin produced data on its most recent run",
		Format: metric.FormatNative,
	}
}

// GetMetrics runs the plugin against zi.Zonename and parses its native
// tab-separated output.
func (c *PluginCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	out, err := c.Executor.Exec(ctx, plugin.ExecParams{
		Path:           c.Descriptor.Path,
		Zonename:       zi.Zonename,
		TimeoutMs:      c.Descriptor.TimeoutMs,
		MaxOutputBytes: c.MaxOutputBytes,
	})
	if err != nil {
		return []metric.Tuple{c.availabilityTuple("0")}, nil
	}

	prefix := fmt.Sprintf("plugin_%s_", c.Descriptor.Name)
	tuples, err := parser.ParseNative(out, prefix)
	if err != nil {
		return []metric.Tuple{c.availabilityTuple("0")}, nil
	}

	return append(tuples, c.availabilityTuple("1")), nil
}
