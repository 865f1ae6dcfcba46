// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package orchestrator implements the per-request collection pipeline
// (spec §4.10): resolve a target through the zone registry, run every
// collector registered for its domain set against the TTL cache, serialize
// the result, and verify the zone did not restart mid-collection.
package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/joyent/triton-cmon-agent/app/domain/cache"
	"github.com/joyent/triton-cmon-agent/app/domain/collector"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/serialize"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

// Orchestrator drives the request pipeline described in spec §4.10. It
// holds no state of its own beyond its collaborators; registry is held
// behind an atomic pointer so SetRegistry (e.g. after a plugin reload) takes
// effect on the next request without a lock on the hot path.
type Orchestrator struct {
	registry atomic.Pointer[collector.Registry]
	zones    *zone.Registry
	cache    *cache.Cache
	logger   zerolog.Logger
}

// New constructs an Orchestrator. registry must already be populated.
func New(registry *collector.Registry, zones *zone.Registry, c *cache.Cache, logger zerolog.Logger) *Orchestrator {
	o := &Orchestrator{zones: zones, cache: c, logger: logger}
	o.registry.Store(registry)
	return o
}

// SetRegistry atomically swaps the collector registry the pipeline reads
// from. In-flight requests keep using the registry they already loaded;
// every request started after this call sees the new one.
func (o *Orchestrator) SetRegistry(registry *collector.Registry) {
	o.registry.Store(registry)
}

// GetMetrics runs the full pipeline for target ("gz" or a zone UUID) and
// returns the concatenated Prometheus text of every collector's output.
func (o *Orchestrator) GetMetrics(ctx context.Context, target string) (string, error) {
	if !o.zones.Running() {
		return "", metric.NewError(metric.KindNotFound, fmt.Errorf("orchestrator: zone registry is not running"))
	}

	zi, err := o.zones.Lookup(target)
	if err != nil {
		return "", err
	}

	domains := []metric.Domain{metric.DomainCommon, metric.DomainVM}
	if target == "gz" {
		domains = []metric.Domain{metric.DomainCommon, metric.DomainGZ}
	}

	registry := o.registry.Load()
	var out string
	for _, e := range registry.Entries(domains...) {
		if sr, ok := e.Collector.(collector.ShouldRunner); ok && !sr.ShouldRun(zi) {
			continue
		}
		if cz, ok := e.Collector.(collector.CoreZoneOnly); ok && cz.CoreZoneOnly() && !zi.IsCoreZone {
			continue
		}

		cacheKey := string(e.Domain) + "/" + e.Name + "/" + zi.Zonename

		if text, hit := o.cache.Get(cacheKey); hit {
			out += text
			continue
		}

		text, err := o.runCollector(ctx, e, zi, cacheKey)
		if err != nil {
			return "", err
		}
		out += text
	}

	ok, err := o.zones.Verify(ctx, zi)
	if err != nil {
		return "", metric.NewError(metric.KindFatal, fmt.Errorf("orchestrator: verify %s: %w", zi.Zonename, err))
	}
	if !ok {
		return "", metric.NewError(metric.KindNotFound,
			fmt.Errorf("orchestrator: zone %s restarted mid-collection", zi.Zonename))
	}

	return out, nil
}

// runCollector runs one collector, caches its serialized result under its
// declared (or option-overridden) TTL, and returns the text to append.
func (o *Orchestrator) runCollector(ctx context.Context, e collector.Entry, zi zone.Record, cacheKey string) (string, error) {
	raw, err := e.Collector.GetMetrics(ctx, zi)
	if err != nil {
		if metric.IsKind(err, metric.KindFatal) {
			return "", err
		}
		// NotAvailable/Malformed from a collector are already folded into
		// its own "unavailable" tuples by convention (spec §7); a
		// collector that still propagates one here is treated as an
		// empty result: not found unless the collector is EmptyOK.
		o.logger.Debug().Err(err).Str("collector", e.Name).Msg("collector reported an error")
		raw = nil
	}

	emptyOK := true
	if eo, ok := e.Collector.(collector.EmptyOK); ok {
		emptyOK = eo.EmptyOK()
	}
	if len(raw) == 0 && !emptyOK {
		return "", metric.NewError(metric.KindNotFound,
			fmt.Errorf("orchestrator: %s/%s: metrics unavailable for %s", e.Domain, e.Name, zi.Zonename))
	}

	data, ttlSeconds, hasOverride := metric.SplitOptions(raw)
	text, err := serialize.Serialize(data)
	if err != nil {
		return "", err
	}

	ttl := e.Collector.CacheTTLSeconds()
	if hasOverride {
		ttl = ttlSeconds
	}
	if ttl > 0 {
		if insertErr := o.cache.Insert(cacheKey, text, ttl); insertErr != nil {
			o.logger.Warn().Err(insertErr).Str("collector", e.Name).Msg("failed to cache collector result")
		}
	}

	return text, nil
}
