// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package collector defines the Collector contract and the two-level
// domain/name registry the orchestrator drives (spec §4.9).
package collector

import (
	"context"
	"fmt"
	"sort"

	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

// Collector gathers metrics for one zone.
type Collector interface {
	GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error)
	CacheTTLSeconds() int
}

// ShouldRunner is implemented by collectors that only apply to some zones;
// the orchestrator skips a collector that declares it and returns false.
type ShouldRunner interface {
	ShouldRun(zi zone.Record) bool
}

// CoreZoneOnly is implemented by collectors restricted to core service
// zones.
type CoreZoneOnly interface {
	CoreZoneOnly() bool
}

// EmptyOK is implemented by collectors for which an empty result is a
// legitimate reading rather than a sign the target's data is unavailable.
type EmptyOK interface {
	EmptyOK() bool
}

// Entry is one collector's position in the registry, exposed so the
// orchestrator can iterate in stable (domain, name) order.
type Entry struct {
	Domain    metric.Domain
	Name      string
	Collector Collector
}

// Registry is the two-level domain -> name -> collector map (spec §4.9).
// The zero value is not usable; use NewRegistry.
type Registry struct {
	byDomain map[metric.Domain]map[string]Collector
	ordered  []Entry
}

// NewRegistry builds a Registry from one named collector set per domain.
// Returns an error if the same (domain, name) pair is registered twice.
func NewRegistry(sets map[metric.Domain]map[string]Collector) (*Registry, error) {
	r := &Registry{byDomain: make(map[metric.Domain]map[string]Collector)}

	domains := make([]metric.Domain, 0, len(sets))
	for d := range sets {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })

	for _, d := range domains {
		names := make([]string, 0, len(sets[d]))
		for n := range sets[d] {
			names = append(names, n)
		}
		sort.Strings(names)

		r.byDomain[d] = make(map[string]Collector, len(names))
		for _, n := range names {
			if _, dup := r.byDomain[d][n]; dup {
				return nil, fmt.Errorf("collector: duplicate registration %s/%s", d, n)
			}
			c := sets[d][n]
			r.byDomain[d][n] = c
			r.ordered = append(r.ordered, Entry{Domain: d, Name: n, Collector: c})
		}
	}

	return r, nil
}

// Entries returns the registered collectors whose domain is one of domains
// (none when domains is empty), ordered by (domain, name);
// this order is what makes collector execution order stable across
// requests for a given registry (spec §4.10).
func (r *Registry) Entries(domains ...metric.Domain) []Entry {
	want := make(map[metric.Domain]bool, len(domains))
	for _, d := range domains {
		want[d] = true
	}
	out := make([]Entry, 0, len(r.ordered))
	for _, e := range r.ordered {
		if want[e.Domain] {
			out = append(out, e)
		}
	}
	return out
}
