// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package vm

import (
	"context"
	"fmt"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/parser"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const sidecarCollectorTTLSeconds = 10

const metricPortsKey = "metricPorts"
const adminNicTag = "admin"

// SidecarCollector scrapes the Prometheus text a core service zone's
// sidecars expose on the ports listed in its metricPorts metadata (spec
// §4.3). It is restricted to core zones: an ordinary customer container
// has no sidecar contract to scrape.
type SidecarCollector struct {
	Scraper *acquire.SidecarScraper
}

// NewSidecarCollector constructs a SidecarCollector over the given
// scraper.
func NewSidecarCollector(scraper *acquire.SidecarScraper) *SidecarCollector {
	return &SidecarCollector{Scraper: scraper}
}

func (s *SidecarCollector) CacheTTLSeconds() int { return sidecarCollectorTTLSeconds }

// CoreZoneOnly restricts this collector to zones owned by the UFDS admin
// user and bearing a smartdc_role tag (spec §6).
func (s *SidecarCollector) CoreZoneOnly() bool { return true }

// EmptyOK is true: a core zone with no metricPorts configured, or whose
// sidecars are all unreachable, legitimately contributes no series.
func (s *SidecarCollector) EmptyOK() bool { return true }

func (s *SidecarCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	raw, ok := zi.VM.CustomerMetadata[metricPortsKey]
	if !ok || raw == "" {
		return nil, nil
	}
	ports, err := acquire.ParseMetricPorts(raw)
	if err != nil {
		return nil, metric.NewError(metric.KindMalformed, err)
	}
	if len(ports) == 0 {
		return nil, nil
	}

	adminIP := adminIPOf(zi)
	if adminIP == "" {
		return nil, metric.NewError(metric.KindNotAvailable, fmt.Errorf("vm: zone %q has no admin nic", zi.Zonename))
	}

	// Per-port scrape failures are not fatal to the request (spec §4.3):
	// a dead sidecar must not blank out its siblings' metrics.
	body, _ := s.Scraper.Scrape(ctx, adminIP, ports)
	if body == "" {
		return nil, nil
	}

	return parser.ParsePrometheus(body, "")
}

func adminIPOf(zi zone.Record) string {
	for _, n := range zi.VM.Nics {
		if n.Nic == adminNicTag {
			return n.IP
		}
	}
	return ""
}
