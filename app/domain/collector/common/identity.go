// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"
	"fmt"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const identityCollectorTTLSeconds = -1 // never cached: sysinfo(1M) is read afresh on every request

// IdentityCollector labels every poll with the host's own UUID and
// datacenter, read once per request from sysinfo(1M) (spec §6
// SysinfoReader). It runs for both the global zone and containers: a
// poller scraping a container still benefits from knowing which physical
// host produced the reading.
type IdentityCollector struct {
	Sysinfo acquire.SysinfoReader
}

// NewIdentityCollector constructs an IdentityCollector over the given
// collaborator.
func NewIdentityCollector(reader acquire.SysinfoReader) *IdentityCollector {
	return &IdentityCollector{Sysinfo: reader}
}

func (c *IdentityCollector) CacheTTLSeconds() int { return identityCollectorTTLSeconds }

// EmptyOK is true: a host sysinfo(1M) cannot reach still serves its other
// collectors' data; losing the identity label is not fatal.
func (c *IdentityCollector) EmptyOK() bool { return true }

func (c *IdentityCollector) GetMetrics(ctx context.Context, _ zone.Record) ([]metric.Tuple, error) {
	info, err := c.Sysinfo.Sysinfo(ctx)
	if err != nil {
		return nil, metric.NewError(metric.KindNotAvailable, err)
	}
	label := fmt.Sprintf(`{uuid=%q,datacenter=%q}`, info.UUID, info.DatacenterName)
	return []metric.Tuple{{
		Key: "agent_identity_info", Type: metric.TypeGauge, Value: "1",
		Help: "identifies the host this agent is running on", Label: label,
	}}, nil
}
