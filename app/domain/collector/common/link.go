// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"
	"fmt"

	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const linkCollectorTTLSeconds = 10

var linkFields = []kstat.Field{
	{KstatKey: "rbytes64", Key: "net_agg_bytes_in_total", Type: metric.TypeCounter, Help: "bytes received"},
	{KstatKey: "obytes64", Key: "net_agg_bytes_out_total", Type: metric.TypeCounter, Help: "bytes sent"},
	{KstatKey: "ipackets64", Key: "net_agg_packets_in_total", Type: metric.TypeCounter, Help: "packets received"},
	{KstatKey: "opackets64", Key: "net_agg_packets_out_total", Type: metric.TypeCounter, Help: "packets sent"},
	{KstatKey: "ierrors", Key: "net_agg_packets_in_errors_total", Type: metric.TypeCounter, Help: "receive errors"},
	{KstatKey: "oerrors", Key: "net_agg_packets_out_errors_total", Type: metric.TypeCounter, Help: "send errors"},
}

// LinkCollector reads the link kstat scoped to the target's kernel
// instance (spec §3 supplement: network link aggregation, scenario 2). A
// zone may own more than one vnic, so records are labeled by link name.
type LinkCollector struct {
	Kstat kstat.Reader
}

// NewLinkCollector constructs a LinkCollector over the given kstat reader.
func NewLinkCollector(reader kstat.Reader) *LinkCollector {
	return &LinkCollector{Kstat: reader}
}

func (l *LinkCollector) CacheTTLSeconds() int { return linkCollectorTTLSeconds }

// EmptyOK is true: a zone with no vnics of its own (e.g. shared-IP) simply
// has no link records, which is not an error.
func (l *LinkCollector) EmptyOK() bool { return true }

func (l *LinkCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	instance, err := zi.KstatInstance()
	if err != nil {
		return nil, err
	}
	q := kstat.Query{Class: "net", Module: "link", Instance: "<instanceId>"}.WithInstance(instance)

	records, err := l.Kstat.Read(ctx, q)
	if err != nil {
		return nil, metric.NewError(metric.KindNotAvailable, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	return kstat.Project(records, linkFields, linkLabeler)
}

func linkLabeler(rec kstat.Record) (string, error) {
	return fmt.Sprintf(`{link=%q}`, rec.Name), nil
}
