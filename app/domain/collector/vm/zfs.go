// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package vm

import (
	"context"
	"fmt"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const zfsCollectorTTLSeconds = 60

// zfsMetricKeys maps each property acquire.ZfsUsageReader reads to its
// metric name and type (spec §4.3 ZFS usage acquisition module).
var zfsMetricKeys = map[string]struct {
	key string
	typ metric.Type
}{
	"available":         {"zone_zfs_available_bytes", metric.TypeGauge},
	"used":              {"zone_zfs_used_bytes", metric.TypeGauge},
	"logicalused":       {"zone_zfs_logical_used_bytes", metric.TypeGauge},
	"recordsize":        {"zone_zfs_recordsize_bytes", metric.TypeGauge},
	"quota":             {"zone_zfs_quota_bytes", metric.TypeGauge},
	"compressratio":     {"zone_zfs_compression_ratio", metric.TypeGauge},
	"refcompressratio":  {"zone_zfs_referenced_compression_ratio", metric.TypeGauge},
	"referenced":        {"zone_zfs_referenced_bytes", metric.TypeGauge},
	"logicalreferenced": {"zone_zfs_logical_referenced_bytes", metric.TypeGauge},
	"usedbydataset":     {"zone_zfs_used_by_dataset_bytes", metric.TypeGauge},
	"usedbysnapshots":   {"zone_zfs_used_by_snapshots_bytes", metric.TypeGauge},
}

// ZfsCollector reports dataset usage for a container's zones/<uuid>
// dataset (spec §4.3). A container without its own dataset (e.g. mid
// provision) legitimately reports no series.
type ZfsCollector struct {
	Reader *acquire.ZfsUsageReader
}

// NewZfsCollector constructs a ZfsCollector over the given reader.
func NewZfsCollector(reader *acquire.ZfsUsageReader) *ZfsCollector {
	return &ZfsCollector{Reader: reader}
}

func (z *ZfsCollector) CacheTTLSeconds() int { return zfsCollectorTTLSeconds }

// EmptyOK is true: a dataset the zfs collaborator cannot find is reported
// as zero series rather than failing the whole request.
func (z *ZfsCollector) EmptyOK() bool { return true }

func (z *ZfsCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	usage, err := z.Reader.Read(ctx, zi.UUID)
	if err != nil {
		return nil, metric.NewError(metric.KindNotAvailable, err)
	}

	tuples := make([]metric.Tuple, 0, len(usage))
	for prop, value := range usage {
		m, ok := zfsMetricKeys[prop]
		if !ok {
			continue
		}
		tuples = append(tuples, metric.Tuple{
			Key: m.key, Type: m.typ, Value: fmt.Sprintf("%g", value),
			Help: fmt.Sprintf("zfs dataset property %q for the zone's dataset", prop),
		})
	}
	return tuples, nil
}
