// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package gz

import (
	"context"
	"fmt"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const poolCollectorTTLSeconds = 30

// PoolCollector reports per-pool allocation, fragmentation, and size for
// every imported zpool (spec §4.3 zpool acquisition module).
type PoolCollector struct {
	Reader *acquire.PoolStatsReader
}

// NewPoolCollector constructs a PoolCollector over the given reader.
func NewPoolCollector(reader *acquire.PoolStatsReader) *PoolCollector {
	return &PoolCollector{Reader: reader}
}

func (p *PoolCollector) CacheTTLSeconds() int { return poolCollectorTTLSeconds }

// EmptyOK is true: a host with no imported pools (unlikely, but possible
// mid-provision) should report zero series, not an error.
func (p *PoolCollector) EmptyOK() bool { return true }

func (p *PoolCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	stats, err := p.Reader.Read(ctx)
	if err != nil {
		return nil, metric.NewError(metric.KindNotAvailable, err)
	}

	tuples := make([]metric.Tuple, 0, len(stats)*3)
	for _, s := range stats {
		label := fmt.Sprintf(`{pool=%q}`, s.Name)
		tuples = append(tuples,
			metric.Tuple{Key: "zpool_allocated_bytes", Type: metric.TypeGauge, Value: formatFloat(s.Allocated), Help: "bytes allocated in the pool", Label: label},
			metric.Tuple{Key: "zpool_fragmentation_ratio", Type: metric.TypeGauge, Value: formatFloat(s.Fragmentation), Help: "pool fragmentation percentage", Label: label},
			metric.Tuple{Key: "zpool_size_bytes", Type: metric.TypeGauge, Value: formatFloat(s.Size), Help: "total pool size", Label: label},
		)
	}
	return tuples, nil
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
