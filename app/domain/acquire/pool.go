// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// PoolStat is one zpool's allocated space, fragmentation, and size, as read
// from the pool-listing utility's machine-parsable output (spec §4.3).
type PoolStat struct {
	Name          string
	Allocated     float64
	Fragmentation float64
	Size          float64
}

// PoolStatsReader reads stats for every imported pool.
type PoolStatsReader struct {
	Lister PoolLister
}

// NewPoolStatsReader constructs a PoolStatsReader over the given
// collaborator.
func NewPoolStatsReader(lister PoolLister) *PoolStatsReader {
	return &PoolStatsReader{Lister: lister}
}

// Read parses the pool-listing utility's tab-delimited "name, allocated,
// fragmentation, size" rows. Fragmentation carries a stray "%" suffix that
// is stripped before parsing.
func (r *PoolStatsReader) Read(ctx context.Context) ([]PoolStat, error) {
	csv, err := r.Lister.ZpoolList(ctx)
	if err != nil {
		return nil, err
	}

	var stats []PoolStat
	scanner := bufio.NewScanner(strings.NewReader(csv))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == '\t' || r == ',' })
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("acquire: zpool list line %q: expected 4 fields, got %d", line, len(fields))
		}

		alloc, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("acquire: zpool allocated %q: %w", fields[1], err)
		}
		frag, err := strconv.ParseFloat(strings.TrimSuffix(fields[2], "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("acquire: zpool fragmentation %q: %w", fields[2], err)
		}
		size, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("acquire: zpool size %q: %w", fields[3], err)
		}

		stats = append(stats, PoolStat{Name: fields[0], Allocated: alloc, Fragmentation: frag, Size: size})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
