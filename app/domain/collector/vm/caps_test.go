// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package vm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyent/triton-cmon-agent/app/domain/collector/vm"
	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

type fakeKstatReader struct {
	byModule map[string][]kstat.Record
	err      error
}

func (f *fakeKstatReader) Read(_ context.Context, q kstat.Query) ([]kstat.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byModule[q.Module], nil
}

func TestCapsCollectorSuppressesSentinelCapValues(t *testing.T) {
	reader := &fakeKstatReader{byModule: map[string][]kstat.Record{
		"caps": {{Module: "caps", Name: "cpucaps_zone_3", Data: map[string]any{
			"value": int64(100), "usage": int64(10), "nwait": int64(0),
		}}},
		"memory_cap": {{Module: "memory_cap", Name: "3", Data: map[string]any{
			"rss": int64(1 << 20), "swap": int64(0), "nover": int64(0), "pagedout": int64(5),
			"physcap": int64(0), "swapcap": int64(1 << 30),
		}}},
	}}
	c := vm.NewCapsCollector(reader)

	tuples, err := c.GetMetrics(context.Background(), zone.Record{Zonename: "abc", InstanceID: 3})
	require.NoError(t, err)

	var keys []string
	for _, tup := range tuples {
		keys = append(keys, tup.Key)
	}
	assert.Contains(t, keys, "zone_memory_rss_bytes")
	assert.Contains(t, keys, "zone_memory_swap_bytes") // swap=0 is a real reading, not a sentinel
	assert.NotContains(t, keys, "zone_memory_cap_bytes") // physcap=0 is the absent sentinel
	assert.Contains(t, keys, "zone_swap_cap_bytes")
	assert.Contains(t, keys, "zone_memory_paged_out_total")
	assert.Contains(t, keys, "zone_cpu_cap_value")
}

func TestCapsCollectorEmptyIsOK(t *testing.T) {
	c := vm.NewCapsCollector(&fakeKstatReader{})
	tuples, err := c.GetMetrics(context.Background(), zone.Record{Zonename: "abc"})
	require.NoError(t, err)
	assert.Empty(t, tuples)
	assert.True(t, c.EmptyOK())
}
