// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package common_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyent/triton-cmon-agent/app/domain/collector/common"
	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

type fakeKstatReader struct {
	records []kstat.Record
	err     error
}

func (f *fakeKstatReader) Read(_ context.Context, _ kstat.Query) ([]kstat.Record, error) {
	return f.records, f.err
}

func TestCPUCollectorProjectsFields(t *testing.T) {
	reader := &fakeKstatReader{records: []kstat.Record{
		{Module: "cpu_stat", Instance: 0, Name: "cpu_stat0", Data: map[string]any{
			"user": int64(100), "kernel": int64(50), "idle": int64(900), "wait": int64(5),
		}},
	}}
	c := common.NewCPUCollector(reader)

	tuples, err := c.GetMetrics(context.Background(), zone.Record{Zonename: "global"})
	require.NoError(t, err)
	require.Len(t, tuples, 4)
	assert.Equal(t, 10, c.CacheTTLSeconds())
}

func TestCPUCollectorNoRecordsIsNotFound(t *testing.T) {
	reader := &fakeKstatReader{records: nil}
	c := common.NewCPUCollector(reader)

	_, err := c.GetMetrics(context.Background(), zone.Record{Zonename: "abc"})
	assert.Error(t, err)
}

func TestCPUCollectorPropagatesKstatError(t *testing.T) {
	reader := &fakeKstatReader{err: errors.New("kstat unavailable")}
	c := common.NewCPUCollector(reader)

	_, err := c.GetMetrics(context.Background(), zone.Record{Zonename: "abc"})
	assert.Error(t, err)
}
