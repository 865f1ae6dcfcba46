// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-obvious/server/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/cache"
	"github.com/joyent/triton-cmon-agent/app/domain/collector"
	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/orchestrator"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
	"github.com/joyent/triton-cmon-agent/app/handlers"
)

type fakeLister struct{ zones []acquire.ZoneListing }

func (f *fakeLister) ListZones(context.Context) ([]acquire.ZoneListing, error) { return f.zones, nil }

type fakeVMLoader struct{}

func (fakeVMLoader) VMLoad(context.Context, string, []string) (zone.VMInfo, error) {
	return zone.VMInfo{}, nil
}

type fakeKstatReader struct{}

func (fakeKstatReader) Read(context.Context, kstat.Query) ([]kstat.Record, error) { return nil, nil }

type fakeCollector struct{}

func (fakeCollector) GetMetrics(context.Context, zone.Record) ([]metric.Tuple, error) {
	return []metric.Tuple{{Key: "up", Type: metric.TypeGauge, Value: "1", Help: "up"}}, nil
}
func (fakeCollector) CacheTTLSeconds() int { return 30 }
func (fakeCollector) EmptyOK() bool        { return true }

func newTestAPI(t *testing.T) *handlers.MetricsAPI {
	t.Helper()
	reg, err := collector.NewRegistry(map[metric.Domain]map[string]collector.Collector{
		metric.DomainCommon: {"fake": fakeCollector{}},
	})
	require.NoError(t, err)

	zones := zone.New(&fakeLister{}, fakeVMLoader{}, fakeKstatReader{}, "")
	require.NoError(t, zones.Refresh(context.Background()))

	ch := cache.New()
	t.Cleanup(ch.Close)

	o := orchestrator.New(reg, zones, ch, zerolog.Nop())
	return handlers.NewMetricsAPI("/v1", o, zones)
}

func TestGetMetricsServesGlobalZone(t *testing.T) {
	api := newTestAPI(t)
	req := createRequest("GET", "/v1/gz/metrics", nil)
	resp, err := test.InvokeService(api.Service, "/v1/gz/metrics", *req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetMetricsUnknownZoneIsNotFound(t *testing.T) {
	api := newTestAPI(t)
	req := createRequest("GET", "/v1/does-not-exist/metrics", nil)
	resp, err := test.InvokeService(api.Service, "/v1/does-not-exist/metrics", *req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRefreshSucceeds(t *testing.T) {
	api := newTestAPI(t)
	req := createRequest("POST", "/v1/refresh", nil)
	resp, err := test.InvokeService(api.Service, "/v1/refresh", *req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
