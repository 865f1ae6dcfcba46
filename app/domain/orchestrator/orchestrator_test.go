// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package orchestrator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/cache"
	"github.com/joyent/triton-cmon-agent/app/domain/collector"
	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/orchestrator"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
	"github.com/rs/zerolog"
)

const testZoneUUID = "61c64afd-6c69-44b3-94fc-bcd17234e268"

type fakeLister struct{ zones []acquire.ZoneListing }

func (f *fakeLister) ListZones(context.Context) ([]acquire.ZoneListing, error) { return f.zones, nil }

type fakeVMLoader struct{}

func (fakeVMLoader) VMLoad(context.Context, string, []string) (zone.VMInfo, error) {
	return zone.VMInfo{}, nil
}

type fakeKstatReader struct {
	records    []kstat.Record
	instanceID int
}

func (f *fakeKstatReader) Read(context.Context, kstat.Query) ([]kstat.Record, error) {
	return []kstat.Record{{
		Class: "zone_misc", Module: "zones", Instance: f.instanceID,
		Data: map[string]interface{}{"zonename": testZoneUUID},
	}}, nil
}

type fakeCollector struct {
	tuples []metric.Tuple
	ttl    int
	err    error
	empty  bool
}

func (f *fakeCollector) GetMetrics(context.Context, zone.Record) ([]metric.Tuple, error) {
	return f.tuples, f.err
}
func (f *fakeCollector) CacheTTLSeconds() int { return f.ttl }
func (f *fakeCollector) EmptyOK() bool        { return f.empty }

func newTestRegistry(t *testing.T, c collector.Collector) *collector.Registry {
	t.Helper()
	reg, err := collector.NewRegistry(map[metric.Domain]map[string]collector.Collector{
		metric.DomainCommon: {"fake": c},
	})
	require.NoError(t, err)
	return reg
}

func newTestZoneRegistry(t *testing.T, instanceID int) *zone.Registry {
	t.Helper()
	lister := &fakeLister{zones: []acquire.ZoneListing{{ZoneID: instanceID, UUID: testZoneUUID}}}
	reg := zone.New(lister, fakeVMLoader{}, &fakeKstatReader{instanceID: instanceID}, "")
	require.NoError(t, reg.Refresh(context.Background()))
	return reg
}

func TestGetMetricsSerializesCollectorOutput(t *testing.T) {
	c := &fakeCollector{
		tuples: []metric.Tuple{{Key: "widgets_total", Type: metric.TypeCounter, Value: "7", Help: "widgets"}},
		ttl:    30,
	}
	reg := newTestRegistry(t, c)
	zones := newTestZoneRegistry(t, 14)
	ch := cache.New()
	defer ch.Close()

	o := orchestrator.New(reg, zones, ch, zerolog.Nop())
	out, err := o.GetMetrics(context.Background(), testZoneUUID)
	require.NoError(t, err)
	assert.Contains(t, out, "# TYPE widgets_total counter\n")
	assert.Contains(t, out, "widgets_total 7\n")
}

func TestGetMetricsUsesCacheOnSecondCall(t *testing.T) {
	calls := 0
	c := &countingCollector{fakeCollector: fakeCollector{
		tuples: []metric.Tuple{{Key: "hits_total", Type: metric.TypeCounter, Value: "1", Help: "h"}},
		ttl:    30,
	}, calls: &calls}
	reg := newTestRegistry(t, c)
	zones := newTestZoneRegistry(t, 14)
	ch := cache.New()
	defer ch.Close()

	o := orchestrator.New(reg, zones, ch, zerolog.Nop())
	_, err := o.GetMetrics(context.Background(), testZoneUUID)
	require.NoError(t, err)
	_, err = o.GetMetrics(context.Background(), testZoneUUID)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

type countingCollector struct {
	fakeCollector
	calls *int
}

func (c *countingCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	*c.calls++
	return c.fakeCollector.GetMetrics(ctx, zi)
}

func TestGetMetricsFailsNotFoundWhenEmptyAndNotEmptyOK(t *testing.T) {
	c := &fakeCollector{empty: false}
	reg := newTestRegistry(t, c)
	zones := newTestZoneRegistry(t, 14)
	ch := cache.New()
	defer ch.Close()

	o := orchestrator.New(reg, zones, ch, zerolog.Nop())
	_, err := o.GetMetrics(context.Background(), testZoneUUID)
	require.Error(t, err)
	assert.True(t, metric.IsKind(err, metric.KindNotFound))
}

func TestGetMetricsSucceedsWhenEmptyOK(t *testing.T) {
	c := &fakeCollector{empty: true}
	reg := newTestRegistry(t, c)
	zones := newTestZoneRegistry(t, 14)
	ch := cache.New()
	defer ch.Close()

	o := orchestrator.New(reg, zones, ch, zerolog.Nop())
	out, err := o.GetMetrics(context.Background(), testZoneUUID)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

// TestGetMetricsDetectsRestartRace grounds spec §8 scenario 5: if the
// instance id Verify observes differs from the one Lookup returned, the
// whole request fails NotFound even though every collector already
// succeeded.
func TestGetMetricsDetectsRestartRace(t *testing.T) {
	c := &fakeCollector{empty: true}
	reg := newTestRegistry(t, c)

	lister := &fakeLister{zones: []acquire.ZoneListing{{ZoneID: 14, UUID: testZoneUUID}}}
	zones := zone.New(lister, fakeVMLoader{}, &fakeKstatReader{instanceID: 15}, "")
	require.NoError(t, zones.Refresh(context.Background()))
	ch := cache.New()
	defer ch.Close()

	o := orchestrator.New(reg, zones, ch, zerolog.Nop())
	_, err := o.GetMetrics(context.Background(), testZoneUUID)
	require.Error(t, err)
	assert.True(t, metric.IsKind(err, metric.KindNotFound))
}

func TestGetMetricsUnknownTargetIsNotFound(t *testing.T) {
	c := &fakeCollector{empty: true}
	reg := newTestRegistry(t, c)
	zones := newTestZoneRegistry(t, 14)
	ch := cache.New()
	defer ch.Close()

	o := orchestrator.New(reg, zones, ch, zerolog.Nop())
	_, err := o.GetMetrics(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, metric.IsKind(err, metric.KindNotFound))
}

// TestSetRegistrySwapsCollectorsForSubsequentRequests grounds the plugin
// directory reload path (spec §4.9): a reload rebuilds an entirely new
// Registry, and the orchestrator must pick it up without restarting.
func TestSetRegistrySwapsCollectorsForSubsequentRequests(t *testing.T) {
	original := &fakeCollector{
		tuples: []metric.Tuple{{Key: "old_total", Type: metric.TypeCounter, Value: "1", Help: "old"}},
		ttl:    0,
	}
	reg := newTestRegistry(t, original)
	zones := newTestZoneRegistry(t, 14)
	ch := cache.New()
	defer ch.Close()

	o := orchestrator.New(reg, zones, ch, zerolog.Nop())
	out, err := o.GetMetrics(context.Background(), testZoneUUID)
	require.NoError(t, err)
	assert.Contains(t, out, "old_total 1\n")

	replacement := &fakeCollector{
		tuples: []metric.Tuple{{Key: "new_total", Type: metric.TypeCounter, Value: "2", Help: "new"}},
		ttl:    0,
	}
	o.SetRegistry(newTestRegistry(t, replacement))

	out, err = o.GetMetrics(context.Background(), testZoneUUID)
	require.NoError(t, err)
	assert.NotContains(t, out, "old_total")
	assert.Contains(t, out, "new_total 2\n")
}
