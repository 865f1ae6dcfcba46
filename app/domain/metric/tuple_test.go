// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joyent/triton-cmon-agent/app/domain/metric"
)

func TestValidKey(t *testing.T) {
	valid := []string{"arcstats_hits_total", "net_agg_packets_in", "_private", "a:b_1"}
	invalid := []string{"1leading_digit", "has-dash", "", "has space"}

	for _, k := range valid {
		assert.True(t, metric.ValidKey(k), "expected %q to be valid", k)
	}
	for _, k := range invalid {
		assert.False(t, metric.ValidKey(k), "expected %q to be invalid", k)
	}
}

func TestSplitOptions(t *testing.T) {
	tuples := []metric.Tuple{
		{Key: "ttl", Type: metric.TypeOption, Value: "90201"},
		{Key: "plugin_rot_rot", Type: metric.TypeGauge, Value: "66"},
	}

	data, ttl, ok := metric.SplitOptions(tuples)
	assert.True(t, ok)
	assert.Equal(t, 90201, ttl)
	assert.Len(t, data, 1)
	assert.Equal(t, "plugin_rot_rot", data[0].Key)
}

func TestSplitOptionsNoTTL(t *testing.T) {
	tuples := []metric.Tuple{{Key: "foo", Type: metric.TypeGauge, Value: "1"}}
	data, ttl, ok := metric.SplitOptions(tuples)
	assert.False(t, ok)
	assert.Zero(t, ttl)
	assert.Len(t, data, 1)
}
