// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package vm_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/collector/vm"
	"github.com/joyent/triton-cmon-agent/app/domain/plugin"
)

type fakeZfsGetter struct{}

func (fakeZfsGetter) ZfsGet(_ context.Context, _ string, _ []string) (map[string]acquire.ZfsProperty, error) {
	return map[string]acquire.ZfsProperty{}, nil
}

func TestCollectorsIncludesBuiltinsAndPlugins(t *testing.T) {
	scraper := acquire.NewSidecarScraper(&fakeHTTPGetter{})
	zfsReader := acquire.NewZfsUsageReader(fakeZfsGetter{})
	executor := plugin.NewExecutor(zerolog.Nop(), 1)
	plugins := []plugin.Descriptor{{Name: "statsd"}}

	set := vm.Collectors(&fakeKstatReader{}, scraper, zfsReader, plugins, executor, 0)

	assert.Contains(t, set, "caps")
	assert.Contains(t, set, "sidecar")
	assert.Contains(t, set, "zfs")
	assert.Contains(t, set, "plugin_statsd")
}
