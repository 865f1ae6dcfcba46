// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package common_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/collector/common"
	"github.com/joyent/triton-cmon-agent/app/domain/plugin"
)

type fakeSysinfoReader struct{}

func (fakeSysinfoReader) Sysinfo(context.Context) (acquire.SysinfoResult, error) {
	return acquire.SysinfoResult{}, nil
}

func TestCollectorsIncludesBuiltinsAndPlugins(t *testing.T) {
	reader := &fakeKstatReader{}
	executor := plugin.NewExecutor(zerolog.Nop(), 1)
	plugins := []plugin.Descriptor{{Name: "myplugin"}}

	set := common.Collectors(reader, fakeSysinfoReader{}, plugins, executor, 0)

	assert.Contains(t, set, "cpu")
	assert.Contains(t, set, "memory")
	assert.Contains(t, set, "link")
	assert.Contains(t, set, "identity")
	assert.Contains(t, set, "plugin_myplugin")
}
