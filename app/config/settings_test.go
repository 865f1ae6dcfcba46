// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyent/triton-cmon-agent/app/config"
)

func TestNewSettingsAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9200\n"), 0o644))

	settings, err := config.NewSettings(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, settings.Port)
	assert.Equal(t, "info", settings.LogLevel)
	assert.Equal(t, config.DefaultPluginMaxConcurrent, settings.Plugin.MaxConcurrent)
	assert.Equal(t, "5m", settings.Cache.SweepInterval)
	assert.Equal(t, "30m", settings.Zone.RefreshInterval)
}

func TestNewSettingsMissingFile(t *testing.T) {
	_, err := config.NewSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsInvalidAdminUUID(t *testing.T) {
	settings := &config.Settings{UFDSAdminUUID: "not-a-uuid"}
	err := settings.Validate()
	assert.Error(t, err)
}
