// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the agent's configuration record: the logLevel,
// port, and ufdsAdminUuid the spec calls out (§6), plus the cache, plugin,
// and zone-registry knobs a runnable binary needs that the spec leaves to
// "external collaborator glue" (§1).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

const (
	DefaultServerPort            = 9163
	DefaultCacheSweepInterval    = "5m"
	DefaultZoneRefreshInterval   = "30m"
	DefaultPluginDir             = "/opt/triton/cmon-agent/plugins"
	DefaultPluginTimeoutMs       = 5000
	DefaultPluginTTLSeconds      = 10
	DefaultPluginMaxConcurrent   = 100
	DefaultPluginMaxOutputBytes  = 1 << 20 // 1 MiB
	DefaultPluginReloadInterval  = "60s"
)

// Settings is the configuration record the spec describes (§6) plus the
// ambient knobs the core's collaborators need to be constructed. Loaded
// from YAML merged with environment variables via cleanenv, the teacher's
// convention (app/config/gator/settings.go).
type Settings struct {
	LogLevel      string `yaml:"log_level" env:"LOG_LEVEL" default:"info" env-description:"logging level such as debug, info, error"`
	Port          int    `yaml:"port" env:"PORT" default:"9163" env-description:"HTTP port the agent listens on"`
	UFDSAdminUUID string `yaml:"ufds_admin_uuid" env:"UFDS_ADMIN_UUID" env-description:"UUID of the administrative account that owns core service zones"`

	Cache  Cache  `yaml:"cache"`
	Plugin Plugin `yaml:"plugin"`
	Zone   Zone   `yaml:"zone"`
}

// Cache configures internal/cache's background sweeper (spec §4.1).
type Cache struct {
	SweepInterval string `yaml:"sweep_interval" env:"CACHE_SWEEP_INTERVAL" default:"5m" env-description:"period between TTL cache sweeps"`
}

// Plugin configures the plugin directory loader and executor (spec §4.7, §4.8).
type Plugin struct {
	GZDir            string `yaml:"gz_dir" env:"PLUGIN_GZ_DIR" default:"/opt/triton/cmon-agent/plugins/gz" env-description:"directory of global-zone plugin scripts"`
	VMDir            string `yaml:"vm_dir" env:"PLUGIN_VM_DIR" default:"/opt/triton/cmon-agent/plugins/vm" env-description:"directory of per-container plugin scripts"`
	DefaultTimeoutMs int    `yaml:"default_timeout_ms" env:"PLUGIN_DEFAULT_TIMEOUT_MS" default:"5000" env-description:"default plugin wall-clock timeout"`
	DefaultTTL       int    `yaml:"default_ttl_seconds" env:"PLUGIN_DEFAULT_TTL_SECONDS" default:"10" env-description:"default plugin cache TTL"`
	MaxOutputBytes   int    `yaml:"max_output_bytes" env:"PLUGIN_MAX_OUTPUT_BYTES" default:"1048576" env-description:"maximum buffered plugin stdout"`
	MaxConcurrent    int    `yaml:"max_concurrent" env:"PLUGIN_MAX_CONCURRENT" default:"100" env-description:"process-wide cap on concurrently executing plugins"`
	ReloadInterval   string `yaml:"reload_interval" env:"PLUGIN_RELOAD_INTERVAL" default:"60s" env-description:"minimum period between plugin directory reloads"`
	RootEnforced     bool   `yaml:"root_enforced" env:"PLUGIN_ROOT_ENFORCED" default:"false" env-description:"reject plugin directories not owned by the superuser (production posture)"`
}

// Zone configures the zone registry's refresh loop (spec §4.6).
type Zone struct {
	RefreshInterval string `yaml:"refresh_interval" env:"ZONE_REFRESH_INTERVAL" default:"30m" env-description:"period between automatic zone registry refreshes"`
}

// NewSettings reads and validates the configuration at path, merged with
// environment variables, the teacher's cleanenv convention
// (app/config/gator/settings.go's NewSettings).
func NewSettings(path string) (*Settings, error) {
	var cfg Settings

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("no config %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "failed to validate settings")
	}
	return &cfg, nil
}

// Validate applies defaults cleanenv's tags cannot express (nested zero
// values) and rejects settings the agent cannot run with.
func (s *Settings) Validate() error {
	s.LogLevel = strings.TrimSpace(s.LogLevel)
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.Port == 0 {
		s.Port = DefaultServerPort
	}

	s.UFDSAdminUUID = strings.TrimSpace(s.UFDSAdminUUID)
	if s.UFDSAdminUUID != "" {
		if _, err := uuid.Parse(s.UFDSAdminUUID); err != nil {
			return errors.Wrapf(err, "ufds_admin_uuid %q is not a UUID", s.UFDSAdminUUID)
		}
	}

	if s.Cache.SweepInterval == "" {
		s.Cache.SweepInterval = DefaultCacheSweepInterval
	}

	if s.Plugin.GZDir == "" {
		s.Plugin.GZDir = DefaultPluginDir + "/gz"
	}
	if s.Plugin.VMDir == "" {
		s.Plugin.VMDir = DefaultPluginDir + "/vm"
	}
	if s.Plugin.DefaultTimeoutMs <= 0 {
		s.Plugin.DefaultTimeoutMs = DefaultPluginTimeoutMs
	}
	if s.Plugin.DefaultTTL <= 0 {
		s.Plugin.DefaultTTL = DefaultPluginTTLSeconds
	}
	if s.Plugin.MaxOutputBytes <= 0 {
		s.Plugin.MaxOutputBytes = DefaultPluginMaxOutputBytes
	}
	if s.Plugin.MaxConcurrent <= 0 {
		s.Plugin.MaxConcurrent = DefaultPluginMaxConcurrent
	}
	if s.Plugin.ReloadInterval == "" {
		s.Plugin.ReloadInterval = DefaultPluginReloadInterval
	}

	if s.Zone.RefreshInterval == "" {
		s.Zone.RefreshInterval = DefaultZoneRefreshInterval
	}

	return nil
}
