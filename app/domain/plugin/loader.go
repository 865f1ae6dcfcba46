// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package plugin enumerates and executes operator-supplied metric scripts
// under safety bounds (spec §4.7, §4.8).
package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// overrides is the optional plugin.json shape: a mapping from filename to
// per-plugin timeout/ttl overrides.
type overrides map[string]struct {
	Timeout *int `json:"timeout"`
	TTL     *int `json:"ttl"`
}

// Descriptor is one loaded plugin, ready for the executor.
type Descriptor struct {
	Name       string
	Path       string
	TimeoutMs  int
	TTLSeconds int
}

// Loader enumerates a directory of executable metric scripts.
type Loader struct {
	Dir               string
	RootEnforced      bool
	DefaultTimeoutMs  int
	DefaultTTLSeconds int
}

// NewLoader constructs a Loader. RootEnforced rejects plugin directories
// not owned by the superuser, the production posture; leave it false in
// development.
func NewLoader(dir string, rootEnforced bool, defaultTimeoutMs, defaultTTLSeconds int) *Loader {
	return &Loader{
		Dir: dir, RootEnforced: rootEnforced,
		DefaultTimeoutMs: defaultTimeoutMs, DefaultTTLSeconds: defaultTTLSeconds,
	}
}

// Load enumerates l.Dir and returns a descriptor for every entry executable
// by this process. Results carry no ordering contract.
func (l *Loader) Load() ([]Descriptor, error) {
	info, err := os.Stat(l.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "plugin: stat directory %q", l.Dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("plugin: %q is not a directory", l.Dir)
	}
	if l.RootEnforced {
		if err := requireSuperuserOwned(info); err != nil {
			return nil, err
		}
	}

	ov, err := loadOverrides(l.Dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "plugin: read directory %q", l.Dir)
	}

	var descriptors []Descriptor
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		entryInfo, err := entry.Info()
		if err != nil {
			continue
		}
		if entryInfo.Mode().Perm()&0o111 == 0 {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		timeoutMs := l.DefaultTimeoutMs
		ttlSeconds := l.DefaultTTLSeconds
		if o, ok := ov[entry.Name()]; ok {
			if o.Timeout != nil {
				timeoutMs = *o.Timeout
			}
			if o.TTL != nil {
				ttlSeconds = *o.TTL
			}
		}

		descriptors = append(descriptors, Descriptor{
			Name:       name,
			Path:       filepath.Join(l.Dir, entry.Name()),
			TimeoutMs:  timeoutMs,
			TTLSeconds: ttlSeconds,
		})
	}

	return descriptors, nil
}

func loadOverrides(dir string) (overrides, error) {
	path := filepath.Join(dir, "plugin.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return overrides{}, nil
		}
		return nil, errors.Wrapf(err, "plugin: read %q", path)
	}

	var ov overrides
	if err := json.Unmarshal(data, &ov); err != nil {
		return nil, errors.Wrapf(err, "plugin: parse %q", path)
	}
	return ov, nil
}

func requireSuperuserOwned(info os.FileInfo) error {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fmt.Errorf("plugin: cannot determine owner of plugin directory on this platform")
	}
	if stat.Uid != 0 {
		return fmt.Errorf("plugin: directory owner uid %d is not the superuser", stat.Uid)
	}
	return nil
}
