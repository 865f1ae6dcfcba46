// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package plugin_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/plugin"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecutorReturnsStdout(t *testing.T) {
	path := writeScript(t, "echo \"uptime\tgauge\t5\"\n")
	e := plugin.NewExecutor(zerolog.Nop(), 0)

	out, err := e.Exec(context.Background(), plugin.ExecParams{
		Path: path, Zonename: "gz", TimeoutMs: 1000, MaxOutputBytes: 1024,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "uptime")
}

// TestExecutorTimeout grounds scenario 3: a plugin that sleeps past its
// timeout is reported NotAvailable, not returned as data.
func TestExecutorTimeout(t *testing.T) {
	path := writeScript(t, "sleep 5\n")
	e := plugin.NewExecutor(zerolog.Nop(), 0)

	_, err := e.Exec(context.Background(), plugin.ExecParams{
		Path: path, Zonename: "gz", TimeoutMs: 50, MaxOutputBytes: 1024,
	})
	require.Error(t, err)
	assert.True(t, metric.IsKind(err, metric.KindNotAvailable))
}

func TestExecutorOutputOverflow(t *testing.T) {
	path := writeScript(t, "yes xxxxxxxxxx | head -c 100000\n")
	e := plugin.NewExecutor(zerolog.Nop(), 0)

	_, err := e.Exec(context.Background(), plugin.ExecParams{
		Path: path, Zonename: "gz", TimeoutMs: 2000, MaxOutputBytes: 16,
	})
	require.Error(t, err)
	assert.True(t, metric.IsKind(err, metric.KindNotAvailable))
}

func TestExecutorNonzeroExit(t *testing.T) {
	path := writeScript(t, "exit 1\n")
	e := plugin.NewExecutor(zerolog.Nop(), 0)

	_, err := e.Exec(context.Background(), plugin.ExecParams{
		Path: path, Zonename: "gz", TimeoutMs: 1000, MaxOutputBytes: 1024,
	})
	require.Error(t, err)
	assert.True(t, metric.IsKind(err, metric.KindNotAvailable))
}

// TestExecutorConcurrencyCap grounds the plugin concurrency cap invariant:
// a request beyond pluginMaxConcurrent is rejected immediately rather than
// queued.
func TestExecutorConcurrencyCap(t *testing.T) {
	path := writeScript(t, "sleep 1\n")
	e := plugin.NewExecutor(zerolog.Nop(), 1)

	done := make(chan error, 1)
	go func() {
		_, err := e.Exec(context.Background(), plugin.ExecParams{
			Path: path, Zonename: "gz", TimeoutMs: 2000, MaxOutputBytes: 1024,
		})
		done <- err
	}()

	// Give the first Exec a moment to acquire the single slot.
	time.Sleep(50 * time.Millisecond)

	_, err := e.Exec(context.Background(), plugin.ExecParams{
		Path: path, Zonename: "gz", TimeoutMs: 2000, MaxOutputBytes: 1024,
	})
	require.Error(t, err)
	assert.True(t, metric.IsKind(err, metric.KindNotAvailable))

	require.NoError(t, <-done)
}
