// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package plugin

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/utils/parallel"
)

// defaultMaxConcurrent is pluginMaxConcurrent's default (spec §4.8).
const defaultMaxConcurrent = 100

// boundedWriter caps the bytes it will buffer; once full, further writes
// trip errOutputTooLarge so the executor can terminate the child instead
// of retaining an unbounded amount of its output.
type boundedWriter struct {
	buf        bytes.Buffer
	max        int
	overflow   bool
	onOverflow func()
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	if w.buf.Len()+len(p) > w.max {
		w.overflow = true
		if w.onOverflow != nil {
			w.onOverflow()
		}
		return 0, errOutputTooLarge
	}
	return w.buf.Write(p)
}

var errOutputTooLarge = fmt.Errorf("plugin: stdout exceeded maxOutputBytes")

// ExecParams is the executor's request contract (spec §4.8).
type ExecParams struct {
	Path           string
	Zonename       string
	TimeoutMs      int
	MaxOutputBytes int
}

// Executor runs plugins in child processes under timeout, output, and
// global concurrency bounds.
type Executor struct {
	logger    zerolog.Logger
	semaphore *parallel.Manager
}

// NewExecutor constructs an Executor. maxConcurrent is pluginMaxConcurrent;
// zero selects the default of 100.
func NewExecutor(logger zerolog.Logger, maxConcurrent int) *Executor {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Executor{logger: logger, semaphore: parallel.NewCap(maxConcurrent)}
}

// Exec runs one plugin and returns its stdout. Every failure mode --
// timeout, output overflow, nonzero exit, signal death, or concurrency cap
// -- is reported as a NotAvailable-kind error; stderr is logged, never
// surfaced.
func (e *Executor) Exec(ctx context.Context, p ExecParams) (string, error) {
	if !e.semaphore.TryAcquire() {
		return "", metric.NewError(metric.KindNotAvailable,
			fmt.Errorf("plugin: concurrency cap reached, dropping %s", p.Path))
	}
	defer e.semaphore.Release()

	timeout := time.Duration(p.TimeoutMs) * time.Millisecond
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, p.Path, p.Zonename)
	stdout := &boundedWriter{max: p.MaxOutputBytes, onOverflow: cancel}
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	e.logger.Debug().
		Str("plugin", p.Path).
		Str("stderr", stderr.String()).
		Msg("plugin execution finished")

	if stdout.overflow {
		return "", metric.NewError(metric.KindNotAvailable,
			fmt.Errorf("plugin %s: %w", p.Path, errOutputTooLarge))
	}
	if execCtx.Err() == context.DeadlineExceeded {
		return "", metric.NewError(metric.KindNotAvailable,
			fmt.Errorf("plugin %s: timed out after %dms", p.Path, p.TimeoutMs))
	}
	if err != nil {
		return "", metric.NewError(metric.KindNotAvailable,
			fmt.Errorf("plugin %s: %w", p.Path, err))
	}

	return stdout.buf.String(), nil
}
