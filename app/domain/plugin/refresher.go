// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package plugin

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/joyent/triton-cmon-agent/app/types"
)

// ReloadFunc is called with the freshly re-enumerated gz and vm plugin
// descriptors on every successful Refresher tick. The caller (cmd/cmon-agent)
// supplies this to rebuild and swap a collector.Registry without plugin
// importing the collector package back (spec §4.9).
type ReloadFunc func(gzPlugins, vmPlugins []Descriptor)

// Refresher periodically re-enumerates the gz and vm plugin directories on a
// fixed interval and hands the results to onReload, the way Refresher in
// app/domain/zone drives the zone registry's periodic Refresh. It implements
// types.Runnable.
type Refresher struct {
	gzLoader    *Loader
	vmLoader    *Loader
	onReload    ReloadFunc
	interval    time.Duration
	logger      zerolog.Logger
	originalCtx context.Context
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.Mutex
	running     bool
	done        chan struct{}
}

var _ types.Runnable = (*Refresher)(nil)

// NewRefresher constructs a Refresher over gzLoader and vmLoader. It does not
// start the loop or perform an initial load; call Run.
func NewRefresher(ctx context.Context, gzLoader, vmLoader *Loader, interval time.Duration, onReload ReloadFunc, logger zerolog.Logger) *Refresher {
	newCtx, cancel := context.WithCancel(ctx)
	return &Refresher{
		gzLoader:    gzLoader,
		vmLoader:    vmLoader,
		onReload:    onReload,
		interval:    interval,
		logger:      logger,
		originalCtx: ctx,
		ctx:         newCtx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Run starts the periodic reload loop. Calling Run twice without an
// intervening Shutdown is a no-op.
func (r *Refresher) Run() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		defer close(r.done)

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.reload()
			}
		}
	}()
	r.running = true
	return nil
}

func (r *Refresher) reload() {
	gzPlugins, err := r.gzLoader.Load()
	if err != nil {
		r.logger.Error().Err(err).Str("dir", r.gzLoader.Dir).Msg("periodic gz plugin reload failed; keeping previous descriptors")
		return
	}
	vmPlugins, err := r.vmLoader.Load()
	if err != nil {
		r.logger.Error().Err(err).Str("dir", r.vmLoader.Dir).Msg("periodic vm plugin reload failed; keeping previous descriptors")
		return
	}
	r.onReload(gzPlugins, vmPlugins)
}

// IsRunning implements types.Runnable.
func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Shutdown stops the reload loop and blocks until its goroutine exits.
func (r *Refresher) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return nil
	}
	r.cancel()
	<-r.done

	r.running = false
	r.ctx, r.cancel = context.WithCancel(r.originalCtx)
	r.done = make(chan struct{})
	return nil
}
