// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package zone

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/joyent/triton-cmon-agent/app/types"
)

// Refresher periodically re-enumerates the zone Registry on a fixed
// interval (spec §4.6) and can be stopped cleanly at process shutdown. It
// implements types.Runnable the way the rest of this codebase's background
// loops do.
type Refresher struct {
	registry    *Registry
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

// NewRefresher constructs a Refresher over registry. It does not start the
// loop; call Run.
func NewRefresher(ctx context.Context, registry *Registry, interval time.Duration, logger zerolog.Logger) *Refresher {
	newCtx, cancel := context.WithCancel(ctx)
	return &Refresher{
		registry:    registry,
		interval:    interval,
		logger:      logger,
		originalCtx: ctx,
		ctx:         newCtx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Run starts the periodic refresh loop. Calling Run twice without an
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
				if err := r.registry.Refresh(r.ctx); err != nil {
					r.logger.Error().Err(err).Msg("periodic zone registry refresh failed")
				}
			}
		}
	}()
	r.running = true
	return nil
}

// IsRunning implements types.Runnable.
func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Shutdown stops the refresh loop and blocks until its goroutine exits.
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
