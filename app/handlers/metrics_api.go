// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-obvious/server"
	"github.com/go-obvious/server/api"
	"github.com/go-obvious/server/request"
	"github.com/rs/zerolog/log"

	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/orchestrator"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

// MetricsAPI is the agent's core HTTP surface (spec §6): on-demand
// collection at /v1/{target}/metrics and an explicit zone-registry
// refresh at /v1/refresh.
type MetricsAPI struct {
	api.Service
	orchestrator *orchestrator.Orchestrator
	zones        *zone.Registry
}

// NewMetricsAPI mounts the v1 surface under base.
func NewMetricsAPI(base string, o *orchestrator.Orchestrator, zones *zone.Registry) *MetricsAPI {
	a := &MetricsAPI{
		orchestrator: o,
		zones:        zones,
		Service: api.Service{
			APIName: "cmon-metrics",
			Mounts:  map[string]*chi.Mux{},
		},
	}
	a.Service.Mounts[base] = a.Routes()
	return a
}

func (a *MetricsAPI) Register(app server.Server) error {
	return a.Service.Register(app)
}

func (a *MetricsAPI) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/{target}/metrics", a.GetMetrics)
	r.Post("/refresh", a.Refresh)
	return r
}

// GetMetrics serves GET /v1/{target}/metrics (spec §6). target is "gz" for
// the global host or a container UUID.
func (a *MetricsAPI) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	target := chi.URLParam(r, "target")

	text, err := a.orchestrator.GetMetrics(ctx, target)
	if err != nil {
		switch {
		case metric.IsKind(err, metric.KindNotFound):
			request.Reply(r, w, err.Error(), http.StatusNotFound)
		default:
			log.Ctx(ctx).Err(err).Str("target", target).Msg("failed to collect metrics")
			request.Reply(r, w, "internal error collecting metrics", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		log.Ctx(ctx).Err(err).Str("target", target).Msg("failed to write metrics response")
	}
}

// Refresh serves POST /v1/refresh (spec §6): re-enumerates zones
// immediately rather than waiting for the periodic refresh loop.
func (a *MetricsAPI) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := a.zones.Refresh(ctx); err != nil {
		log.Ctx(ctx).Err(err).Msg("failed to refresh zone registry")
		request.Reply(r, w, "failed to refresh zone registry", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
