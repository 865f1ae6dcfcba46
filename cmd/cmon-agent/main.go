// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Command cmon-agent is the thin entrypoint that wires the collection
// engine (app/domain/...) to a running HTTP service. Everything this file
// does is "external collaborator glue" per spec §1: config loading,
// logging setup, collaborator construction, and server bootstrap.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-obvious/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/joyent/triton-cmon-agent/app/build"
	"github.com/joyent/triton-cmon-agent/app/config"
	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/cache"
	"github.com/joyent/triton-cmon-agent/app/domain/collaborator"
	"github.com/joyent/triton-cmon-agent/app/domain/collector"
	"github.com/joyent/triton-cmon-agent/app/domain/collector/common"
	"github.com/joyent/triton-cmon-agent/app/domain/collector/gz"
	"github.com/joyent/triton-cmon-agent/app/domain/collector/vm"
	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/orchestrator"
	"github.com/joyent/triton-cmon-agent/app/domain/plugin"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
	"github.com/joyent/triton-cmon-agent/app/handlers"
	"github.com/joyent/triton-cmon-agent/app/http/middleware"
	"github.com/joyent/triton-cmon-agent/app/logging"
	"github.com/joyent/triton-cmon-agent/app/utils"
)

var (
	configFile string
	rootCheck  bool
)

func main() {
	root := &cobra.Command{
		Use:   "cmon-agent",
		Short: "per-host Prometheus metrics agent for SmartOS global zones and containers",
		RunE:  run,
	}
	root.Flags().StringVar(&configFile, "config", "", "path to the YAML configuration file")
	root.Flags().BoolVar(&rootCheck, "root-check", false, "enforce that the plugin directories are owned by the superuser (production posture)")

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("cmon-agent exited with an error")
	}
}

func run(_ *cobra.Command, _ []string) error {
	settings, err := config.NewSettings(configFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if rootCheck {
		settings.Plugin.RootEnforced = true
	}

	logger, err := logging.NewLogger(logging.WithLevel(settings.LogLevel))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	zerolog.DefaultContextLogger = &logger
	ctx := logger.WithContext(context.Background())

	engine, err := buildEngine(ctx, settings, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build collection engine")
	}
	defer engine.cache.Close()

	logger.Info().Msg("performing initial zone registry refresh")
	if err := engine.zones.Refresh(ctx); err != nil {
		logger.Error().Err(err).Msg("initial zone registry refresh failed; retrying on the periodic loop")
	}
	refresher := zone.NewRefresher(ctx, engine.zones, zoneRefreshInterval(settings), logger)
	if err := refresher.Run(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start zone registry refresher")
	}
	defer refresher.Shutdown() //nolint:errcheck

	if err := engine.pluginRefresher.Run(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start plugin directory refresher")
	}
	defer engine.pluginRefresher.Shutdown() //nolint:errcheck

	mw := []server.Middleware{
		middleware.LoggingMiddlewareWrapper,
		middleware.PromHTTPMiddleware,
	}
	apis := []server.API{
		handlers.NewMetricsAPI("/v1", engine.orchestrator, engine.zones),
		handlers.NewPromMetricsAPI("/metrics"),
	}

	logger.Info().Int("port", settings.Port).Msg("starting cmon-agent")
	server.New(build.Version()).
		WithAddress(fmt.Sprintf(":%d", settings.Port)).
		WithMiddleware(mw...).
		WithAPIs(apis...).
		WithListener(server.HTTPListener()).
		Run(ctx)
	logger.Info().Msg("cmon-agent stopping")
	return nil
}

// engine bundles the constructed collection-engine collaborators so main
// can Close what needs closing and hand the rest to the HTTP layer.
type engine struct {
	orchestrator    *orchestrator.Orchestrator
	zones           *zone.Registry
	cache           *cache.Cache
	pluginRefresher *plugin.Refresher
}

func buildEngine(ctx context.Context, settings *config.Settings, logger zerolog.Logger) (*engine, error) {
	kstatReader := collaborator.NewKstatReader()
	zoneLister := collaborator.NewZoneLister()
	vmLoader := collaborator.NewVMLoader()
	zfsGetter := collaborator.NewZfsGetter()
	poolLister := collaborator.NewPoolLister()
	ntpqExecer := collaborator.NewNtpqExecer()
	httpGetter := collaborator.NewHTTPGetter()
	sysinfoReader := collaborator.NewSysinfoReader()

	zones := zone.New(zoneLister, vmLoader, kstatReader, settings.UFDSAdminUUID)

	poolReader := acquire.NewPoolStatsReader(poolLister)
	ntpReader := acquire.NewReader(ntpqExecer)
	scraper := acquire.NewSidecarScraper(httpGetter)
	zfsReader := acquire.NewZfsUsageReader(zfsGetter)

	executor := plugin.NewExecutor(logger, settings.Plugin.MaxConcurrent)

	gzPlugins, err := loadPlugins(settings.Plugin.GZDir, settings.Plugin)
	if err != nil {
		logger.Warn().Err(err).Str("dir", settings.Plugin.GZDir).Msg("failed to load gz plugin directory; continuing without gz plugins")
	}
	vmPlugins, err := loadPlugins(settings.Plugin.VMDir, settings.Plugin)
	if err != nil {
		logger.Warn().Err(err).Str("dir", settings.Plugin.VMDir).Msg("failed to load vm plugin directory; continuing without vm plugins")
	}

	registry, err := buildCollectorRegistry(kstatReader, sysinfoReader, poolReader, ntpReader, scraper, zfsReader, executor, gzPlugins, vmPlugins, settings.Plugin.MaxOutputBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to build collector registry: %w", err)
	}

	sweepInterval, err := time.ParseDuration(settings.Cache.SweepInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid cache sweep interval %q: %w", settings.Cache.SweepInterval, err)
	}
	clk := &utils.Clock{}
	c := cache.New(cache.WithSweepInterval(sweepInterval), cache.WithClock(clk.GetCurrentTime))

	o := orchestrator.New(registry, zones, c, logger)

	gzLoader := plugin.NewLoader(settings.Plugin.GZDir, settings.Plugin.RootEnforced, settings.Plugin.DefaultTimeoutMs, settings.Plugin.DefaultTTL)
	vmLoader := plugin.NewLoader(settings.Plugin.VMDir, settings.Plugin.RootEnforced, settings.Plugin.DefaultTimeoutMs, settings.Plugin.DefaultTTL)
	onReload := func(gzPlugins, vmPlugins []plugin.Descriptor) {
		next, err := buildCollectorRegistry(kstatReader, sysinfoReader, poolReader, ntpReader, scraper, zfsReader, executor, gzPlugins, vmPlugins, settings.Plugin.MaxOutputBytes)
		if err != nil {
			logger.Error().Err(err).Msg("failed to rebuild collector registry after plugin reload; keeping previous registry")
			return
		}
		o.SetRegistry(next)
		logger.Info().Int("gz_plugins", len(gzPlugins)).Int("vm_plugins", len(vmPlugins)).Msg("reloaded plugin directories")
	}
	pluginRefresher := plugin.NewRefresher(ctx, gzLoader, vmLoader, pluginReloadInterval(settings), onReload, logger)

	return &engine{orchestrator: o, zones: zones, cache: c, pluginRefresher: pluginRefresher}, nil
}

func buildCollectorRegistry(
	kstatReader kstat.Reader,
	sysinfoReader acquire.SysinfoReader,
	poolReader *acquire.PoolStatsReader,
	ntpReader *acquire.Reader,
	scraper *acquire.SidecarScraper,
	zfsReader *acquire.ZfsUsageReader,
	executor *plugin.Executor,
	gzPlugins, vmPlugins []plugin.Descriptor,
	maxOutputBytes int,
) (*collector.Registry, error) {
	return collector.NewRegistry(map[metric.Domain]map[string]collector.Collector{
		metric.DomainCommon: common.Collectors(kstatReader, sysinfoReader, nil, executor, maxOutputBytes),
		metric.DomainGZ:     gz.Collectors(kstatReader, poolReader, ntpReader, gzPlugins, executor, maxOutputBytes),
		metric.DomainVM:     vm.Collectors(kstatReader, scraper, zfsReader, vmPlugins, executor, maxOutputBytes),
	})
}

func loadPlugins(dir string, cfg config.Plugin) ([]plugin.Descriptor, error) {
	loader := plugin.NewLoader(dir, cfg.RootEnforced, cfg.DefaultTimeoutMs, cfg.DefaultTTL)
	return loader.Load()
}

func zoneRefreshInterval(settings *config.Settings) time.Duration {
	d, err := time.ParseDuration(settings.Zone.RefreshInterval)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

func pluginReloadInterval(settings *config.Settings) time.Duration {
	d, err := time.ParseDuration(settings.Plugin.ReloadInterval)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

