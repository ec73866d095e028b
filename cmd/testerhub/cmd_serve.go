package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/HerbHall/testerhub/internal/advice"
	"github.com/HerbHall/testerhub/internal/catalog"
	"github.com/HerbHall/testerhub/internal/compare"
	_ "github.com/HerbHall/testerhub/internal/docs"
	"github.com/HerbHall/testerhub/internal/insight"
	"github.com/HerbHall/testerhub/internal/mcpserver"
	"github.com/HerbHall/testerhub/internal/metrics"
	"github.com/HerbHall/testerhub/internal/server"
	"github.com/HerbHall/testerhub/internal/settings"
	"github.com/HerbHall/testerhub/internal/version"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("testerhub server starting", zap.String("version", version.Short()))

	app, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := metrics.NewPrometheus(reg)

	cat, err := openCatalog(app.Catalog.Path)
	if err != nil {
		return err
	}
	engine := catalog.NewEngine(cat)
	if _, err := engine.Facets(); err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.Int("tools", cat.Len()))

	backend, err := openSettings(ctx, app, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.close(); err != nil {
			logger.Error("settings store close error", zap.Error(err))
		}
	}()
	initial := settings.Load(ctx, backend.repo, logger.Named("settings"))

	provider, err := newProvider(ctx, app.Advice)
	if err != nil {
		return err
	}
	adviceSvc := newAdviceService(provider, app.Advice, prom, logger)
	facets, _ := engine.Facets()

	sessions := compare.NewManager(logger.Named("compare"))
	prom.TrackSessions(sessions.Len)

	srv := server.New(app.Server.Addr(), logger.Named("http"),
		server.WithMetrics(prom, reg),
		server.WithSwagger(),
		server.WithRoutes(
			catalog.NewHandler(engine, prom, logger.Named("catalog")),
			compare.NewHandler(sessions, engine, logger.Named("compare")),
			advice.NewHandler(adviceSvc, engine, logger.Named("advice")),
			insight.NewHandler(insight.NewTranslator(provider, facets), engine, prom, logger.Named("insight")),
			settings.NewHandler(backend.repo, initial, logger.Named("settings")),
			mcpserver.New(engine, adviceSvc, prom, version.Short(), logger),
		),
		server.WithHealthCheck("catalog", func(context.Context) error {
			_, err := engine.Facets()
			return err
		}),
		server.WithHealthCheck("settings", backend.ping),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("testerhub server ready", zap.String("addr", app.Server.Addr()))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return err
		}
		return errors.New("server stopped unexpectedly")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("testerhub server stopped")
	return nil
}
