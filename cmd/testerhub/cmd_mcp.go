package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/HerbHall/testerhub/internal/catalog"
	"github.com/HerbHall/testerhub/internal/mcpserver"
	"github.com/HerbHall/testerhub/internal/metrics"
	"github.com/HerbHall/testerhub/internal/version"
)

// runMCP serves MCP over stdio. Logs go to stderr so stdout stays protocol-only.
func runMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	cat, err := openCatalog(app.Catalog.Path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := newProvider(ctx, app.Advice)
	if err != nil {
		return err
	}
	adviceSvc := newAdviceService(provider, app.Advice, metrics.NewNoop(), logger)
	srv := mcpserver.New(catalog.NewEngine(cat), adviceSvc, nil, version.Short(), logger)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
