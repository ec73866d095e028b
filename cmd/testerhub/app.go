package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/HerbHall/testerhub/internal/advice"
	"github.com/HerbHall/testerhub/internal/config"
	"github.com/HerbHall/testerhub/internal/export"
	"github.com/HerbHall/testerhub/internal/llm/gemini"
	"github.com/HerbHall/testerhub/internal/llm/ollama"
	"github.com/HerbHall/testerhub/internal/metrics"
	"github.com/HerbHall/testerhub/internal/services"
	"github.com/HerbHall/testerhub/internal/store"
	pkgcatalog "github.com/HerbHall/testerhub/pkg/catalog"
	"github.com/HerbHall/testerhub/pkg/llm"
)

func loadConfig(path string) (config.App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.App{}, err
	}
	return cfg.App()
}

// openCatalog loads the catalog at path, or the embedded one when path is
// empty. CSV files use the export column layout.
func openCatalog(path string) (*pkgcatalog.Catalog, error) {
	if path == "" {
		return pkgcatalog.NewCatalog(), nil
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return openCSVCatalog(path)
	}
	cat, err := pkgcatalog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return cat, nil
}

func openCSVCatalog(path string) (*pkgcatalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	tools, err := export.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	return pkgcatalog.FromTools(tools)
}

// newProvider returns the configured model provider, or nil when advice is disabled.
func newProvider(ctx context.Context, cfg config.AdviceConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		p, err := gemini.New(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("advice provider: %w", err)
		}
		return p, nil
	case config.ProviderOllama:
		return ollama.New(cfg.OllamaURL, cfg.Model, &http.Client{}), nil
	default:
		return nil, nil
	}
}

func newAdviceService(provider llm.Provider, cfg config.AdviceConfig, m metrics.Metrics, logger *zap.Logger) *advice.Service {
	if provider == nil {
		logger.Info("advice disabled")
	} else {
		logger.Info("advice enabled", zap.String("provider", provider.Name()), zap.String("model", provider.Model()))
	}
	return advice.NewService(provider, logger.Named("advice"),
		advice.WithTimeout(cfg.Timeout),
		advice.WithRatePerMinute(cfg.RatePerMinute),
		advice.WithMetrics(m),
	)
}

// settingsBackend is an opened settings repository and its health check.
type settingsBackend struct {
	repo  services.SettingsRepository
	ping  func(ctx context.Context) error
	close func() error
}

func openSettings(ctx context.Context, app config.App, logger *zap.Logger) (*settingsBackend, error) {
	if app.Settings.Backend == config.BackendBolt {
		repo, err := services.OpenBoltSettingsRepository(app.Settings.BoltPath)
		if err != nil {
			return nil, err
		}
		logger.Info("settings store opened", zap.String("backend", "bolt"), zap.String("path", app.Settings.BoltPath))
		return &settingsBackend{
			repo:  repo,
			ping:  func(context.Context) error { return nil },
			close: repo.Close,
		}, nil
	}

	st, err := store.New(app.Store.Path)
	if err != nil {
		return nil, err
	}
	repo, err := services.NewSQLiteSettingsRepository(ctx, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	logger.Info("settings store opened", zap.String("backend", "sqlite"), zap.String("path", app.Store.Path))
	return &settingsBackend{
		repo:  repo,
		ping:  st.DB().PingContext,
		close: st.Close,
	}, nil
}
