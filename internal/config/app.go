package config

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Settings storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Advice providers.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderNone   = "none"
)

// ErrInvalidConfig is wrapped by every validation failure from App.
var ErrInvalidConfig = errors.New("invalid configuration")

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Addr joins host and port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type CatalogConfig struct {
	// Path to a YAML or JSON catalog. Empty uses the embedded catalog.
	Path string `mapstructure:"path"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type SettingsConfig struct {
	Backend  string `mapstructure:"backend"`
	BoltPath string `mapstructure:"bolt_path"`
}

type AdviceConfig struct {
	Provider      string        `mapstructure:"provider"`
	Model         string        `mapstructure:"model"`
	APIKey        string        `mapstructure:"api_key"`
	OllamaURL     string        `mapstructure:"ollama_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerMinute int           `mapstructure:"rate_per_minute"`
}

// App is the typed application configuration.
type App struct {
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Store    StoreConfig    `mapstructure:"store"`
	Settings SettingsConfig `mapstructure:"settings"`
	Advice   AdviceConfig   `mapstructure:"advice"`
}

// App decodes and validates the application configuration.
func (c *Config) App() (App, error) {
	var app App
	if err := c.Unmarshal(&app); err != nil {
		return App{}, fmt.Errorf("decode config: %w", err)
	}
	return app, app.Validate()
}

// Validate checks enumerated values and required provider settings.
func (a *App) Validate() error {
	switch a.Settings.Backend {
	case BackendSQLite, BackendBolt:
	default:
		return fmt.Errorf("%w: settings.backend %q (want %s or %s)", ErrInvalidConfig, a.Settings.Backend, BackendSQLite, BackendBolt)
	}
	switch a.Advice.Provider {
	case ProviderNone, ProviderOllama:
	case ProviderGemini:
		if a.Advice.APIKey == "" {
			return fmt.Errorf("%w: advice.api_key is required for the gemini provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: advice.provider %q", ErrInvalidConfig, a.Advice.Provider)
	}
	if a.Advice.Provider == ProviderOllama && a.Advice.Model == "" {
		return fmt.Errorf("%w: advice.model is required for the ollama provider", ErrInvalidConfig)
	}
	if a.Advice.Timeout < 0 || a.Advice.RatePerMinute < 0 {
		return fmt.Errorf("%w: advice.timeout and advice.rate_per_minute must not be negative", ErrInvalidConfig)
	}
	if a.Server.Port == "" {
		return fmt.Errorf("%w: server.port is required", ErrInvalidConfig)
	}
	return nil
}
