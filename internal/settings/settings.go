// Package settings owns the user display preferences and their HTTP endpoints.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/HerbHall/testerhub/internal/services"
)

// StorageKey is the repository key the preferences are stored under.
const StorageKey = "preferences"

// Allowed preference values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	FontSmall  = "sm"
	FontMedium = "md"
	FontLarge  = "lg"
)

// ErrInvalidSettings is returned for preference values outside the allowed set.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the display preferences of a user.
type Settings struct {
	Theme    string `json:"theme" example:"dark"`
	Language string `json:"language" example:"en"`
	FontSize string `json:"fontSize" example:"md"`
}

// Defaults returns the preferences used when nothing valid is stored.
func Defaults() Settings {
	return Settings{Theme: ThemeDark, Language: "en", FontSize: FontMedium}
}

// Validate checks every field and canonicalizes the language tag.
func (s *Settings) Validate() error {
	switch s.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("%w: theme %q", ErrInvalidSettings, s.Theme)
	}
	switch s.FontSize {
	case FontSmall, FontMedium, FontLarge:
	default:
		return fmt.Errorf("%w: fontSize %q", ErrInvalidSettings, s.FontSize)
	}
	tag, err := language.Parse(s.Language)
	if err != nil {
		return fmt.Errorf("%w: language %q", ErrInvalidSettings, s.Language)
	}
	s.Language = tag.String()
	return nil
}

// Load reads the stored preferences. Absent, unreadable or invalid state
// yields Defaults; problems are logged, never returned.
func Load(ctx context.Context, repo services.SettingsRepository, logger *zap.Logger) Settings {
	stored, err := repo.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			logger.Warn("failed to read settings, using defaults", zap.Error(err))
		}
		return Defaults()
	}

	// Fields missing from older payloads keep their defaults.
	s := Defaults()
	if err := json.Unmarshal([]byte(stored.Value), &s); err != nil {
		logger.Warn("stored settings are corrupt, using defaults", zap.Error(err))
		return Defaults()
	}
	if err := s.Validate(); err != nil {
		logger.Warn("stored settings are invalid, using defaults", zap.Error(err))
		return Defaults()
	}
	return s
}

// Save validates s and writes it to the repository.
func Save(ctx context.Context, repo services.SettingsRepository, s Settings) (Settings, error) {
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return Settings{}, fmt.Errorf("encode settings: %w", err)
	}
	if err := repo.Set(ctx, StorageKey, string(raw)); err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return s, nil
}
