package settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/HerbHall/testerhub/internal/services"
)

// SettingsProblemDetail represents an RFC 7807 error response for settings endpoints.
// @Description RFC 7807 Problem Details error response.
type SettingsProblemDetail struct {
	Type   string `json:"type" example:"https://testerhub.dev/problems/settings-error"`
	Title  string `json:"title" example:"Bad Request"`
	Status int    `json:"status" example:"400"`
	Detail string `json:"detail" example:"invalid settings: theme \"blue\""`
}

// Handler serves the preferences endpoints. It holds the current settings
// value, loaded once at construction and replaced on every successful save.
type Handler struct {
	repo   services.SettingsRepository
	logger *zap.Logger

	mu      sync.RWMutex
	current Settings
}

// NewHandler creates a settings Handler with the given initial value,
// normally the result of Load.
func NewHandler(repo services.SettingsRepository, initial Settings, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger, current: initial}
}

// Current returns the settings value in effect.
func (h *Handler) Current() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// RegisterRoutes registers settings routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/settings", h.handleGet)
	mux.HandleFunc("PUT /api/v1/settings", h.handlePut)
}

// handleGet returns the current display preferences.
//
//	@Summary		Get settings
//	@Description	Get the current theme, language and font size preferences.
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	Settings	"Current settings"
//	@Router			/settings [get]
func (h *Handler) handleGet(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Current())
}

// handlePut validates and saves new display preferences. Omitted fields keep
// their current values.
//
//	@Summary		Update settings
//	@Description	Update the theme, language and font size preferences.
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		Settings				true	"New settings"
//	@Success		200		{object}	Settings				"Saved settings"
//	@Failure		400		{object}	SettingsProblemDetail	"Invalid request or value"
//	@Failure		500		{object}	SettingsProblemDetail	"Internal server error"
//	@Router			/settings [put]
func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.current
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeSettingsError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := Save(r.Context(), h.repo, next)
	if err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			writeSettingsError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to save settings", zap.Error(err))
		writeSettingsError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	h.current = saved
	h.logger.Debug("settings saved",
		zap.String("theme", saved.Theme),
		zap.String("language", saved.Language),
		zap.String("font_size", saved.FontSize),
	)
	writeJSON(w, http.StatusOK, saved)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSettingsError writes an RFC 7807 problem response.
func writeSettingsError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SettingsProblemDetail{
		Type:   "https://testerhub.dev/problems/settings-error",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
