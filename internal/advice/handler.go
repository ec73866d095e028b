package advice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/HerbHall/testerhub/internal/server"
	pkgcatalog "github.com/HerbHall/testerhub/pkg/catalog"
	"github.com/HerbHall/testerhub/pkg/models"
)

// ToolLookup resolves catalog tools by id.
type ToolLookup interface {
	Lookup(id string) (models.Tool, error)
}

// Request is the body of POST /advice. An empty framework uses the tool's
// first listed framework.
type Request struct {
	ToolID    string `json:"tool_id" example:"playwright-ai"`
	Framework string `json:"framework" example:"Node.js"`
}

// Handler serves the advice endpoint.
type Handler struct {
	service *Service
	tools   ToolLookup
	logger  *zap.Logger
}

// NewHandler creates an advice API handler.
func NewHandler(service *Service, tools ToolLookup, logger *zap.Logger) *Handler {
	return &Handler{service: service, tools: tools, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/advice", h.handleAdvise)
}

// handleAdvise generates agent advice for a tool.
//
//	@Summary		Generate agent advice
//	@Description	Asks the configured model how to turn a tool into an autonomous testing agent. Model failures return a fallback text with fallback=true, not an error.
//	@Tags			advice
//	@Accept			json
//	@Produce		json
//	@Param			request	body		Request	true	"Tool and framework"
//	@Success		200		{object}	Result
//	@Failure		400		{object}	server.Problem
//	@Failure		404		{object}	server.Problem
//	@Router			/advice [post]
func (h *Handler) handleAdvise(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ToolID) == "" {
		server.BadRequest(w, "tool_id is required", r.URL.Path)
		return
	}
	tool, err := h.tools.Lookup(req.ToolID)
	if errors.Is(err, pkgcatalog.ErrNotFound) {
		server.NotFound(w, "tool "+req.ToolID+" not found", r.URL.Path)
		return
	}
	if err != nil {
		h.logger.Error("advice tool lookup failed", zap.String("tool_id", req.ToolID), zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}

	framework := strings.TrimSpace(req.Framework)
	if framework == "" && len(tool.Frameworks) > 0 {
		framework = tool.Frameworks[0]
	}
	if framework == "" {
		server.BadRequest(w, "framework is required for tools without listed frameworks", r.URL.Path)
		return
	}

	res := h.service.Advise(r.Context(), tool.Name, framework)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.logger.Debug("failed to write advice response", zap.Error(err))
	}
}
