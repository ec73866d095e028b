package insight

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/HerbHall/testerhub/internal/catalog"
	"github.com/HerbHall/testerhub/internal/metrics"
	"github.com/HerbHall/testerhub/internal/server"
	"github.com/HerbHall/testerhub/pkg/models"
)

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question" example:"free python tools for RAG evaluation"`
}

// AskResponse carries the derived criteria and their results. Fallback is
// true when the model could not be used and the question was applied as
// plain search text.
type AskResponse struct {
	Question string           `json:"question"`
	Criteria catalog.Criteria `json:"criteria"`
	Count    int              `json:"count"`
	Tools    []models.Tool    `json:"tools"`
	Fallback bool             `json:"fallback"`
	Model    string           `json:"model,omitempty"`
}

// Handler serves natural language search.
type Handler struct {
	translator *Translator
	engine     *catalog.Engine
	metrics    metrics.Metrics
	logger     *zap.Logger
}

// NewHandler creates a natural language search handler.
func NewHandler(translator *Translator, engine *catalog.Engine, m metrics.Metrics, logger *zap.Logger) *Handler {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Handler{translator: translator, engine: engine, metrics: m, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/ask", h.handleAsk)
}

// handleAsk filters the catalog using criteria derived from a question.
//
//	@Summary		Natural language search
//	@Description	Translates a question into filter criteria with the configured model. Without a usable model the question is used as search text.
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AskRequest	true	"Question"
//	@Success		200		{object}	AskResponse
//	@Failure		400		{object}	server.Problem
//	@Router			/ask [post]
func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		server.BadRequest(w, "question is required", r.URL.Path)
		return
	}

	resp := AskResponse{Question: req.Question}
	c, model, err := h.translator.Translate(r.Context(), req.Question)
	if err != nil {
		h.logger.Warn("question translation failed", zap.String("question", req.Question), zap.Error(err))
		c = catalog.DefaultCriteria()
		c.Search = req.Question
		resp.Fallback = true
	}
	resp.Criteria = c
	resp.Model = model

	tools, err := h.engine.Filter(c)
	if err != nil {
		h.logger.Error("ask filter failed", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}
	h.metrics.ObserveFilter(metrics.SurfaceHTTP, len(tools))
	resp.Count = len(tools)
	resp.Tools = tools

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Debug("failed to write ask response", zap.Error(err))
	}
}
