package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/testerhub/internal/compare"
	"github.com/HerbHall/testerhub/internal/export"
	"github.com/HerbHall/testerhub/internal/metrics"
	pkgcatalog "github.com/HerbHall/testerhub/pkg/catalog"
	"github.com/HerbHall/testerhub/pkg/models"
)

// ToolsResponse is the response for GET /api/v1/catalog/tools.
type ToolsResponse struct {
	Count    int           `json:"count"`
	Criteria Criteria      `json:"criteria"`
	Tools    []models.Tool `json:"tools"`
}

// Handler serves the catalog search API.
type Handler struct {
	engine  *Engine
	metrics metrics.Metrics
	logger  *zap.Logger

	liveIdle time.Duration
}

// NewHandler creates a new catalog API handler.
func NewHandler(engine *Engine, m metrics.Metrics, logger *zap.Logger) *Handler {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Handler{engine: engine, metrics: m, logger: logger, liveIdle: defaultLiveIdle}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/catalog/tools", h.handleListTools)
	mux.HandleFunc("GET /api/v1/catalog/tools/{id}", h.handleGetTool)
	mux.HandleFunc("GET /api/v1/catalog/tools/{id}/related", h.handleRelated)
	mux.HandleFunc("GET /api/v1/catalog/facets", h.handleFacets)
	mux.HandleFunc("GET /api/v1/catalog/summary", h.handleSummary)
	mux.HandleFunc("GET /api/v1/catalog/export", h.handleExport)
	mux.HandleFunc("GET /api/v1/catalog/live", h.handleLive)
}

// CriteriaFromQuery builds criteria from search, category, pricing and
// repeated tag query parameters.
func CriteriaFromQuery(q url.Values) (Criteria, error) {
	return NewCriteria(q.Get("search"), q.Get("category"), q.Get("pricing"), q["tag"])
}

// handleListTools returns the tools matching the query criteria.
//
//	@Summary		Search tools
//	@Description	Returns catalog tools matching every given filter, in catalog order. Search is a case-insensitive substring match over name, description, agent strategy, frameworks and tags. Each tag must be present in the tool's tags or frameworks.
//	@Tags			catalog
//	@Produce		json
//	@Param			search		query		string		false	"Free-text search"
//	@Param			category	query		string		false	"Category name or key, or All"
//	@Param			pricing		query		string		false	"All, Free/OS or Paid"
//	@Param			tag			query		[]string	false	"Required tag (repeatable)"	collectionFormat(multi)
//	@Success		200			{object}	ToolsResponse
//	@Failure		400			{object}	map[string]any
//	@Failure		500			{object}	map[string]any
//	@Router			/catalog/tools [get]
func (h *Handler) handleListTools(w http.ResponseWriter, r *http.Request) {
	c, tools, ok := h.filter(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ToolsResponse{Count: export.Count(tools), Criteria: c, Tools: tools})
}

// handleGetTool returns one tool including its agent strategy.
//
//	@Summary		Get tool
//	@Tags			catalog
//	@Produce		json
//	@Param			id	path		string	true	"Tool ID"
//	@Success		200	{object}	models.Tool
//	@Failure		404	{object}	map[string]any
//	@Router			/catalog/tools/{id} [get]
func (h *Handler) handleGetTool(w http.ResponseWriter, r *http.Request) {
	tool, ok := h.lookup(w, r.PathValue("id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

// handleRelated returns up to three tools related to the given one.
//
//	@Summary		Related tools
//	@Description	Tools sharing the category or at least one tag, excluding the tool itself, in catalog order, at most three.
//	@Tags			catalog
//	@Produce		json
//	@Param			id	path		string	true	"Tool ID"
//	@Success		200	{array}		models.Tool
//	@Failure		404	{object}	map[string]any
//	@Failure		500	{object}	map[string]any
//	@Router			/catalog/tools/{id}/related [get]
func (h *Handler) handleRelated(w http.ResponseWriter, r *http.Request) {
	focal, ok := h.lookup(w, r.PathValue("id"))
	if !ok {
		return
	}
	tools, err := h.engine.Tools()
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}
	writeJSON(w, http.StatusOK, compare.Related(&focal, tools, compare.DefaultRelatedLimit))
}

// handleFacets returns the selectable filter values.
//
//	@Summary		List facets
//	@Description	Categories present in the catalog (prefixed with All), pricing choices and grouped tags.
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	Facets
//	@Failure		500	{object}	map[string]any
//	@Router			/catalog/facets [get]
func (h *Handler) handleFacets(w http.ResponseWriter, _ *http.Request) {
	f, err := h.engine.Facets()
	if err != nil {
		h.logger.Error("failed to extract facets", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// handleSummary summarizes the tools matching the query criteria.
//
//	@Summary		Summarize results
//	@Tags			catalog
//	@Produce		json
//	@Param			search		query		string		false	"Free-text search"
//	@Param			category	query		string		false	"Category name or key, or All"
//	@Param			pricing		query		string		false	"All, Free/OS or Paid"
//	@Param			tag			query		[]string	false	"Required tag (repeatable)"	collectionFormat(multi)
//	@Success		200			{object}	export.Summary
//	@Failure		400			{object}	map[string]any
//	@Router			/catalog/summary [get]
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	_, tools, ok := h.filter(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, export.Summarize(tools))
}

// handleExport downloads the tools matching the query criteria.
//
//	@Summary		Export results
//	@Description	Downloads the filtered tools as ai-tools-export.json or ai-tools-export.csv.
//	@Tags			catalog
//	@Produce		json
//	@Produce		text/csv
//	@Param			format		query		string		false	"json or csv"	default(json)
//	@Param			search		query		string		false	"Free-text search"
//	@Param			category	query		string		false	"Category name or key, or All"
//	@Param			pricing		query		string		false	"All, Free/OS or Paid"
//	@Param			tag			query		[]string	false	"Required tag (repeatable)"	collectionFormat(multi)
//	@Success		200			{array}		models.Tool
//	@Failure		400			{object}	map[string]any
//	@Router			/catalog/export [get]
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_, tools, ok := h.filter(w, r)
	if !ok {
		return
	}
	if err := format.Check(tools); err != nil {
		h.logger.Error("export not representable", zap.String("format", string(format)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	if err := export.Write(w, format, tools); err != nil {
		h.logger.Warn("export write failed", zap.String("format", string(format)), zap.Error(err))
		return
	}
	h.metrics.ObserveExport(string(format), len(tools))
}

func (h *Handler) filter(w http.ResponseWriter, r *http.Request) (Criteria, []models.Tool, bool) {
	c, err := CriteriaFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return Criteria{}, nil, false
	}
	tools, err := h.engine.Filter(c)
	if err != nil {
		h.logger.Error("failed to filter catalog", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return Criteria{}, nil, false
	}
	h.metrics.ObserveFilter(metrics.SurfaceHTTP, len(tools))
	return c, tools, true
}

func (h *Handler) lookup(w http.ResponseWriter, id string) (models.Tool, bool) {
	tool, err := h.engine.Lookup(id)
	if err != nil {
		if errors.Is(err, pkgcatalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tool not found: "+id)
			return models.Tool{}, false
		}
		h.logger.Error("failed to look up tool", zap.String("tool_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return models.Tool{}, false
	}
	return tool, true
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://testerhub.dev/problems/" + strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "-"),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
