package compare

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

// ToolSource provides catalog tools to the comparison endpoints.
type ToolSource interface {
	Tools() ([]models.Tool, error)
	Lookup(id string) (models.Tool, error)
}

// CreateSessionRequest is the body of POST /compare/sessions.
type CreateSessionRequest struct {
	FocalID string `json:"focal_id" example:"playwright-ai"`
}

// ToolRequest names a tool by id.
type ToolRequest struct {
	ToolID string `json:"tool_id" example:"cypress"`
}

// CandidatesResponse lists tools that can be added to a session.
type CandidatesResponse struct {
	Query string        `json:"query"`
	Count int           `json:"count"`
	Tools []models.Tool `json:"tools"`
}

// Handler serves the comparison session API.
type Handler struct {
	manager *Manager
	tools   ToolSource
	logger  *zap.Logger
}

// NewHandler creates a comparison API handler.
func NewHandler(manager *Manager, tools ToolSource, logger *zap.Logger) *Handler {
	return &Handler{manager: manager, tools: tools, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/compare/sessions", h.handleCreate)
	mux.HandleFunc("GET /api/v1/compare/sessions/{id}", h.handleGet)
	mux.HandleFunc("DELETE /api/v1/compare/sessions/{id}", h.handleDelete)
	mux.HandleFunc("PUT /api/v1/compare/sessions/{id}/focal", h.handleSetFocal)
	mux.HandleFunc("POST /api/v1/compare/sessions/{id}/picks", h.handleAddPick)
	mux.HandleFunc("DELETE /api/v1/compare/sessions/{id}/picks/{toolID}", h.handleRemovePick)
	mux.HandleFunc("GET /api/v1/compare/sessions/{id}/candidates", h.handleCandidates)
}

// handleCreate starts a comparison session around a focal tool.
//
//	@Summary		Create comparison session
//	@Description	Starts a side-by-side comparison with the given focal tool and no picks.
//	@Tags			compare
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateSessionRequest	true	"Focal tool"
//	@Success		201		{object}	Snapshot
//	@Failure		400		{object}	server.Problem
//	@Failure		404		{object}	server.Problem
//	@Router			/compare/sessions [post]
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.FocalID) == "" {
		server.BadRequest(w, "focal_id is required", r.URL.Path)
		return
	}
	focal, ok := h.lookup(w, r, req.FocalID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.manager.Create(focal))
}

// handleGet returns a comparison session.
//
//	@Summary		Get comparison session
//	@Tags			compare
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	Snapshot
//	@Failure		404	{object}	server.Problem
//	@Router			/compare/sessions/{id} [get]
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleDelete ends a comparison session.
//
//	@Summary		Delete comparison session
//	@Tags			compare
//	@Param			id	path	string	true	"Session ID"
//	@Success		204
//	@Failure		404	{object}	server.Problem
//	@Router			/compare/sessions/{id} [delete]
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Delete(r.PathValue("id")); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetFocal switches the focal tool. Picks are cleared when it changes.
//
//	@Summary		Change focal tool
//	@Tags			compare
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Session ID"
//	@Param			request	body		ToolRequest	true	"New focal tool"
//	@Success		200		{object}	Snapshot
//	@Failure		400		{object}	server.Problem
//	@Failure		404		{object}	server.Problem
//	@Router			/compare/sessions/{id}/focal [put]
func (h *Handler) handleSetFocal(w http.ResponseWriter, r *http.Request) {
	tool, ok := h.decodeTool(w, r)
	if !ok {
		return
	}
	snap, err := h.manager.SetFocal(r.PathValue("id"), tool)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleAddPick adds a tool to the comparison list.
//
//	@Summary		Add comparison pick
//	@Description	Adds a tool to the comparison. At most two picks, distinct from the focal tool and each other.
//	@Tags			compare
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Session ID"
//	@Param			request	body		ToolRequest	true	"Tool to add"
//	@Success		200		{object}	Snapshot
//	@Failure		400		{object}	server.Problem
//	@Failure		404		{object}	server.Problem
//	@Failure		409		{object}	server.Problem
//	@Router			/compare/sessions/{id}/picks [post]
func (h *Handler) handleAddPick(w http.ResponseWriter, r *http.Request) {
	tool, ok := h.decodeTool(w, r)
	if !ok {
		return
	}
	snap, err := h.manager.Add(r.PathValue("id"), tool)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleRemovePick removes a tool from the comparison list.
//
//	@Summary		Remove comparison pick
//	@Tags			compare
//	@Produce		json
//	@Param			id		path		string	true	"Session ID"
//	@Param			toolID	path		string	true	"Tool ID"
//	@Success		200		{object}	Snapshot
//	@Failure		404		{object}	server.Problem
//	@Router			/compare/sessions/{id}/picks/{toolID} [delete]
func (h *Handler) handleRemovePick(w http.ResponseWriter, r *http.Request) {
	snap, err := h.manager.Remove(r.PathValue("id"), r.PathValue("toolID"))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleCandidates searches tool names for the add-to-comparison box.
//
//	@Summary		Search comparison candidates
//	@Description	Case-insensitive name search excluding the focal tool and current picks. A blank query returns nothing.
//	@Tags			compare
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Param			q	query		string	false	"Name search text"
//	@Success		200	{object}	CandidatesResponse
//	@Failure		404	{object}	server.Problem
//	@Failure		500	{object}	server.Problem
//	@Router			/compare/sessions/{id}/candidates [get]
func (h *Handler) handleCandidates(w http.ResponseWriter, r *http.Request) {
	tools, err := h.tools.Tools()
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}
	q := r.URL.Query().Get("q")
	found, err := h.manager.Candidates(r.PathValue("id"), tools, q)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CandidatesResponse{Query: q, Count: len(found), Tools: found})
}

func (h *Handler) decodeTool(w http.ResponseWriter, r *http.Request) (models.Tool, bool) {
	var req ToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ToolID) == "" {
		server.BadRequest(w, "tool_id is required", r.URL.Path)
		return models.Tool{}, false
	}
	return h.lookup(w, r, req.ToolID)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, id string) (models.Tool, bool) {
	tool, err := h.tools.Lookup(id)
	if err != nil {
		if errors.Is(err, pkgcatalog.ErrNotFound) {
			server.NotFound(w, "tool not found: "+id, r.URL.Path)
			return models.Tool{}, false
		}
		h.logger.Error("failed to look up tool", zap.String("tool_id", id), zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return models.Tool{}, false
	}
	return tool, true
}

func (h *Handler) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrPickNotFound):
		server.NotFound(w, err.Error(), r.URL.Path)
	case errors.Is(err, ErrSessionFull), errors.Is(err, ErrDuplicatePick),
		errors.Is(err, ErrFocalPick), errors.Is(err, ErrNoFocal):
		server.Conflict(w, err.Error(), r.URL.Path)
	default:
		h.logger.Error("comparison session error", zap.Error(err))
		server.InternalError(w, "comparison failed", r.URL.Path)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
