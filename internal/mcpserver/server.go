// Package mcpserver exposes catalog search, facets and agent advice as Model
// Context Protocol tools, over stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/HerbHall/testerhub/internal/advice"
	"github.com/HerbHall/testerhub/internal/catalog"
	"github.com/HerbHall/testerhub/internal/compare"
	"github.com/HerbHall/testerhub/internal/metrics"
	pkgcatalog "github.com/HerbHall/testerhub/pkg/catalog"
	"github.com/HerbHall/testerhub/pkg/models"
)

// ServerName is the MCP implementation name reported to clients.
const ServerName = "testerhub"

// SearchInput is the argument of search_tools.
type SearchInput struct {
	Search   string   `json:"search,omitempty" jsonschema:"case-insensitive text matched against name, description, agent strategy, frameworks and tags"`
	Category string   `json:"category,omitempty" jsonschema:"category name or key, or All"`
	Pricing  string   `json:"pricing,omitempty" jsonschema:"All, Free/OS or Paid"`
	Tags     []string `json:"tags,omitempty" jsonschema:"tags or frameworks that every result must carry"`
}

// SearchOutput is the result of search_tools.
type SearchOutput struct {
	Count int           `json:"count"`
	Tools []models.Tool `json:"tools"`
}

// ToolInput names a catalog tool.
type ToolInput struct {
	ID string `json:"id" jsonschema:"catalog tool id"`
}

// RelatedInput is the argument of related_tools.
type RelatedInput struct {
	ID    string `json:"id" jsonschema:"catalog tool id"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum results, default 3"`
}

// RelatedOutput is the result of related_tools.
type RelatedOutput struct {
	Tools []models.Tool `json:"tools"`
}

// AdviceInput is the argument of agent_advice.
type AdviceInput struct {
	ToolID    string `json:"tool_id" jsonschema:"catalog tool id"`
	Framework string `json:"framework,omitempty" jsonschema:"target framework, defaults to the tool's first framework"`
}

// Server wires the catalog engine and advice service into an MCP server.
type Server struct {
	engine  *catalog.Engine
	advice  *advice.Service
	metrics metrics.Metrics
	logger  *zap.Logger
	server  *mcp.Server
}

// New creates an MCP server with every tool registered. A nil advice service
// leaves agent_advice returning the offline fallback.
func New(engine *catalog.Engine, adv *advice.Service, m metrics.Metrics, version string, logger *zap.Logger) *Server {
	if m == nil {
		m = metrics.NewNoop()
	}
	if adv == nil {
		adv = advice.NewService(nil, logger)
	}
	s := &Server{
		engine:  engine,
		advice:  adv,
		metrics: m,
		logger:  logger.Named("mcp"),
		server:  mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_tools",
		Description: "Filter the testing tool catalog by search text, category, pricing and tags. All filters combine with AND.",
	}, s.searchTools)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_facets",
		Description: "List the categories, pricing options and grouped tags available for filtering.",
	}, s.listFacets)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_tool",
		Description: "Get one catalog tool, including how to use it and its agent strategy.",
	}, s.getTool)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "related_tools",
		Description: "List tools in the same category or sharing tags with the given tool.",
	}, s.relatedTools)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "agent_advice",
		Description: "Ask a model how to turn a catalog tool into an autonomous testing agent for a framework.",
	}, s.agentAdvice)
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Run serves MCP over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting (stdio transport)")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RegisterRoutes mounts the streamable HTTP transport at /mcp.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
	mux.Handle("/mcp", handler)
}

func (s *Server) searchTools(_ context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	c, err := catalog.NewCriteria(in.Search, in.Category, in.Pricing, in.Tags)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	tools, err := s.engine.Filter(c)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		return nil, SearchOutput{}, errors.New("catalog unavailable")
	}
	s.metrics.ObserveFilter(metrics.SurfaceMCP, len(tools))
	return nil, SearchOutput{Count: len(tools), Tools: tools}, nil
}

func (s *Server) listFacets(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, catalog.Facets, error) {
	f, err := s.engine.Facets()
	if err != nil {
		s.logger.Error("facet extraction failed", zap.Error(err))
		return nil, catalog.Facets{}, errors.New("catalog unavailable")
	}
	return nil, f, nil
}

func (s *Server) getTool(_ context.Context, _ *mcp.CallToolRequest, in ToolInput) (*mcp.CallToolResult, models.Tool, error) {
	tool, err := s.lookup(in.ID)
	return nil, tool, err
}

func (s *Server) relatedTools(_ context.Context, _ *mcp.CallToolRequest, in RelatedInput) (*mcp.CallToolResult, RelatedOutput, error) {
	focal, err := s.lookup(in.ID)
	if err != nil {
		return nil, RelatedOutput{}, err
	}
	tools, err := s.engine.Tools()
	if err != nil {
		return nil, RelatedOutput{}, errors.New("catalog unavailable")
	}
	limit := in.Limit
	if limit <= 0 {
		limit = compare.DefaultRelatedLimit
	}
	return nil, RelatedOutput{Tools: compare.Related(&focal, tools, limit)}, nil
}

func (s *Server) agentAdvice(ctx context.Context, _ *mcp.CallToolRequest, in AdviceInput) (*mcp.CallToolResult, advice.Result, error) {
	tool, err := s.lookup(in.ToolID)
	if err != nil {
		return nil, advice.Result{}, err
	}
	framework := in.Framework
	if framework == "" && len(tool.Frameworks) > 0 {
		framework = tool.Frameworks[0]
	}
	if framework == "" {
		return nil, advice.Result{}, fmt.Errorf("tool %s lists no frameworks; pass one explicitly", tool.ID)
	}
	return nil, s.advice.Advise(ctx, tool.Name, framework), nil
}

func (s *Server) lookup(id string) (models.Tool, error) {
	if id == "" {
		return models.Tool{}, errors.New("id is required")
	}
	tool, err := s.engine.Lookup(id)
	if errors.Is(err, pkgcatalog.ErrNotFound) {
		return models.Tool{}, fmt.Errorf("tool %q not found", id)
	}
	if err != nil {
		s.logger.Error("tool lookup failed", zap.String("id", id), zap.Error(err))
		return models.Tool{}, errors.New("catalog unavailable")
	}
	return tool, nil
}
