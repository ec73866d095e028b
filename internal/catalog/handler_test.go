package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HerbHall/testerhub/internal/export"
	"github.com/HerbHall/testerhub/internal/testutil"
	pkgcatalog "github.com/HerbHall/testerhub/pkg/catalog"
	"github.com/HerbHall/testerhub/pkg/models"
)

func setupHandler(t *testing.T) *http.ServeMux {
	t.Helper()
	h := NewHandler(NewEngine(pkgcatalog.NewCatalog()), nil, testutil.Logger())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandleListTools_Default(t *testing.T) {
	mux := setupHandler(t)
	w := get(mux, "/api/v1/catalog/tools")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ToolsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, pkgcatalog.NewCatalog().Len(), resp.Count)
	require.Len(t, resp.Tools, resp.Count)
	require.True(t, resp.Criteria.IsDefault())
}

func TestHandleListTools_Filters(t *testing.T) {
	mux := setupHandler(t)

	q := url.Values{}
	q.Set("pricing", "Paid")
	q.Set("category", "automation")
	q.Add("tag", "Web")
	q.Add("tag", "Self-healing")
	w := get(mux, "/api/v1/catalog/tools?"+q.Encode())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ToolsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotZero(t, resp.Count)
	for i := range resp.Tools {
		tool := &resp.Tools[i]
		require.True(t, tool.IsPaid, tool.ID)
		require.Equal(t, models.CategoryAutomation, tool.Category, tool.ID)
		require.True(t, tool.HasTag("Web") && tool.HasTag("Self-healing"), tool.ID)
	}
}

func TestHandleListTools_EmptyResult(t *testing.T) {
	mux := setupHandler(t)
	w := get(mux, "/api/v1/catalog/tools?search=zzzz-not-present")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"tools":[]`)
	require.Contains(t, w.Body.String(), `"count":0`)
}

func TestHandleListTools_RejectsUnknownEnums(t *testing.T) {
	mux := setupHandler(t)
	for _, target := range []string{
		"/api/v1/catalog/tools?category=snacks",
		"/api/v1/catalog/tools?pricing=cheap",
		"/api/v1/catalog/summary?pricing=cheap",
		"/api/v1/catalog/export?format=xml",
	} {
		w := get(mux, target)
		require.Equal(t, http.StatusBadRequest, w.Code, target)
		require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"), target)
	}
}

func TestHandleGetTool(t *testing.T) {
	mux := setupHandler(t)

	w := get(mux, "/api/v1/catalog/tools/ragas")
	require.Equal(t, http.StatusOK, w.Code)
	var tool models.Tool
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tool))
	require.Equal(t, "Ragas", tool.Name)
	require.NotEmpty(t, tool.AgentStrategy)

	require.Equal(t, http.StatusNotFound, get(mux, "/api/v1/catalog/tools/nope").Code)
}

func TestHandleRelated(t *testing.T) {
	mux := setupHandler(t)

	w := get(mux, "/api/v1/catalog/tools/applitools/related")
	require.Equal(t, http.StatusOK, w.Code)
	var related []models.Tool
	require.NoError(t, json.NewDecoder(w.Body).Decode(&related))
	require.NotEmpty(t, related)
	require.LessOrEqual(t, len(related), 3)
	for i := range related {
		require.NotEqual(t, "applitools", related[i].ID)
	}

	require.Equal(t, http.StatusNotFound, get(mux, "/api/v1/catalog/tools/nope/related").Code)
}

func TestHandleFacets(t *testing.T) {
	mux := setupHandler(t)
	w := get(mux, "/api/v1/catalog/facets")
	require.Equal(t, http.StatusOK, w.Code)

	var f Facets
	require.NoError(t, json.NewDecoder(w.Body).Decode(&f))
	require.Equal(t, "All", f.Categories[0])
	require.Len(t, f.Categories, len(models.Categories())+1)
	require.Equal(t, "Platforms", f.Groups[0].Name)
}

func TestHandleSummary(t *testing.T) {
	mux := setupHandler(t)
	w := get(mux, "/api/v1/catalog/summary?category=visual")
	require.Equal(t, http.StatusOK, w.Code)

	var s export.Summary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&s))
	require.NotZero(t, s.Total)
	for _, cc := range s.ByCategory {
		if cc.Category != models.CategoryVisual {
			require.Zero(t, cc.Count, cc.Category)
		}
	}
}

func TestHandleExport(t *testing.T) {
	mux := setupHandler(t)

	w := get(mux, "/api/v1/catalog/export?pricing=Free/OS")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "ai-tools-export.json")
	var tools []models.Tool
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tools))
	require.NotEmpty(t, tools)
	for i := range tools {
		require.True(t, tools[i].IsOpenSource, tools[i].ID)
	}

	w = get(mux, "/api/v1/catalog/export?format=csv&category=runners")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "ai-tools-export.csv")
	require.True(t, strings.HasPrefix(w.Body.String(), "id,name,category"))
}
