package compare

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HerbHall/testerhub/internal/testutil"
	pkgcatalog "github.com/HerbHall/testerhub/pkg/catalog"
	"github.com/HerbHall/testerhub/pkg/models"
)

// catalogSource adapts a pkg catalog to ToolSource.
type catalogSource struct{ cat *pkgcatalog.Catalog }

func (s catalogSource) Tools() ([]models.Tool, error)         { return s.cat.Entries() }
func (s catalogSource) Lookup(id string) (models.Tool, error) { return s.cat.Lookup(id) }

func setupHandler(t *testing.T) *http.ServeMux {
	t.Helper()
	cat, err := pkgcatalog.FromTools(sessionTools())
	require.NoError(t, err)

	h := NewHandler(NewManager(testutil.Logger()), catalogSource{cat: cat}, testutil.Logger())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) Snapshot {
	t.Helper()
	var snap Snapshot
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snap))
	return snap
}

func TestHandler_SessionFlow(t *testing.T) {
	mux := setupHandler(t)

	w := do(t, mux, "POST", "/api/v1/compare/sessions", CreateSessionRequest{FocalID: "x"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	snap := decodeSnapshot(t, w)
	base := "/api/v1/compare/sessions/" + snap.ID

	w = do(t, mux, "POST", base+"/picks", ToolRequest{ToolID: "y"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, decodeSnapshot(t, w).Picks, 1)

	w = do(t, mux, "POST", base+"/picks", ToolRequest{ToolID: "y"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, mux, "POST", base+"/picks", ToolRequest{ToolID: "x"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, mux, "GET", base+"/candidates?q=e", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cands CandidatesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cands))
	require.Equal(t, []string{"z", "w"}, toolIDs(cands.Tools))
	require.Equal(t, 2, cands.Count)

	w = do(t, mux, "DELETE", base+"/picks/y", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decodeSnapshot(t, w).Picks)

	w = do(t, mux, "DELETE", base+"/picks/y", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, mux, "DELETE", base, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, mux, "GET", base, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_FocalChangeResets(t *testing.T) {
	mux := setupHandler(t)

	snap := decodeSnapshot(t, do(t, mux, "POST", "/api/v1/compare/sessions", CreateSessionRequest{FocalID: "x"}))
	base := "/api/v1/compare/sessions/" + snap.ID
	require.Equal(t, http.StatusOK, do(t, mux, "POST", base+"/picks", ToolRequest{ToolID: "y"}).Code)

	w := do(t, mux, "PUT", base+"/focal", ToolRequest{ToolID: "z"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeSnapshot(t, w)
	require.Equal(t, "z", got.Focal.ID)
	require.Empty(t, got.Picks)
}

func TestHandler_BadInput(t *testing.T) {
	mux := setupHandler(t)

	require.Equal(t, http.StatusBadRequest, do(t, mux, "POST", "/api/v1/compare/sessions", map[string]string{}).Code)
	require.Equal(t, http.StatusNotFound, do(t, mux, "POST", "/api/v1/compare/sessions", CreateSessionRequest{FocalID: "missing"}).Code)
	require.Equal(t, http.StatusNotFound, do(t, mux, "GET", "/api/v1/compare/sessions/nope", nil).Code)
	require.Equal(t, http.StatusNotFound, do(t, mux, "GET", "/api/v1/compare/sessions/nope/candidates?q=a", nil).Code)
}
