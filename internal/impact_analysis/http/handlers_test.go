package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/cache"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/graphstore"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graph = `
services:
  - {id: web, name: Web, team: frontend}
  - {id: orders, name: Orders, team: commerce}
  - {id: ledger, name: Ledger, team: finance}
dependencies:
  - {from: web, to: orders, criticality: high}
  - {from: orders, to: ledger, type: database, criticality: critical}
`

func setupRouter(t *testing.T) (*gin.Engine, *graphstore.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f, err := graphstore.ParseFixture([]byte(graph))
	require.NoError(t, err)
	st := graphstore.NewMemoryStore()
	require.NoError(t, f.Seed(context.Background(), st))

	svc := service.NewImpactService(st, cache.NewMemoryCache(), nil, nil, service.Options{})
	r := gin.New()
	New(svc, st, 0).Register(r.Group("/api/v1"))
	return r, st
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	OK       bool                         `json:"ok"`
	Error    string                       `json:"error"`
	Analysis *domain.ImpactAnalysisResult `json:"analysis"`
	Service  *domain.Service              `json:"service"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func TestAnalyzeImpact_DefaultsAndCacheHeader(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/v1/services/orders/impact", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	body := decode(t, w)
	require.True(t, body.OK)
	assert.Equal(t, domain.AnalysisFull, body.Analysis.AnalysisType)
	assert.Equal(t, 3, body.Analysis.MaxDepth)
	assert.Len(t, body.Analysis.AffectedServices, 2)
	assert.Equal(t, domain.SeverityCritical, body.Analysis.RiskAssessment.OverallRiskLevel)

	again := do(r, http.MethodGet, "/api/v1/services/orders/impact", nil)
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, "HIT", again.Header().Get("X-Cache"))
	assert.JSONEq(t, w.Body.String(), again.Body.String())
}

func TestAnalyzeImpact_Params(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/v1/services/web/impact?type=DOWNSTREAM&max_depth=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Len(t, body.Analysis.AffectedServices, 1)
	assert.Equal(t, "orders", body.Analysis.AffectedServices[0].ServiceID)
}

func TestAnalyzeImpact_Errors(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		path string
		code int
	}{
		{"/api/v1/services/ghost/impact", http.StatusNotFound},
		{"/api/v1/services/web/impact?type=sideways", http.StatusBadRequest},
		{"/api/v1/services/web/impact?max_depth=0", http.StatusBadRequest},
		{"/api/v1/services/web/impact?max_depth=11", http.StatusBadRequest},
		{"/api/v1/services/web/impact?max_depth=abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.code, w.Code)
			body := decode(t, w)
			assert.False(t, body.OK)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestImpactDOT(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/v1/services/web/impact/graph.dot?type=downstream", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/vnd.graphviz")
	assert.True(t, strings.HasPrefix(w.Body.String(), "digraph G {"))
	assert.Contains(t, w.Body.String(), `"orders" -> "ledger"`)
}

func TestServiceCRUD(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodPost, "/api/v1/services", map[string]any{"id": "search", "name": "Search", "team_id": "discovery"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "search", decode(t, w).Service.ID)

	w = do(r, http.MethodPost, "/api/v1/services", map[string]any{"name": "Search", "team_id": "discovery"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/v1/services", map[string]any{"name": "No Team"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/api/v1/services/search", map[string]any{"status": "deprecated", "description": "old"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	svc := decode(t, w).Service
	assert.Equal(t, domain.StatusDeprecated, svc.Status)
	assert.Equal(t, "old", svc.Description)

	w = do(r, http.MethodPatch, "/api/v1/services/search", map[string]any{"status": "zombie"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/services?team_id=discovery", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Services []domain.Service `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Services, 1)

	w = do(r, http.MethodDelete, "/api/v1/services/search", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/api/v1/services/search", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDependencies(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodPost, "/api/v1/dependencies", map[string]any{
		"source_service_id": "ledger",
		"target_service_id": "web",
		"dependency_type":   "event",
		"criticality":       "low",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Dependency domain.Dependency `json:"dependency"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Dependency.ID)

	w = do(r, http.MethodPost, "/api/v1/dependencies", map[string]any{"source_service_id": "web", "target_service_id": "web"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/dependencies", map[string]any{"source_service_id": "web", "target_service_id": "orders"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/v1/dependencies", map[string]any{"source_service_id": "web", "target_service_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/v1/services/web/dependencies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deps struct {
		Dependencies []domain.Dependency `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deps))
	assert.Len(t, deps.Dependencies, 2)

	w = do(r, http.MethodDelete, "/api/v1/dependencies/"+created.Dependency.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodDelete, "/api/v1/dependencies/"+created.Dependency.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVersions(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodPost, "/api/v1/services/orders/versions", map[string]any{"version": "2.0.0", "breaking_changes": true, "deployment_date": "2026-04-01T10:00:00Z"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/services/orders/versions", map[string]any{"release_notes": "missing version"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/services/ghost/versions", map[string]any{"version": "1.0.0"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/v1/services/orders/versions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vs struct {
		Versions []domain.ServiceVersion `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vs))
	require.Len(t, vs.Versions, 1)
	assert.Equal(t, "2.0.0", vs.Versions[0].Version)
	assert.Equal(t, 2026, vs.Versions[0].DeploymentDate.Year())
}

func TestViews(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/v1/views/dependency-summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sum struct {
		Summary []domain.DependencySummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	require.Len(t, sum.Summary, 3)
	assert.Equal(t, "Ledger", sum.Summary[0].ServiceName)

	w = do(r, http.MethodGet, "/api/v1/views/cross-team-dependencies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cross struct {
		Dependencies []domain.CrossTeamDependency `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cross))
	assert.Len(t, cross.Dependencies, 2)
}

func TestAnalyzeImpact_DepthErrorReportsLimit(t *testing.T) {
	r, _ := setupRouter(t)

	for _, raw := range []string{"0", "11", "abc"} {
		t.Run(raw, func(t *testing.T) {
			w := do(r, http.MethodGet, "/api/v1/services/web/impact?max_depth="+raw, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body struct {
				OK    bool   `json:"ok"`
				Error string `json:"error"`
				Limit int    `json:"max_depth_limit"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.OK)
			assert.Equal(t, service.DefaultMaxDepthLimit, body.Limit)
		})
	}

	w := do(r, http.MethodGet, "/api/v1/services/web/impact?max_depth=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
