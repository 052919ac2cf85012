package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graphYAML = `
services:
  - {id: web, name: Web, team: frontend}
  - {id: orders, name: Orders, team: commerce}
  - {id: ledger, name: Ledger, team: finance}
dependencies:
  - {from: web, to: orders, type: api, criticality: high}
  - {from: orders, to: ledger, type: database, criticality: critical}
`

const rosterYAML = `
teams:
  - team_id: frontend
    members:
      - {user_id: u1, role: lead, contact: "#frontend"}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return execute(t, newAnalyzeCmd(), args...)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	graph := writeFile(t, dir, "graph.yaml", graphYAML)
	roster := writeFile(t, dir, "teams.yaml", rosterYAML)

	out, err := runCmd(t, "--fixture", graph, "--roster", roster, "--service", "ledger", "--type", "upstream", "--depth", "2")
	require.NoError(t, err)

	var res domain.ImpactAnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "ledger", res.ServiceID)
	require.Len(t, res.AffectedServices, 2)
	assert.Equal(t, "orders", res.AffectedServices[0].ServiceID)
	assert.Equal(t, "web", res.AffectedServices[1].ServiceID)
	assert.Equal(t, domain.SeverityCritical, res.RiskAssessment.OverallRiskLevel)

	var frontend *domain.Stakeholder
	for i := range res.Stakeholders {
		if res.Stakeholders[i].TeamID == "frontend" {
			frontend = &res.Stakeholders[i]
		}
	}
	require.NotNil(t, frontend)
	require.Len(t, frontend.ContactInfo, 1)
	assert.Equal(t, "#frontend", frontend.ContactInfo[0].Contact)
}

func TestAnalyzeCommand_DOT(t *testing.T) {
	graph := writeFile(t, t.TempDir(), "graph.yaml", graphYAML)

	out, err := runCmd(t, "--fixture", graph, "--service", "web", "--type", "downstream", "--dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph"))
	assert.Contains(t, out, `"orders"`)
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	graph := writeFile(t, t.TempDir(), "graph.yaml", graphYAML)

	_, err := runCmd(t, "--fixture", graph, "--service", "nope")
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)

	_, err = runCmd(t, "--fixture", graph, "--service", "web", "--depth", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidDepth)

	_, err = runCmd(t, "--service", "web")
	assert.Error(t, err)
}

func sweepEnv(t *testing.T, backend string) {
	t.Helper()
	t.Setenv("GRAPH_STORE", "memory")
	t.Setenv("GRAPH_FIXTURE", writeFile(t, t.TempDir(), "graph.yaml", graphYAML))
	t.Setenv("CACHE_BACKEND", backend)
	t.Setenv("APP_ENV", "test")
}

func TestSweepCommand_RejectsPerProcessBackends(t *testing.T) {
	for _, backend := range []string{"none", "memory"} {
		t.Run(backend, func(t *testing.T) {
			sweepEnv(t, backend)
			_, err := execute(t, newSweepCmd())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "CACHE_BACKEND="+backend)
		})
	}
}

func TestSweepCommand_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	sweepEnv(t, "redis")
	t.Setenv("REDIS_ADDR", mr.Addr())

	out, err := execute(t, newSweepCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "reclaimed 0 expired cache entries")
}

func TestSweepCommand_InvalidConfig(t *testing.T) {
	sweepEnv(t, "redis")
	t.Setenv("REDIS_ADDR", "")

	_, err := execute(t, newSweepCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")
}

func TestMigrateCommand_InvalidConfig(t *testing.T) {
	t.Setenv("GRAPH_STORE", "neo4j")

	_, err := execute(t, newMigrateCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRAPH_STORE")
}
