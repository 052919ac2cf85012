package traversal

import (
	"context"
	"testing"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/graphstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, doc string) *graphstore.MemoryStore {
	t.Helper()
	f, err := graphstore.ParseFixture([]byte(doc))
	require.NoError(t, err)
	st := graphstore.NewMemoryStore()
	require.NoError(t, f.Seed(context.Background(), st))
	return st
}

func ids(as []domain.AffectedService) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.ServiceID)
	}
	return out
}

const chain = `
services:
  - {id: A, team: t1}
  - {id: B, team: t1}
  - {id: C, team: t2}
  - {id: D, team: t3}
dependencies:
  - {from: A, to: B}
  - {from: B, to: C}
  - {from: C, to: D}
`

func TestComputeClosure_DepthBound(t *testing.T) {
	st := seed(t, chain)
	ctx := context.Background()

	got, err := ComputeClosure(ctx, st, "A", domain.Downstream, 2, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, ids(got))

	assert.Equal(t, 1, got[0].Depth)
	assert.Equal(t, domain.ImpactDirect, got[0].ImpactType)
	assert.Equal(t, []string{"A", "B"}, got[0].Path)

	assert.Equal(t, 2, got[1].Depth)
	assert.Equal(t, domain.ImpactIndirect, got[1].ImpactType)
	assert.Equal(t, []string{"A", "B", "C"}, got[1].Path)
	assert.Equal(t, "t2", got[1].TeamID)

	got, err = ComputeClosure(ctx, st, "A", domain.Downstream, 3, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D"}, ids(got))
}

func TestComputeClosure_Upstream(t *testing.T) {
	st := seed(t, chain)

	got, err := ComputeClosure(context.Background(), st, "D", domain.Upstream, 10, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, ids(got))
	assert.Equal(t, []string{"D", "C", "B", "A"}, got[2].Path)
	for _, a := range got {
		assert.Equal(t, []domain.Direction{domain.Upstream}, a.Directions)
	}
}

func TestComputeClosure_InvalidDepth(t *testing.T) {
	st := seed(t, chain)
	_, err := ComputeClosure(context.Background(), st, "A", domain.Downstream, 0, Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidDepth)
}

func TestComputeClosure_IsolatedService(t *testing.T) {
	st := seed(t, "services:\n  - {id: lonely, team: t1}\n")
	got, err := Compute(context.Background(), st, "lonely", domain.AnalysisFull, 3, Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestComputeClosure_CycleTerminates(t *testing.T) {
	st := seed(t, `
services:
  - {id: A, team: t1}
  - {id: B, team: t1}
dependencies:
  - {from: A, to: B}
  - {from: B, to: A}
`)
	got, err := ComputeClosure(context.Background(), st, "A", domain.Downstream, 10, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, ids(got))
}

// Diamond: A->B (low), A->C (low), B->D (low), C->D (critical). D is reached at
// depth 2 through both B and C.
const diamond = `
services:
  - {id: A, team: t1}
  - {id: B, team: t1}
  - {id: C, team: t1}
  - {id: D, team: t2}
dependencies:
  - {from: A, to: B, criticality: low}
  - {from: A, to: C, criticality: low}
  - {from: B, to: D, criticality: low}
  - {from: C, to: D, criticality: critical}
`

func TestComputeClosure_TieBreak(t *testing.T) {
	st := seed(t, diamond)
	ctx := context.Background()

	got, err := ComputeClosure(ctx, st, "A", domain.Downstream, 3, Options{TieBreak: FirstDiscovered})
	require.NoError(t, err)
	require.Equal(t, []string{"B", "C", "D"}, ids(got))
	assert.Equal(t, []string{"A", "B", "D"}, got[2].Path)
	assert.Equal(t, domain.CriticalityLow, got[2].Criticality)

	got, err = ComputeClosure(ctx, st, "A", domain.Downstream, 3, Options{TieBreak: HighestCriticality})
	require.NoError(t, err)
	require.Equal(t, []string{"B", "C", "D"}, ids(got))
	assert.Equal(t, []string{"A", "C", "D"}, got[2].Path)
	assert.Equal(t, domain.CriticalityCritical, got[2].Criticality)
}

func TestComputeFull_UnionKeepsShallowest(t *testing.T) {
	// X depends on A directly and A reaches X through B as well.
	st := seed(t, `
services:
  - {id: A, team: t1}
  - {id: B, team: t1}
  - {id: X, team: t2}
  - {id: U, team: t3}
dependencies:
  - {from: X, to: A}
  - {from: A, to: B}
  - {from: B, to: X}
  - {from: U, to: A}
`)
	got, err := ComputeFull(context.Background(), st, "A", 3, Options{})
	require.NoError(t, err)

	byID := map[string]domain.AffectedService{}
	for _, a := range got {
		byID[a.ServiceID] = a
	}
	require.Len(t, byID, 3)

	x := byID["X"]
	assert.Equal(t, 1, x.Depth)
	assert.Equal(t, []string{"A", "X"}, x.Path)
	assert.Equal(t, []domain.Direction{domain.Downstream, domain.Upstream}, x.Directions)

	assert.Equal(t, []domain.Direction{domain.Upstream}, byID["U"].Directions)

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Depth, got[i].Depth)
	}
}

func TestCompute_InvalidType(t *testing.T) {
	st := seed(t, chain)
	_, err := Compute(context.Background(), st, "A", domain.AnalysisType("sideways"), 3, Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidAnalysisType)
}

func TestComputeClosure_ContextCancelled(t *testing.T) {
	st := seed(t, chain)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ComputeClosure(ctx, st, "A", domain.Downstream, 3, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
