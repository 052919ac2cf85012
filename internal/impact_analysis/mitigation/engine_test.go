package mitigation

import (
	"fmt"
	"testing"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var root = domain.Service{ID: "orders", Name: "Orders", TeamID: "commerce"}

func types(ms []domain.MitigationStrategy) []domain.StrategyType {
	out := make([]domain.StrategyType, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.StrategyType)
	}
	return out
}

func TestGenerate_RollbackAlwaysPresent(t *testing.T) {
	got := Generate(root, nil, domain.RiskAssessment{OverallRiskLevel: domain.SeverityLow}, policy.Default())
	require.Equal(t, []domain.StrategyType{domain.StrategyRollback}, types(got))
	assert.Equal(t, domain.PriorityMedium, got[0].Priority)
	assert.NotEmpty(t, got[0].ActionItems)
	assert.Contains(t, got[0].ActionItems[0], "Orders")
}

func TestGenerate_AllStrategies(t *testing.T) {
	var closure []domain.AffectedService
	for i := 0; i < 11; i++ {
		closure = append(closure, domain.AffectedService{
			ServiceID:   fmt.Sprintf("s%d", i),
			ServiceName: fmt.Sprintf("Svc %d", i),
			TeamID:      fmt.Sprintf("team-%d", i%3),
			Criticality: domain.CriticalityMedium,
		})
	}
	closure[4].Criticality = domain.CriticalityCritical

	risk := domain.RiskAssessment{
		OverallRiskLevel: domain.SeverityCritical,
		RiskFactors: []domain.RiskFactor{
			{Type: domain.FactorCriticalService, Severity: domain.SeverityCritical, Triggered: true},
		},
	}
	got := Generate(root, closure, risk, policy.Default())

	assert.Equal(t, []domain.StrategyType{
		domain.StrategyCommunication,
		domain.StrategyTechnical,
		domain.StrategyProcess,
		domain.StrategyRollback,
	}, types(got))

	assert.Equal(t, domain.PriorityMedium, got[0].Priority, "cross_team factor not triggered")
	assert.Contains(t, got[0].ActionItems[0], "team-0, team-1, team-2")
	assert.Equal(t, domain.PriorityHigh, got[1].Priority)
	assert.Contains(t, got[1].ActionItems[0], "Svc 4")
	assert.Equal(t, domain.PriorityMedium, got[2].Priority)
	assert.Equal(t, domain.PriorityHigh, got[3].Priority)
}

func TestGenerate_SameTeamOnlySkipsCommunication(t *testing.T) {
	closure := []domain.AffectedService{{ServiceID: "a", TeamID: "commerce", Criticality: domain.CriticalityLow}}
	got := Generate(root, closure, domain.RiskAssessment{OverallRiskLevel: domain.SeverityLow}, policy.Default())
	assert.Equal(t, []domain.StrategyType{domain.StrategyRollback}, types(got))
}

func TestGenerate_CommunicationHighWhenCrossTeamTriggered(t *testing.T) {
	closure := []domain.AffectedService{{ServiceID: "a", TeamID: "other"}}
	risk := domain.RiskAssessment{
		OverallRiskLevel: domain.SeverityHigh,
		RiskFactors:      []domain.RiskFactor{{Type: domain.FactorCrossTeam, Severity: domain.SeverityHigh, Triggered: true}},
	}
	got := Generate(root, closure, risk, policy.Default())
	require.Equal(t, domain.StrategyCommunication, got[0].StrategyType)
	assert.Equal(t, domain.PriorityHigh, got[0].Priority)
}

func TestGenerate_ProcessThreshold(t *testing.T) {
	closure := make([]domain.AffectedService, 3)
	for i := range closure {
		closure[i] = domain.AffectedService{ServiceID: fmt.Sprintf("s%d", i), TeamID: "commerce"}
	}
	got := Generate(root, closure, domain.RiskAssessment{}, policy.Policy{ProcessApprovalThreshold: 2})
	assert.Equal(t, []domain.StrategyType{domain.StrategyProcess, domain.StrategyRollback}, types(got))

	got = Generate(root, closure, domain.RiskAssessment{}, policy.Policy{ProcessApprovalThreshold: 3})
	assert.Equal(t, []domain.StrategyType{domain.StrategyRollback}, types(got))
}

type customRollback struct{ rollback }

func (customRollback) Build(Input) domain.MitigationStrategy {
	return domain.MitigationStrategy{Priority: domain.PriorityLow, Title: "custom"}
}

func TestRegister_ReplacesSameType(t *testing.T) {
	saved := All()
	t.Cleanup(func() { strategies = saved })

	Register(customRollback{})
	require.Len(t, All(), len(saved))

	got := Generate(root, nil, domain.RiskAssessment{}, policy.Default())
	require.Len(t, got, 1)
	assert.Equal(t, "custom", got[0].Title)
	assert.Equal(t, domain.StrategyRollback, got[0].StrategyType)
	assert.NotNil(t, got[0].ActionItems)
}
