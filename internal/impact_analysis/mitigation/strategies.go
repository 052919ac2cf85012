package mitigation

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
)

type communication struct{}

func (communication) Type() domain.StrategyType { return domain.StrategyCommunication }
func (communication) Rank() int                 { return 10 }
func (communication) Applies(in Input) bool     { return hasCrossTeamImpact(in) }

func (communication) Build(in Input) domain.MitigationStrategy {
	prio := domain.PriorityMedium
	if in.Risk.HasFactor(domain.FactorCrossTeam) {
		prio = domain.PriorityHigh
	}
	teams := otherTeams(in)
	return domain.MitigationStrategy{
		Priority: prio,
		Title:    "Coordinate with dependent teams",
		ActionItems: []string{
			fmt.Sprintf("Notify affected teams before rollout: %s", strings.Join(teams, ", ")),
			"Share the change window and expected behaviour changes",
			"Agree on a contact per team for the duration of the rollout",
		},
	}
}

type technical struct{}

func (technical) Type() domain.StrategyType { return domain.StrategyTechnical }
func (technical) Rank() int                 { return 20 }
func (technical) Applies(in Input) bool     { return len(criticalServices(in)) > 0 }

func (technical) Build(in Input) domain.MitigationStrategy {
	crit := criticalServices(in)
	names := make([]string, 0, len(crit))
	for _, a := range crit {
		names = append(names, a.ServiceName)
	}
	return domain.MitigationStrategy{
		Priority: domain.PriorityHigh,
		Title:    "Protect critical dependencies",
		ActionItems: []string{
			fmt.Sprintf("Add circuit breakers on calls involving: %s", strings.Join(names, ", ")),
			"Implement fallback mechanisms for critical paths",
			"Roll out behind a feature flag and watch error rates on critical services",
		},
	}
}

type process struct{}

func (process) Type() domain.StrategyType { return domain.StrategyProcess }
func (process) Rank() int                 { return 30 }
func (process) Applies(in Input) bool     { return len(in.Closure) > in.Policy.ProcessApprovalThreshold }

func (process) Build(in Input) domain.MitigationStrategy {
	return domain.MitigationStrategy{
		Priority: domain.PriorityMedium,
		Title:    "Require additional approval",
		ActionItems: []string{
			fmt.Sprintf("Change affects %d services; obtain sign-off from an architecture reviewer", len(in.Closure)),
			"Schedule the rollout in a staged manner",
		},
	}
}

// rollback is always emitted as the baseline safety net.
type rollback struct{}

func (rollback) Type() domain.StrategyType { return domain.StrategyRollback }
func (rollback) Rank() int                 { return 40 }
func (rollback) Applies(Input) bool        { return true }

func (rollback) Build(in Input) domain.MitigationStrategy {
	prio := domain.PriorityMedium
	if in.Risk.OverallRiskLevel.Rank() >= domain.SeverityHigh.Rank() {
		prio = domain.PriorityHigh
	}
	return domain.MitigationStrategy{
		Priority: prio,
		Title:    "Prepare a rollback plan",
		ActionItems: []string{
			fmt.Sprintf("Document the current state and version of %s", in.Root.Name),
			fmt.Sprintf("Document the %d dependencies in scope before proceeding", len(in.Closure)),
			"Verify the rollback procedure in a non-production environment",
		},
	}
}

func init() {
	Register(communication{})
	Register(technical{})
	Register(process{})
	Register(rollback{})
}
