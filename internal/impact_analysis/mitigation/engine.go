package mitigation

import (
	"sort"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/policy"
)

// Input is everything a strategy may look at. Strategies must not do I/O.
type Input struct {
	Root    domain.Service
	Closure []domain.AffectedService
	Risk    domain.RiskAssessment
	Policy  policy.Policy
}

type Strategy interface {
	Type() domain.StrategyType
	// Rank fixes the position of the strategy in the output.
	Rank() int
	Applies(in Input) bool
	Build(in Input) domain.MitigationStrategy
}

var strategies []Strategy

func Register(s Strategy) {
	if s == nil {
		return
	}
	for i, existing := range strategies {
		if existing.Type() == s.Type() {
			strategies[i] = s
			return
		}
	}
	strategies = append(strategies, s)
	sort.SliceStable(strategies, func(i, j int) bool { return strategies[i].Rank() < strategies[j].Rank() })
}

func All() []Strategy {
	return append([]Strategy(nil), strategies...)
}

// Generate runs every registered strategy against the analysis outcome.
func Generate(root domain.Service, closure []domain.AffectedService, risk domain.RiskAssessment, p policy.Policy) []domain.MitigationStrategy {
	in := Input{Root: root, Closure: closure, Risk: risk, Policy: p.WithDefaults()}
	out := make([]domain.MitigationStrategy, 0, len(strategies))
	for _, s := range strategies {
		if !s.Applies(in) {
			continue
		}
		ms := s.Build(in)
		ms.StrategyType = s.Type()
		if ms.ActionItems == nil {
			ms.ActionItems = []string{}
		}
		out = append(out, ms)
	}
	return out
}

func hasCrossTeamImpact(in Input) bool {
	for _, a := range in.Closure {
		if a.TeamID != in.Root.TeamID {
			return true
		}
	}
	return false
}

func criticalServices(in Input) []domain.AffectedService {
	var out []domain.AffectedService
	for _, a := range in.Closure {
		if a.Criticality == domain.CriticalityCritical {
			out = append(out, a)
		}
	}
	return out
}

func otherTeams(in Input) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range in.Closure {
		if a.TeamID == in.Root.TeamID || seen[a.TeamID] {
			continue
		}
		seen[a.TeamID] = true
		out = append(out, a.TeamID)
	}
	sort.Strings(out)
	return out
}
