package risk

import (
	"fmt"
	"sort"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/policy"
)

// Assess scores a closure. Every factor is evaluated on its own; the overall
// level is the highest severity among triggered factors and defaults to low.
func Assess(root domain.Service, closure []domain.AffectedService, cycles [][]string, p policy.Policy) domain.RiskAssessment {
	p = p.WithDefaults()
	out := domain.RiskAssessment{
		OverallRiskLevel:     domain.SeverityLow,
		RiskFactors:          []domain.RiskFactor{},
		CriticalPathServices: [][]string{},
	}

	if f, ok := criticalServices(closure); ok {
		out.RiskFactors = append(out.RiskFactors, f)
		for _, a := range closure {
			if a.Criticality == domain.CriticalityCritical {
				out.CriticalPathServices = append(out.CriticalPathServices, append([]string(nil), a.Path...))
			}
		}
	}

	if len(cycles) > 0 {
		out.RiskFactors = append(out.RiskFactors, circularDependency(root, cycles))
	}

	teams := distinctTeams(closure)
	out.CrossTeamImpactCount = len(teams)
	if len(teams) > 0 {
		out.RiskFactors = append(out.RiskFactors, crossTeam(teams, p))
	}

	out.RiskFactors = PrioritizeFactors(out.RiskFactors)
	for _, f := range out.RiskFactors {
		if f.Triggered && f.Severity.Rank() > out.OverallRiskLevel.Rank() {
			out.OverallRiskLevel = f.Severity
		}
	}
	return out
}

func criticalServices(closure []domain.AffectedService) (domain.RiskFactor, bool) {
	var ids []string
	for _, a := range closure {
		if a.Criticality == domain.CriticalityCritical {
			ids = append(ids, a.ServiceID)
		}
	}
	if len(ids) == 0 {
		return domain.RiskFactor{}, false
	}
	return domain.RiskFactor{
		Type:        domain.FactorCriticalService,
		Severity:    domain.SeverityCritical,
		Triggered:   true,
		Description: fmt.Sprintf("%d affected service(s) are reached through critical dependencies", len(ids)),
		Services:    ids,
	}, true
}

func circularDependency(root domain.Service, cycles [][]string) domain.RiskFactor {
	members := map[string]bool{}
	var ids []string
	for _, c := range cycles {
		for _, id := range c {
			if !members[id] {
				members[id] = true
				ids = append(ids, id)
			}
		}
	}
	copied := make([][]string, 0, len(cycles))
	for _, c := range cycles {
		copied = append(copied, append([]string(nil), c...))
	}
	return domain.RiskFactor{
		Type:        domain.FactorCircularDependency,
		Severity:    domain.SeverityHigh,
		Triggered:   true,
		Description: fmt.Sprintf("%s is part of %d circular dependency chain(s)", root.Name, len(cycles)),
		Services:    ids,
		Cycles:      copied,
	}
}

func crossTeam(teams []string, p policy.Policy) domain.RiskFactor {
	f := domain.RiskFactor{
		Type:        domain.FactorCrossTeam,
		Severity:    domain.SeverityInfo,
		Description: fmt.Sprintf("change reaches services owned by %d team(s)", len(teams)),
		Services:    teams,
	}
	if len(teams) > p.CrossTeamThreshold {
		f.Severity = domain.SeverityHigh
		f.Triggered = true
		f.Description = fmt.Sprintf("change reaches services owned by %d teams (threshold %d)", len(teams), p.CrossTeamThreshold)
	}
	return f
}

func distinctTeams(closure []domain.AffectedService) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range closure {
		if a.TeamID == "" || seen[a.TeamID] {
			continue
		}
		seen[a.TeamID] = true
		out = append(out, a.TeamID)
	}
	sort.Strings(out)
	return out
}

// MaxCriticality is the highest edge criticality in a set of affected services.
func MaxCriticality(as []domain.AffectedService) domain.Criticality {
	best := domain.Criticality("")
	for _, a := range as {
		if a.Criticality.Rank() > best.Rank() {
			best = a.Criticality
		}
	}
	if best == "" {
		return domain.CriticalityLow
	}
	return best
}
