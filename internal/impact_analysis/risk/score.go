package risk

import (
	"sort"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
)

// ScoreFactor ranks a factor for presentation. Triggered factors always sort
// ahead of informational ones.
func ScoreFactor(f domain.RiskFactor) int {
	base := severityWeight(f.Severity)
	kind := kindWeight(f.Type)
	size := min(5, len(f.Services))
	if !f.Triggered {
		return kind + size - 100
	}
	return base + kind + size
}

// PrioritizeFactors orders factors by score, highest first. Equal scores keep
// their detection order.
func PrioritizeFactors(fs []domain.RiskFactor) []domain.RiskFactor {
	sort.SliceStable(fs, func(i, j int) bool {
		return ScoreFactor(fs[i]) > ScoreFactor(fs[j])
	})
	return fs
}

func severityWeight(s domain.Severity) int {
	switch s {
	case domain.SeverityCritical:
		return 80
	case domain.SeverityHigh:
		return 60
	case domain.SeverityMedium:
		return 35
	case domain.SeverityLow:
		return 15
	default:
		return 0
	}
}

func kindWeight(k domain.RiskFactorType) int {
	switch k {
	case domain.FactorCriticalService:
		return 25
	case domain.FactorCircularDependency:
		return 22
	case domain.FactorCrossTeam:
		return 18
	default:
		return 10
	}
}
