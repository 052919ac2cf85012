package policy

import "github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"

const (
	DefaultCrossTeamThreshold       = 7
	DefaultProcessApprovalThreshold = 10
)

// Policy holds the thresholds shared by risk scoring and mitigation.
type Policy struct {
	// CrossTeamThreshold is the number of distinct affected teams that must be
	// exceeded before cross-team impact counts as high risk.
	CrossTeamThreshold int
	// ProcessApprovalThreshold is the affected-service count above which an
	// extra approval gate is recommended.
	ProcessApprovalThreshold int
}

func Default() Policy {
	return Policy{
		CrossTeamThreshold:       DefaultCrossTeamThreshold,
		ProcessApprovalThreshold: DefaultProcessApprovalThreshold,
	}
}

// WithDefaults fills unset thresholds.
func (p Policy) WithDefaults() Policy {
	if p.CrossTeamThreshold <= 0 {
		p.CrossTeamThreshold = DefaultCrossTeamThreshold
	}
	if p.ProcessApprovalThreshold <= 0 {
		p.ProcessApprovalThreshold = DefaultProcessApprovalThreshold
	}
	return p
}

// StakeholderPriority maps a criticality onto the notification priority of the
// owning team.
func StakeholderPriority(c domain.Criticality) domain.Priority {
	switch c {
	case domain.CriticalityCritical, domain.CriticalityHigh:
		return domain.PriorityHigh
	case domain.CriticalityMedium:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
