package policy

import (
	"testing"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/stretchr/testify/assert"
)

func TestWithDefaults(t *testing.T) {
	assert.Equal(t, Default(), Policy{}.WithDefaults())
	assert.Equal(t, Policy{CrossTeamThreshold: 3, ProcessApprovalThreshold: 10}, Policy{CrossTeamThreshold: 3}.WithDefaults())
}

func TestStakeholderPriority(t *testing.T) {
	tests := map[domain.Criticality]domain.Priority{
		domain.CriticalityCritical: domain.PriorityHigh,
		domain.CriticalityHigh:     domain.PriorityHigh,
		domain.CriticalityMedium:   domain.PriorityMedium,
		domain.CriticalityLow:      domain.PriorityLow,
		"":                         domain.PriorityLow,
	}
	for in, want := range tests {
		assert.Equal(t, want, StakeholderPriority(in), string(in))
	}
}
