package stakeholders

import (
	"context"
	"sort"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/metrics"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/policy"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/teams"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/platform/logger"
)

const RoleDependent = "dependent"

// Resolve groups the closure by owning team and attaches roster contacts. A team
// whose roster is missing or fails to load is still listed with no contacts.
// The root is never part of the closure, so its own team only shows up when
// another of its services is affected.
func Resolve(ctx context.Context, closure []domain.AffectedService, dir teams.Directory, log *logger.Logger) []domain.Stakeholder {
	if log == nil {
		log = logger.Nop()
	}
	if dir == nil {
		dir = teams.NoopDirectory{}
	}

	byTeam := map[string]*domain.Stakeholder{}
	best := map[string]domain.Criticality{}
	var order []string
	for _, a := range closure {
		s, ok := byTeam[a.TeamID]
		if !ok {
			s = &domain.Stakeholder{TeamID: a.TeamID, Role: RoleDependent}
			byTeam[a.TeamID] = s
			order = append(order, a.TeamID)
		}
		s.AffectedServices = append(s.AffectedServices, a.ServiceID)
		s.AffectedServiceCount++
		if a.Criticality.Rank() > best[a.TeamID].Rank() {
			best[a.TeamID] = a.Criticality
		}
	}

	out := make([]domain.Stakeholder, 0, len(order))
	for _, teamID := range order {
		s := byTeam[teamID]
		s.Priority = policy.StakeholderPriority(best[teamID])
		s.ContactInfo = []domain.Contact{}

		roster, err := dir.GetTeamRoster(ctx, teamID)
		switch {
		case err != nil:
			metrics.Degradations.WithLabelValues("roster").Inc()
			log.Warn("team roster lookup failed; listing team without contacts", "team_id", teamID, "error", err)
		case roster == nil:
			log.Warn("no roster for affected team", "team_id", teamID)
		default:
			s.ContactInfo = roster.Contacts()
		}
		out = append(out, *s)
	}

	Sort(out)
	return out
}

// Sort orders by priority desc, affected count desc, then team id.
func Sort(ss []domain.Stakeholder) {
	sort.SliceStable(ss, func(i, j int) bool {
		if pi, pj := ss[i].Priority.Rank(), ss[j].Priority.Rank(); pi != pj {
			return pi > pj
		}
		if ss[i].AffectedServiceCount != ss[j].AffectedServiceCount {
			return ss[i].AffectedServiceCount > ss[j].AffectedServiceCount
		}
		return ss[i].TeamID < ss[j].TeamID
	})
}
