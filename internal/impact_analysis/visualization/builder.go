package visualization

import (
	"sort"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
)

// Build assembles the render model: one node per service in the closure plus
// the root, only the edges whose ends are both present, and one cluster per team.
func Build(root domain.Service, closure []domain.AffectedService, edges []domain.Dependency) domain.VisualizationData {
	out := domain.VisualizationData{
		Nodes:    []domain.VisualNode{},
		Edges:    []domain.VisualEdge{},
		Clusters: []domain.Cluster{},
	}

	present := map[string]bool{root.ID: true}
	out.Nodes = append(out.Nodes, domain.VisualNode{
		ID:     root.ID,
		Name:   root.Name,
		TeamID: root.TeamID,
		IsRoot: true,
	})
	for _, a := range closure {
		if present[a.ServiceID] {
			continue
		}
		present[a.ServiceID] = true
		out.Nodes = append(out.Nodes, domain.VisualNode{
			ID:          a.ServiceID,
			Name:        a.ServiceName,
			TeamID:      a.TeamID,
			Criticality: a.Criticality,
			Depth:       a.Depth,
			Directions:  a.Directions,
		})
	}

	for _, e := range edges {
		if !present[e.SourceServiceID] || !present[e.TargetServiceID] {
			continue
		}
		out.Edges = append(out.Edges, domain.VisualEdge{
			ID:             e.ID,
			Source:         e.SourceServiceID,
			Target:         e.TargetServiceID,
			DependencyType: e.DependencyType,
			Criticality:    e.Criticality,
		})
	}

	byTeam := map[string][]string{}
	var teamIDs []string
	for _, n := range out.Nodes {
		if _, ok := byTeam[n.TeamID]; !ok {
			teamIDs = append(teamIDs, n.TeamID)
		}
		byTeam[n.TeamID] = append(byTeam[n.TeamID], n.ID)
	}
	sort.Strings(teamIDs)
	for _, t := range teamIDs {
		out.Clusters = append(out.Clusters, domain.Cluster{TeamID: t, NodeIDs: byTeam[t]})
	}
	return out
}

// NodeIDs lists the ids a Build for this closure would contain, root first.
func NodeIDs(rootID string, closure []domain.AffectedService) []string {
	ids := make([]string, 0, len(closure)+1)
	ids = append(ids, rootID)
	for _, a := range closure {
		ids = append(ids, a.ServiceID)
	}
	return ids
}
