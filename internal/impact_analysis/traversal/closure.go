package traversal

import (
	"context"
	"fmt"
	"sort"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/graphstore"
)

// TieBreak decides which edge is kept when a node is reached by several edges
// at the same depth.
type TieBreak string

const (
	// FirstDiscovered keeps the first edge seen in BFS order.
	FirstDiscovered TieBreak = "first_discovered"
	// HighestCriticality keeps the same-depth edge with the highest criticality,
	// falling back to BFS order on equal criticality.
	HighestCriticality TieBreak = "highest_criticality"
)

func (t TieBreak) Valid() bool {
	return t == FirstDiscovered || t == HighestCriticality
}

type Options struct {
	TieBreak TieBreak
}

type candidate struct {
	id      string
	path    []string
	crit    domain.Criticality
	depType domain.DependencyType
}

// ComputeClosure walks the graph breadth-first from rootID in one direction and
// returns every service within maxDepth edges, shallowest first. The root is
// never part of the result.
func ComputeClosure(ctx context.Context, r graphstore.Reader, rootID string, dir domain.Direction, maxDepth int, opts Options) ([]domain.AffectedService, error) {
	if maxDepth <= 0 {
		return nil, domain.ErrInvalidDepth
	}
	if dir != domain.Downstream && dir != domain.Upstream {
		return nil, fmt.Errorf("traversal: unknown direction %q", dir)
	}

	visited := map[string]bool{rootID: true}
	frontier := []*candidate{{id: rootID, path: []string{rootID}}}
	var out []domain.AffectedService

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next []*candidate
		seen := map[string]*candidate{}
		for _, n := range frontier {
			edges, err := neighbours(ctx, r, n.id, dir)
			if err != nil {
				return nil, err
			}
			for _, e := range edges {
				to := e.TargetServiceID
				if dir == domain.Upstream {
					to = e.SourceServiceID
				}
				if visited[to] {
					continue
				}
				if c, ok := seen[to]; ok {
					if opts.TieBreak == HighestCriticality && e.Criticality.Rank() > c.crit.Rank() {
						c.crit = e.Criticality
						c.depType = e.DependencyType
						c.path = extend(n.path, to)
					}
					continue
				}
				c := &candidate{id: to, path: extend(n.path, to), crit: e.Criticality, depType: e.DependencyType}
				seen[to] = c
				next = append(next, c)
			}
		}
		if len(next) == 0 {
			break
		}

		ids := make([]string, 0, len(next))
		for _, c := range next {
			visited[c.id] = true
			ids = append(ids, c.id)
		}
		svcs, err := r.ServicesByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("traversal: resolve services: %w", err)
		}

		frontier = frontier[:0]
		for _, c := range next {
			svc, ok := svcs[c.id]
			if !ok {
				// dangling edge
				continue
			}
			out = append(out, domain.AffectedService{
				ServiceID:      c.id,
				ServiceName:    svc.Name,
				TeamID:         svc.TeamID,
				Depth:          depth,
				Path:           c.path,
				Criticality:    c.crit,
				DependencyType: c.depType,
				Directions:     []domain.Direction{dir},
				ImpactType:     Classify(depth),
			})
			frontier = append(frontier, c)
		}
	}
	return out, nil
}

// ComputeFull runs both directions independently and unions the results. A
// service found in both keeps the shallower discovery; downstream wins ties.
func ComputeFull(ctx context.Context, r graphstore.Reader, rootID string, maxDepth int, opts Options) ([]domain.AffectedService, error) {
	down, err := ComputeClosure(ctx, r, rootID, domain.Downstream, maxDepth, opts)
	if err != nil {
		return nil, err
	}
	up, err := ComputeClosure(ctx, r, rootID, domain.Upstream, maxDepth, opts)
	if err != nil {
		return nil, err
	}
	return Union(down, up), nil
}

// Union merges a downstream and an upstream closure.
func Union(down, up []domain.AffectedService) []domain.AffectedService {
	out := make([]domain.AffectedService, 0, len(down)+len(up))
	index := make(map[string]int, len(down))
	for _, a := range down {
		index[a.ServiceID] = len(out)
		out = append(out, a)
	}
	for _, a := range up {
		i, ok := index[a.ServiceID]
		if !ok {
			index[a.ServiceID] = len(out)
			out = append(out, a)
			continue
		}
		merged := out[i]
		if a.Depth < merged.Depth {
			merged = a
		}
		merged.Directions = []domain.Direction{domain.Downstream, domain.Upstream}
		out[i] = merged
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth < out[j].Depth })
	return out
}

// Compute dispatches on the analysis type.
func Compute(ctx context.Context, r graphstore.Reader, rootID string, t domain.AnalysisType, maxDepth int, opts Options) ([]domain.AffectedService, error) {
	switch t {
	case domain.AnalysisDownstream:
		return ComputeClosure(ctx, r, rootID, domain.Downstream, maxDepth, opts)
	case domain.AnalysisUpstream:
		return ComputeClosure(ctx, r, rootID, domain.Upstream, maxDepth, opts)
	case domain.AnalysisFull:
		return ComputeFull(ctx, r, rootID, maxDepth, opts)
	}
	return nil, domain.ErrInvalidAnalysisType
}

func Classify(depth int) domain.ImpactType {
	if depth <= 1 {
		return domain.ImpactDirect
	}
	return domain.ImpactIndirect
}

func neighbours(ctx context.Context, r graphstore.Reader, id string, dir domain.Direction) ([]domain.Dependency, error) {
	var (
		edges []domain.Dependency
		err   error
	)
	if dir == domain.Downstream {
		edges, err = r.Outgoing(ctx, id)
	} else {
		edges, err = r.Incoming(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("traversal: %s edges of %s: %w", dir, id, err)
	}
	return edges, nil
}

func extend(path []string, id string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, id)
}
