package cycles

import (
	"context"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/graphstore"
)

const DefaultMaxEdges = 100000

// Finder searches the whole dependency graph for cycles through a service. It
// is unbounded by traversal depth; MaxEdges caps the graph size it accepts.
type Finder struct {
	MaxEdges int
}

func NewFinder(maxEdges int) *Finder {
	if maxEdges <= 0 {
		maxEdges = DefaultMaxEdges
	}
	return &Finder{MaxEdges: maxEdges}
}

func (f *Finder) Find(ctx context.Context, r graphstore.Reader, rootID string) ([][]string, error) {
	deps, err := r.AllDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("cycles: load dependencies: %w", err)
	}
	if f.MaxEdges > 0 && len(deps) > f.MaxEdges {
		return nil, fmt.Errorf("%w: %d edges > %d", domain.ErrGraphTooLarge, len(deps), f.MaxEdges)
	}
	return FindCyclesThrough(deps, rootID), nil
}

type adjacency struct {
	nodes []string
	out   map[string][]string
}

func buildAdjacency(deps []domain.Dependency) adjacency {
	adj := adjacency{out: map[string][]string{}}
	seenNode := map[string]bool{}
	seenEdge := map[string]bool{}
	addNode := func(id string) {
		if !seenNode[id] {
			seenNode[id] = true
			adj.nodes = append(adj.nodes, id)
		}
	}
	for _, d := range deps {
		addNode(d.SourceServiceID)
		addNode(d.TargetServiceID)
		key := d.SourceServiceID + "\x00" + d.TargetServiceID
		if seenEdge[key] {
			continue
		}
		seenEdge[key] = true
		adj.out[d.SourceServiceID] = append(adj.out[d.SourceServiceID], d.TargetServiceID)
	}
	return adj
}

// Components returns the strongly connected components of the graph with more
// than one member (Tarjan).
func Components(deps []domain.Dependency) [][]string {
	adj := buildAdjacency(deps)
	var out [][]string
	for _, comp := range tarjan(adj) {
		if len(comp) > 1 {
			out = append(out, comp)
		}
	}
	return out
}

// FindCyclesThrough returns closed node sequences root → … → root. One cycle is
// reported per successor of root inside root's component, using the shortest
// way back to root.
func FindCyclesThrough(deps []domain.Dependency, rootID string) [][]string {
	adj := buildAdjacency(deps)
	if _, ok := adj.out[rootID]; !ok {
		return nil
	}

	var comp []string
	for _, c := range tarjan(adj) {
		for _, id := range c {
			if id == rootID {
				comp = c
				break
			}
		}
		if comp != nil {
			break
		}
	}
	if len(comp) < 2 {
		return nil
	}
	inComp := make(map[string]bool, len(comp))
	for _, id := range comp {
		inComp[id] = true
	}

	var out [][]string
	seen := map[string]bool{}
	for _, succ := range adj.out[rootID] {
		if !inComp[succ] {
			continue
		}
		back := shortestPath(adj, inComp, succ, rootID)
		if back == nil {
			continue
		}
		cycle := append([]string{rootID}, back...)
		key := strings.Join(cycle, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, cycle)
	}
	return out
}

func tarjan(adj adjacency) [][]string {
	index := 0
	stack := []string{}
	onStack := map[string]bool{}
	id := map[string]int{}
	low := map[string]int{}
	var comps [][]string

	var dfs func(v string)
	dfs = func(v string) {
		index++
		id[v], low[v] = index, index
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj.out[v] {
			if _, seen := id[w]; !seen {
				dfs(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] && id[w] < low[v] {
				low[v] = id[w]
			}
		}
		if low[v] == id[v] {
			comp := []string{}
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			comps = append(comps, comp)
		}
	}
	for _, v := range adj.nodes {
		if _, seen := id[v]; !seen {
			dfs(v)
		}
	}
	return comps
}

// shortestPath is a BFS from src to dst restricted to allowed nodes. The
// returned path includes both ends.
func shortestPath(adj adjacency, allowed map[string]bool, src, dst string) []string {
	prev := map[string]string{src: ""}
	queue := []string{src}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if v == dst {
			var path []string
			for at := dst; at != ""; at = prev[at] {
				path = append([]string{at}, path...)
				if at == src {
					break
				}
			}
			return path
		}
		for _, w := range adj.out[v] {
			if !allowed[w] {
				continue
			}
			if _, ok := prev[w]; ok {
				continue
			}
			prev[w] = v
			queue = append(queue, w)
		}
	}
	return nil
}
