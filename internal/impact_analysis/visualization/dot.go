package visualization

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
)

// ToDOT renders the visualization payload as a Graphviz digraph with one
// subgraph cluster per team.
func ToDOT(v domain.VisualizationData, title string) string {
	var b strings.Builder
	b.WriteString("digraph G {\n  rankdir=LR;\n  node [shape=box, style=rounded];\n")
	if title != "" {
		b.WriteString(fmt.Sprintf(`  labelloc="t"; label="%s"; fontname="Helvetica";`, escape(title)))
		b.WriteString("\n")
	}

	nodes := make(map[string]domain.VisualNode, len(v.Nodes))
	for _, n := range v.Nodes {
		nodes[n.ID] = n
	}

	for i, c := range v.Clusters {
		b.WriteString(fmt.Sprintf("  subgraph cluster_%d {\n    label=\"%s\";\n", i, escape(c.TeamID)))
		for _, id := range c.NodeIDs {
			n := nodes[id]
			b.WriteString(fmt.Sprintf(`    "%s" [label="%s", %s];`+"\n", escape(n.ID), escape(n.Name), nodeStyle(n)))
		}
		b.WriteString("  }\n")
	}

	for _, e := range v.Edges {
		b.WriteString(fmt.Sprintf(`  "%s" -> "%s" [label="%s (%s)", color="%s"];`+"\n",
			escape(e.Source), escape(e.Target), e.DependencyType, e.Criticality, edgeColor(e.Criticality)))
	}

	b.WriteString("}\n")
	return b.String()
}

func nodeStyle(n domain.VisualNode) string {
	if n.IsRoot {
		return `shape=box,style="rounded,filled,bold",fillcolor="#cfe2ff"`
	}
	switch n.Criticality {
	case domain.CriticalityCritical:
		return `shape=box,style="rounded,filled",fillcolor="#f8d7da"`
	case domain.CriticalityHigh:
		return `shape=box,style="rounded,filled",fillcolor="#fff3cd"`
	default:
		return `shape=box,style="rounded,filled",fillcolor="#eef6ff"`
	}
}

func edgeColor(c domain.Criticality) string {
	switch c {
	case domain.CriticalityCritical:
		return "red"
	case domain.CriticalityHigh:
		return "orange"
	case domain.CriticalityMedium:
		return "gray40"
	default:
		return "gray70"
	}
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escape(s string) string {
	return dotEscaper.Replace(s)
}
