package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/cache"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/graphstore"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/service"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/teams"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/visualization"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/platform/logger"
	"github.com/spf13/cobra"
)

type analyzeOpts struct {
	fixture      string
	roster       string
	serviceID    string
	analysisType string
	depth        int
	dot          bool
}

func newAnalyzeCmd() *cobra.Command {
	var o analyzeOpts
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a service against a YAML graph fixture",
		Long: `Analyze a service against a YAML graph fixture and print the result.

Examples:
  worker analyze --fixture graph.yaml --service orders
  worker analyze --fixture graph.yaml --roster teams.yaml --service orders --type upstream --depth 5
  worker analyze --fixture graph.yaml --service orders --dot > impact.dot`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, o, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.fixture, "fixture", "", "path to graph fixture YAML")
	f.StringVar(&o.roster, "roster", "", "path to team roster YAML")
	f.StringVar(&o.serviceID, "service", "", "service id to analyze")
	f.StringVar(&o.analysisType, "type", string(domain.AnalysisFull), "downstream, upstream or full")
	f.IntVar(&o.depth, "depth", 3, "maximum traversal depth")
	f.BoolVar(&o.dot, "dot", false, "print Graphviz DOT instead of JSON")
	_ = cmd.MarkFlagRequired("fixture")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

func runAnalyze(cmd *cobra.Command, o analyzeOpts, out io.Writer) error {
	ctx := cmd.Context()
	store, err := graphstore.LoadFixture(ctx, o.fixture)
	if err != nil {
		return err
	}

	var dir teams.Directory = teams.NoopDirectory{}
	if o.roster != "" {
		d, err := teams.LoadYAML(o.roster)
		if err != nil {
			return fmt.Errorf("load roster: %w", err)
		}
		dir = d
	}

	svc := service.NewImpactService(store, cache.Noop{}, dir, logger.Nop(), service.Options{})
	res, err := svc.AnalyzeImpact(ctx, o.serviceID, domain.AnalysisType(o.analysisType), o.depth)
	if err != nil {
		return err
	}

	if o.dot {
		_, err = io.WriteString(out, visualization.ToDOT(res.VisualizationData, res.ServiceName))
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
