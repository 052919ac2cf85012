package http

import (
	"context"
	"time"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/graphstore"
)

// Analyzer is the orchestrator surface the handlers need.
type Analyzer interface {
	AnalyzeImpact(ctx context.Context, serviceID string, analysisType domain.AnalysisType, maxDepth int) (*domain.ImpactAnalysisResult, error)
	MaxDepthLimit() int
}

// Handler bundles the dependencies for impact analysis HTTP endpoints.
type Handler struct {
	analyzer     Analyzer
	store        graphstore.Store
	defaultDepth int
}

func New(analyzer Analyzer, store graphstore.Store, defaultDepth int) *Handler {
	if defaultDepth <= 0 {
		defaultDepth = 3
	}
	return &Handler{analyzer: analyzer, store: store, defaultDepth: defaultDepth}
}

type createServiceReq struct {
	ID            string         `json:"id"`
	Name          string         `json:"name" binding:"required"`
	TeamID        string         `json:"team_id" binding:"required"`
	RepositoryURL string         `json:"repository_url"`
	Description   string         `json:"description"`
	ServiceType   string         `json:"service_type"`
	Status        string         `json:"status"`
	Metadata      map[string]any `json:"metadata"`
}

type createDependencyReq struct {
	SourceServiceID string         `json:"source_service_id" binding:"required"`
	TargetServiceID string         `json:"target_service_id" binding:"required"`
	DependencyType  string         `json:"dependency_type"`
	Criticality     string         `json:"criticality"`
	Description     string         `json:"description"`
	Metadata        map[string]any `json:"metadata"`
}

type addVersionReq struct {
	Version         string         `json:"version" binding:"required"`
	ReleaseNotes    string         `json:"release_notes"`
	BreakingChanges bool           `json:"breaking_changes"`
	DeploymentDate  *time.Time     `json:"deployment_date"`
	Metadata        map[string]any `json:"metadata"`
}
