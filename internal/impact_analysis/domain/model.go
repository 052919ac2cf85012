package domain

import "time"

type Attrs map[string]any

// Service is a node of the dependency graph.
type Service struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	TeamID        string        `json:"team_id"`
	RepositoryURL string        `json:"repository_url,omitempty"`
	Description   string        `json:"description,omitempty"`
	ServiceType   string        `json:"service_type"`
	Status        ServiceStatus `json:"status"`
	Metadata      Attrs         `json:"metadata,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Dependency is a directed edge: Source depends on Target.
type Dependency struct {
	ID              string         `json:"id"`
	SourceServiceID string         `json:"source_service_id"`
	TargetServiceID string         `json:"target_service_id"`
	DependencyType  DependencyType `json:"dependency_type"`
	Criticality     Criticality    `json:"criticality"`
	Description     string         `json:"description,omitempty"`
	Metadata        Attrs          `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type ServiceVersion struct {
	ID              string    `json:"id"`
	ServiceID       string    `json:"service_id"`
	Version         string    `json:"version"`
	ReleaseNotes    string    `json:"release_notes,omitempty"`
	BreakingChanges bool      `json:"breaking_changes"`
	DeploymentDate  time.Time `json:"deployment_date"`
	Metadata        Attrs     `json:"metadata,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ServiceFilter narrows ListServices. Empty fields match everything.
type ServiceFilter struct {
	TeamID string
	Status ServiceStatus
}

// ServiceUpdate carries the mutable fields of a service. Nil means unchanged.
type ServiceUpdate struct {
	Description   *string        `json:"description,omitempty"`
	RepositoryURL *string        `json:"repository_url,omitempty"`
	ServiceType   *string        `json:"service_type,omitempty"`
	Status        *ServiceStatus `json:"status,omitempty"`
	Metadata      Attrs          `json:"metadata,omitempty"`
}

type DependencySummary struct {
	ServiceID     string `json:"service_id"`
	ServiceName   string `json:"service_name"`
	TeamID        string `json:"team_id"`
	OutgoingCount int    `json:"outgoing_count"`
	IncomingCount int    `json:"incoming_count"`
}

type CrossTeamDependency struct {
	Dependency
	SourceTeamID string `json:"source_team_id"`
	TargetTeamID string `json:"target_team_id"`
}

// AffectedService is one entry of a traversal closure.
type AffectedService struct {
	ServiceID      string         `json:"service_id"`
	ServiceName    string         `json:"service_name"`
	TeamID         string         `json:"team_id"`
	Depth          int            `json:"depth"`
	Path           []string       `json:"path"`
	Criticality    Criticality    `json:"criticality"`
	DependencyType DependencyType `json:"dependency_type,omitempty"`
	Directions     []Direction    `json:"directions"`
	ImpactType     ImpactType     `json:"impact_type"`
}

type RiskFactor struct {
	Type        RiskFactorType `json:"type"`
	Severity    Severity       `json:"severity"`
	Triggered   bool           `json:"triggered"`
	Description string         `json:"description"`
	Services    []string       `json:"services,omitempty"`
	Cycles      [][]string     `json:"cycles,omitempty"`
}

type RiskAssessment struct {
	OverallRiskLevel     Severity     `json:"overall_risk_level"`
	RiskFactors          []RiskFactor `json:"risk_factors"`
	CrossTeamImpactCount int          `json:"cross_team_impact_count"`
	CriticalPathServices [][]string   `json:"critical_path_services"`
}

// HasFactor reports whether a factor of type t was triggered.
func (r RiskAssessment) HasFactor(t RiskFactorType) bool {
	for _, f := range r.RiskFactors {
		if f.Type == t && f.Triggered {
			return true
		}
	}
	return false
}

type Contact struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	Contact string `json:"contact"`
}

type Stakeholder struct {
	TeamID               string    `json:"team_id"`
	Role                 string    `json:"role"`
	Priority             Priority  `json:"priority"`
	AffectedServiceCount int       `json:"affected_service_count"`
	AffectedServices     []string  `json:"affected_services"`
	ContactInfo          []Contact `json:"contact_info"`
}

type MitigationStrategy struct {
	StrategyType StrategyType `json:"strategy_type"`
	Priority     Priority     `json:"priority"`
	Title        string       `json:"title"`
	ActionItems  []string     `json:"action_items"`
}

type VisualNode struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	TeamID      string      `json:"team_id"`
	Criticality Criticality `json:"criticality,omitempty"`
	Depth       int         `json:"depth"`
	Directions  []Direction `json:"directions,omitempty"`
	IsRoot      bool        `json:"is_root"`
}

type VisualEdge struct {
	ID             string         `json:"id"`
	Source         string         `json:"source"`
	Target         string         `json:"target"`
	DependencyType DependencyType `json:"dependency_type"`
	Criticality    Criticality    `json:"criticality"`
}

type Cluster struct {
	TeamID  string   `json:"team_id"`
	NodeIDs []string `json:"node_ids"`
}

type VisualizationData struct {
	Nodes    []VisualNode `json:"nodes"`
	Edges    []VisualEdge `json:"edges"`
	Clusters []Cluster    `json:"clusters"`
}

// ImpactAnalysisResult is the output of one analysis. FromCache is transport
// metadata and stays out of the serialized form, so a cache hit marshals to the
// same bytes as the computation that produced it.
type ImpactAnalysisResult struct {
	ServiceID            string               `json:"service_id"`
	ServiceName          string               `json:"service_name"`
	TeamID               string               `json:"team_id"`
	AnalysisType         AnalysisType         `json:"analysis_type"`
	MaxDepth             int                  `json:"max_depth"`
	AffectedServices     []AffectedService    `json:"affected_services"`
	RiskAssessment       RiskAssessment       `json:"risk_assessment"`
	Stakeholders         []Stakeholder        `json:"stakeholders"`
	MitigationStrategies []MitigationStrategy `json:"mitigation_strategies"`
	VisualizationData    VisualizationData    `json:"visualization_data"`
	ComputedAt           time.Time            `json:"computed_at"`
	ExpiresAt            time.Time            `json:"expires_at"`

	FromCache bool `json:"-"`
}

// CacheEntry is a memoized analysis keyed by (ServiceID, AnalysisType).
type CacheEntry struct {
	ID               string                `json:"id"`
	ServiceID        string                `json:"service_id"`
	AnalysisType     AnalysisType          `json:"analysis_type"`
	AffectedServices []AffectedService     `json:"affected_services"`
	RiskLevel        Severity              `json:"risk_level"`
	Stakeholders     []Stakeholder         `json:"stakeholders"`
	Result           *ImpactAnalysisResult `json:"result"`
	ComputedAt       time.Time             `json:"computed_at"`
	ExpiresAt        time.Time             `json:"expires_at"`
}

// NewCacheEntry derives an entry from a computed result.
func NewCacheEntry(res *ImpactAnalysisResult) *CacheEntry {
	return &CacheEntry{
		ServiceID:        res.ServiceID,
		AnalysisType:     res.AnalysisType,
		AffectedServices: res.AffectedServices,
		RiskLevel:        res.RiskAssessment.OverallRiskLevel,
		Stakeholders:     res.Stakeholders,
		Result:           res,
		ComputedAt:       res.ComputedAt,
		ExpiresAt:        res.ExpiresAt,
	}
}

// Live reports whether the entry may still be served at now.
func (e *CacheEntry) Live(now time.Time) bool {
	return e != nil && e.Result != nil && now.Before(e.ExpiresAt)
}
