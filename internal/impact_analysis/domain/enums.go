package domain

type ServiceStatus string

const (
	StatusActive     ServiceStatus = "active"
	StatusDeprecated ServiceStatus = "deprecated"
	StatusRetired    ServiceStatus = "retired"
)

func (s ServiceStatus) Valid() bool {
	switch s {
	case StatusActive, StatusDeprecated, StatusRetired:
		return true
	}
	return false
}

type DependencyType string

const (
	DepAPI      DependencyType = "api"
	DepDatabase DependencyType = "database"
	DepQueue    DependencyType = "queue"
	DepEvent    DependencyType = "event"
	DepData     DependencyType = "data"
)

func (t DependencyType) Valid() bool {
	switch t {
	case DepAPI, DepDatabase, DepQueue, DepEvent, DepData:
		return true
	}
	return false
}

// Criticality is the severity tag carried by a dependency edge.
type Criticality string

const (
	CriticalityLow      Criticality = "low"
	CriticalityMedium   Criticality = "medium"
	CriticalityHigh     Criticality = "high"
	CriticalityCritical Criticality = "critical"
)

// Rank orders criticalities low < medium < high < critical. Unknown values rank 0.
func (c Criticality) Rank() int {
	switch c {
	case CriticalityLow:
		return 1
	case CriticalityMedium:
		return 2
	case CriticalityHigh:
		return 3
	case CriticalityCritical:
		return 4
	default:
		return 0
	}
}

func (c Criticality) Valid() bool { return c.Rank() > 0 }

type AnalysisType string

const (
	AnalysisDownstream AnalysisType = "downstream"
	AnalysisUpstream   AnalysisType = "upstream"
	AnalysisFull       AnalysisType = "full"
)

func (a AnalysisType) Valid() bool {
	switch a {
	case AnalysisDownstream, AnalysisUpstream, AnalysisFull:
		return true
	}
	return false
}

// Directions returns the traversal directions an analysis type covers.
func (a AnalysisType) Directions() []Direction {
	switch a {
	case AnalysisDownstream:
		return []Direction{Downstream}
	case AnalysisUpstream:
		return []Direction{Upstream}
	case AnalysisFull:
		return []Direction{Downstream, Upstream}
	}
	return nil
}

type Direction string

const (
	Downstream Direction = "downstream"
	Upstream   Direction = "upstream"
)

type ImpactType string

const (
	ImpactDirect   ImpactType = "direct"
	ImpactIndirect ImpactType = "indirect"
)

// Severity is the level attached to risk factors and the overall assessment.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

type RiskFactorType string

const (
	FactorCriticalService    RiskFactorType = "critical_service"
	FactorCircularDependency RiskFactorType = "circular_dependency"
	FactorCrossTeam          RiskFactorType = "cross_team"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

type StrategyType string

const (
	StrategyCommunication StrategyType = "communication"
	StrategyTechnical     StrategyType = "technical"
	StrategyProcess       StrategyType = "process"
	StrategyRollback      StrategyType = "rollback"
)
