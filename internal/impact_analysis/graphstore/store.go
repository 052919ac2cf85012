package graphstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
)

// Reader is the read-only view the analysis core needs. Edge listings are
// returned in a stable order (creation time, then id) so traversal is
// deterministic.
type Reader interface {
	GetService(ctx context.Context, id string) (*domain.Service, error)
	ServicesByIDs(ctx context.Context, ids []string) (map[string]domain.Service, error)
	Outgoing(ctx context.Context, serviceID string) ([]domain.Dependency, error)
	Incoming(ctx context.Context, serviceID string) ([]domain.Dependency, error)
	AllDependencies(ctx context.Context) ([]domain.Dependency, error)
	DependenciesAmong(ctx context.Context, ids []string) ([]domain.Dependency, error)
}

// Writer covers registration and edge maintenance done by service owners.
type Writer interface {
	CreateService(ctx context.Context, svc *domain.Service) error
	UpdateService(ctx context.Context, id string, upd domain.ServiceUpdate) (*domain.Service, error)
	DeleteService(ctx context.Context, id string) error
	ListServices(ctx context.Context, f domain.ServiceFilter) ([]domain.Service, error)

	CreateDependency(ctx context.Context, dep *domain.Dependency) error
	DeleteDependency(ctx context.Context, id string) error
	ListDependencies(ctx context.Context, serviceID string) ([]domain.Dependency, error)

	AddVersion(ctx context.Context, v *domain.ServiceVersion) error
	ListVersions(ctx context.Context, serviceID string) ([]domain.ServiceVersion, error)

	DependencySummaries(ctx context.Context) ([]domain.DependencySummary, error)
	CrossTeamDependencies(ctx context.Context) ([]domain.CrossTeamDependency, error)
}

type Store interface {
	Reader
	Writer
}

func normalizeService(svc *domain.Service) error {
	svc.Name = strings.TrimSpace(svc.Name)
	svc.TeamID = strings.TrimSpace(svc.TeamID)
	if svc.Name == "" || svc.TeamID == "" {
		return domain.ErrInvalidService
	}
	if svc.ServiceType == "" {
		svc.ServiceType = "api"
	}
	if svc.Status == "" {
		svc.Status = domain.StatusActive
	}
	if !svc.Status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, svc.Status)
	}
	if svc.Metadata == nil {
		svc.Metadata = domain.Attrs{}
	}
	return nil
}

func normalizeDependency(dep *domain.Dependency) error {
	if dep.SourceServiceID == "" || dep.TargetServiceID == "" {
		return domain.ErrServiceNotFound
	}
	if dep.SourceServiceID == dep.TargetServiceID {
		return domain.ErrSelfDependency
	}
	if dep.DependencyType == "" {
		dep.DependencyType = domain.DepAPI
	}
	if !dep.DependencyType.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDependency, dep.DependencyType)
	}
	if dep.Criticality == "" {
		dep.Criticality = domain.CriticalityMedium
	}
	if !dep.Criticality.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCriticality, dep.Criticality)
	}
	if dep.Metadata == nil {
		dep.Metadata = domain.Attrs{}
	}
	return nil
}

func applyUpdate(svc *domain.Service, upd domain.ServiceUpdate) error {
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *upd.Status)
		}
		svc.Status = *upd.Status
	}
	if upd.Description != nil {
		svc.Description = *upd.Description
	}
	if upd.RepositoryURL != nil {
		svc.RepositoryURL = *upd.RepositoryURL
	}
	if upd.ServiceType != nil && *upd.ServiceType != "" {
		svc.ServiceType = *upd.ServiceType
	}
	if len(upd.Metadata) > 0 {
		if svc.Metadata == nil {
			svc.Metadata = domain.Attrs{}
		}
		for k, v := range upd.Metadata {
			svc.Metadata[k] = v
		}
	}
	return nil
}
