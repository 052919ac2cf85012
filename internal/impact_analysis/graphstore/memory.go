package graphstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. Edges keep insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	services map[string]*domain.Service
	svcOrder []string
	deps     []*domain.Dependency
	versions map[string][]domain.ServiceVersion

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		services: map[string]*domain.Service{},
		versions: map[string][]domain.ServiceVersion{},
		now:      time.Now,
	}
}

func (m *MemoryStore) GetService(_ context.Context, id string) (*domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	svc, ok := m.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	out := cloneService(svc)
	return &out, nil
}

func (m *MemoryStore) ServicesByIDs(_ context.Context, ids []string) (map[string]domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.Service, len(ids))
	for _, id := range ids {
		if svc, ok := m.services[id]; ok {
			out[id] = cloneService(svc)
		}
	}
	return out, nil
}

func (m *MemoryStore) Outgoing(_ context.Context, serviceID string) ([]domain.Dependency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Dependency
	for _, d := range m.deps {
		if d.SourceServiceID == serviceID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *MemoryStore) Incoming(_ context.Context, serviceID string) ([]domain.Dependency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Dependency
	for _, d := range m.deps {
		if d.TargetServiceID == serviceID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *MemoryStore) AllDependencies(_ context.Context) ([]domain.Dependency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Dependency, 0, len(m.deps))
	for _, d := range m.deps {
		out = append(out, *d)
	}
	return out, nil
}

func (m *MemoryStore) DependenciesAmong(_ context.Context, ids []string) ([]domain.Dependency, error) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Dependency
	for _, d := range m.deps {
		if set[d.SourceServiceID] && set[d.TargetServiceID] {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateService(_ context.Context, svc *domain.Service) error {
	if err := normalizeService(svc); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.services {
		if existing.Name == svc.Name && existing.TeamID == svc.TeamID {
			return domain.ErrDuplicateService
		}
	}
	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}
	if _, ok := m.services[svc.ID]; ok {
		return domain.ErrDuplicateService
	}
	now := m.now()
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = now
	}
	svc.UpdatedAt = now
	stored := cloneService(svc)
	m.services[svc.ID] = &stored
	m.svcOrder = append(m.svcOrder, svc.ID)
	return nil
}

func (m *MemoryStore) UpdateService(_ context.Context, id string, upd domain.ServiceUpdate) (*domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	svc, ok := m.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	next := cloneService(svc)
	if err := applyUpdate(&next, upd); err != nil {
		return nil, err
	}
	next.UpdatedAt = m.now()
	m.services[id] = &next
	out := cloneService(&next)
	return &out, nil
}

// DeleteService removes the service together with every edge touching it and
// its version history.
func (m *MemoryStore) DeleteService(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[id]; !ok {
		return domain.ErrServiceNotFound
	}
	delete(m.services, id)
	delete(m.versions, id)
	order := m.svcOrder[:0]
	for _, sid := range m.svcOrder {
		if sid != id {
			order = append(order, sid)
		}
	}
	m.svcOrder = order
	kept := m.deps[:0]
	for _, d := range m.deps {
		if d.SourceServiceID != id && d.TargetServiceID != id {
			kept = append(kept, d)
		}
	}
	m.deps = kept
	return nil
}

func (m *MemoryStore) ListServices(_ context.Context, f domain.ServiceFilter) ([]domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Service, 0, len(m.svcOrder))
	for _, id := range m.svcOrder {
		svc := m.services[id]
		if f.TeamID != "" && svc.TeamID != f.TeamID {
			continue
		}
		if f.Status != "" && svc.Status != f.Status {
			continue
		}
		out = append(out, cloneService(svc))
	}
	return out, nil
}

func (m *MemoryStore) CreateDependency(_ context.Context, dep *domain.Dependency) error {
	if err := normalizeDependency(dep); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[dep.SourceServiceID]; !ok {
		return domain.ErrServiceNotFound
	}
	if _, ok := m.services[dep.TargetServiceID]; !ok {
		return domain.ErrServiceNotFound
	}
	for _, d := range m.deps {
		if d.SourceServiceID == dep.SourceServiceID &&
			d.TargetServiceID == dep.TargetServiceID &&
			d.DependencyType == dep.DependencyType {
			return domain.ErrDuplicateDependency
		}
	}
	if dep.ID == "" {
		dep.ID = uuid.New().String()
	}
	now := m.now()
	if dep.CreatedAt.IsZero() {
		dep.CreatedAt = now
	}
	dep.UpdatedAt = now
	stored := *dep
	m.deps = append(m.deps, &stored)
	return nil
}

func (m *MemoryStore) DeleteDependency(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.deps {
		if d.ID == id {
			m.deps = append(m.deps[:i], m.deps[i+1:]...)
			return nil
		}
	}
	return domain.ErrDependencyNotFound
}

func (m *MemoryStore) ListDependencies(_ context.Context, serviceID string) ([]domain.Dependency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.services[serviceID]; !ok {
		return nil, domain.ErrServiceNotFound
	}
	var out []domain.Dependency
	for _, d := range m.deps {
		if d.SourceServiceID == serviceID || d.TargetServiceID == serviceID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *MemoryStore) AddVersion(_ context.Context, v *domain.ServiceVersion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[v.ServiceID]; !ok {
		return domain.ErrServiceNotFound
	}
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	now := m.now()
	if v.DeploymentDate.IsZero() {
		v.DeploymentDate = now
	}
	v.CreatedAt = now
	m.versions[v.ServiceID] = append(m.versions[v.ServiceID], *v)
	return nil
}

func (m *MemoryStore) ListVersions(_ context.Context, serviceID string) ([]domain.ServiceVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.services[serviceID]; !ok {
		return nil, domain.ErrServiceNotFound
	}
	src := m.versions[serviceID]
	out := make([]domain.ServiceVersion, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return out, nil
}

func (m *MemoryStore) DependencySummaries(_ context.Context) ([]domain.DependencySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byID := make(map[string]*domain.DependencySummary, len(m.services))
	out := make([]domain.DependencySummary, 0, len(m.services))
	for _, id := range m.svcOrder {
		svc := m.services[id]
		byID[id] = &domain.DependencySummary{ServiceID: id, ServiceName: svc.Name, TeamID: svc.TeamID}
	}
	for _, d := range m.deps {
		if s, ok := byID[d.SourceServiceID]; ok {
			s.OutgoingCount++
		}
		if s, ok := byID[d.TargetServiceID]; ok {
			s.IncomingCount++
		}
	}
	for _, id := range m.svcOrder {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ServiceName < out[j].ServiceName })
	return out, nil
}

func (m *MemoryStore) CrossTeamDependencies(_ context.Context) ([]domain.CrossTeamDependency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.CrossTeamDependency
	for _, d := range m.deps {
		src, sok := m.services[d.SourceServiceID]
		dst, tok := m.services[d.TargetServiceID]
		if !sok || !tok || src.TeamID == dst.TeamID {
			continue
		}
		out = append(out, domain.CrossTeamDependency{
			Dependency:   *d,
			SourceTeamID: src.TeamID,
			TargetTeamID: dst.TeamID,
		})
	}
	return out, nil
}

func cloneService(s *domain.Service) domain.Service {
	out := *s
	if s.Metadata != nil {
		out.Metadata = make(domain.Attrs, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
