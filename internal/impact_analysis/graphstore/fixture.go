package graphstore

import (
	"context"
	"fmt"
	"os"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML shape used to seed a MemoryStore:
//
//	services:
//	  - id: checkout
//	    name: Checkout API
//	    team: payments
//	dependencies:
//	  - from: checkout
//	    to: ledger
//	    type: database
//	    criticality: critical
type Fixture struct {
	Services     []FixtureService    `yaml:"services"`
	Dependencies []FixtureDependency `yaml:"dependencies"`
}

type FixtureService struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Team        string         `yaml:"team"`
	Type        string         `yaml:"type"`
	Status      string         `yaml:"status"`
	Repository  string         `yaml:"repository"`
	Description string         `yaml:"description"`
	Metadata    map[string]any `yaml:"metadata"`
}

type FixtureDependency struct {
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Type        string `yaml:"type"`
	Criticality string `yaml:"criticality"`
	Description string `yaml:"description"`
}

func ParseFixture(b []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse graph fixture: %w", err)
	}
	return &f, nil
}

// LoadFixture reads a YAML fixture from disk and seeds a fresh MemoryStore.
func LoadFixture(ctx context.Context, path string) (*MemoryStore, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph fixture: %w", err)
	}
	f, err := ParseFixture(b)
	if err != nil {
		return nil, err
	}
	st := NewMemoryStore()
	if err := f.Seed(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Seed writes the fixture into w. Service ids default to their names.
func (f *Fixture) Seed(ctx context.Context, w Writer) error {
	for _, s := range f.Services {
		id := s.ID
		if id == "" {
			id = s.Name
		}
		name := s.Name
		if name == "" {
			name = id
		}
		svc := &domain.Service{
			ID:            id,
			Name:          name,
			TeamID:        s.Team,
			ServiceType:   s.Type,
			Status:        domain.ServiceStatus(s.Status),
			RepositoryURL: s.Repository,
			Description:   s.Description,
			Metadata:      domain.Attrs(s.Metadata),
		}
		if err := w.CreateService(ctx, svc); err != nil {
			return fmt.Errorf("seed service %q: %w", id, err)
		}
	}
	for _, d := range f.Dependencies {
		dep := &domain.Dependency{
			SourceServiceID: d.From,
			TargetServiceID: d.To,
			DependencyType:  domain.DependencyType(d.Type),
			Criticality:     domain.Criticality(d.Criticality),
			Description:     d.Description,
		}
		if err := w.CreateDependency(ctx, dep); err != nil {
			return fmt.Errorf("seed dependency %s -> %s: %w", d.From, d.To, err)
		}
	}
	return nil
}
