package teams

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"gopkg.in/yaml.v3"
)

type Roster struct {
	TeamID   string         `json:"team_id" yaml:"team_id"`
	Members  []Member       `json:"members" yaml:"members"`
	Policies map[string]any `json:"policies,omitempty" yaml:"policies,omitempty"`
}

type Member struct {
	UserID  string `json:"user_id" yaml:"user_id"`
	Role    string `json:"role" yaml:"role"`
	Contact string `json:"contact" yaml:"contact"`
}

// Contacts flattens the roster into the stakeholder contact list.
func (r *Roster) Contacts() []domain.Contact {
	if r == nil {
		return []domain.Contact{}
	}
	out := make([]domain.Contact, 0, len(r.Members))
	for _, m := range r.Members {
		out = append(out, domain.Contact{UserID: m.UserID, Role: m.Role, Contact: m.Contact})
	}
	return out
}

// Directory resolves a team to its roster. Unknown teams yield (nil, nil).
type Directory interface {
	GetTeamRoster(ctx context.Context, teamID string) (*Roster, error)
}

// StaticDirectory serves rosters from memory.
type StaticDirectory struct {
	mu      sync.RWMutex
	rosters map[string]Roster
}

func NewStaticDirectory(rosters ...Roster) *StaticDirectory {
	d := &StaticDirectory{rosters: map[string]Roster{}}
	for _, r := range rosters {
		d.rosters[r.TeamID] = r
	}
	return d
}

func (d *StaticDirectory) Put(r Roster) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rosters[r.TeamID] = r
}

func (d *StaticDirectory) GetTeamRoster(_ context.Context, teamID string) (*Roster, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rosters[teamID]
	if !ok {
		return nil, nil
	}
	members := append([]Member(nil), r.Members...)
	r.Members = members
	return &r, nil
}

type rosterFile struct {
	Teams []Roster `yaml:"teams"`
}

// LoadYAML reads a rosters file of the form
//
//	teams:
//	  - team_id: payments
//	    members:
//	      - {user_id: u1, role: lead, contact: "#payments-oncall"}
func LoadYAML(path string) (*StaticDirectory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read team rosters: %w", err)
	}
	return ParseYAML(b)
}

func ParseYAML(b []byte) (*StaticDirectory, error) {
	var f rosterFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse team rosters: %w", err)
	}
	return NewStaticDirectory(f.Teams...), nil
}

// NoopDirectory knows no teams.
type NoopDirectory struct{}

func (NoopDirectory) GetTeamRoster(context.Context, string) (*Roster, error) { return nil, nil }
