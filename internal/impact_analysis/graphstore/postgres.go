package graphstore

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// PostgresStore keeps the dependency graph in Postgres.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies the embedded schema files in name order. Every statement is
// idempotent so it is safe to run on each boot.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		sqlText, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(ctx, string(sqlText)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

const serviceColumns = `id, name, team_id, repository_url, description, service_type, status, metadata, created_at, updated_at`

const dependencyColumns = `id, source_service_id, target_service_id, dependency_type, criticality, description, metadata, created_at, updated_at`

func (s *PostgresStore) GetService(ctx context.Context, id string) (*domain.Service, error) {
	q := `select ` + serviceColumns + ` from services where id = $1`
	svc, err := scanService(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

func (s *PostgresStore) ServicesByIDs(ctx context.Context, ids []string) (map[string]domain.Service, error) {
	out := make(map[string]domain.Service, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := `select ` + serviceColumns + ` from services where id = any($1)`
	rows, err := s.db.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("services by ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out[svc.ID] = *svc
	}
	return out, rows.Err()
}

func (s *PostgresStore) Outgoing(ctx context.Context, serviceID string) ([]domain.Dependency, error) {
	q := `select ` + dependencyColumns + ` from dependencies where source_service_id = $1 order by created_at, id`
	return s.queryDependencies(ctx, q, serviceID)
}

func (s *PostgresStore) Incoming(ctx context.Context, serviceID string) ([]domain.Dependency, error) {
	q := `select ` + dependencyColumns + ` from dependencies where target_service_id = $1 order by created_at, id`
	return s.queryDependencies(ctx, q, serviceID)
}

func (s *PostgresStore) AllDependencies(ctx context.Context) ([]domain.Dependency, error) {
	q := `select ` + dependencyColumns + ` from dependencies order by created_at, id`
	return s.queryDependencies(ctx, q)
}

func (s *PostgresStore) DependenciesAmong(ctx context.Context, ids []string) ([]domain.Dependency, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `select ` + dependencyColumns + ` from dependencies
where source_service_id = any($1) and target_service_id = any($1)
order by created_at, id`
	return s.queryDependencies(ctx, q, ids)
}

func (s *PostgresStore) CreateService(ctx context.Context, svc *domain.Service) error {
	if err := normalizeService(svc); err != nil {
		return err
	}
	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}
	meta, err := json.Marshal(svc.Metadata)
	if err != nil {
		return fmt.Errorf("marshal service metadata: %w", err)
	}
	const q = `
insert into services (id, name, team_id, repository_url, description, service_type, status, metadata)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning created_at, updated_at;
`
	err = s.db.QueryRow(ctx, q, svc.ID, svc.Name, svc.TeamID, svc.RepositoryURL, svc.Description,
		svc.ServiceType, string(svc.Status), meta).Scan(&svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		return mapPgErr("create service", err)
	}
	return nil
}

func (s *PostgresStore) UpdateService(ctx context.Context, id string, upd domain.ServiceUpdate) (*domain.Service, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update service: %w", err)
	}
	defer tx.Rollback(ctx)

	q := `select ` + serviceColumns + ` from services where id = $1 for update`
	svc, err := scanService(tx.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load service: %w", err)
	}
	if err := applyUpdate(svc, upd); err != nil {
		return nil, err
	}
	meta, err := json.Marshal(svc.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal service metadata: %w", err)
	}
	const uq = `
update services
set repository_url = $2, description = $3, service_type = $4, status = $5, metadata = $6, updated_at = now()
where id = $1
returning updated_at;
`
	if err := tx.QueryRow(ctx, uq, id, svc.RepositoryURL, svc.Description, svc.ServiceType,
		string(svc.Status), meta).Scan(&svc.UpdatedAt); err != nil {
		return nil, mapPgErr("update service", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update service: %w", err)
	}
	return svc, nil
}

// DeleteService relies on ON DELETE CASCADE for edges, versions and cache rows.
func (s *PostgresStore) DeleteService(ctx context.Context, id string) error {
	ct, err := s.db.Exec(ctx, `delete from services where id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

func (s *PostgresStore) ListServices(ctx context.Context, f domain.ServiceFilter) ([]domain.Service, error) {
	q := `select ` + serviceColumns + ` from services
where ($1 = '' or team_id = $1) and ($2 = '' or status = $2)
order by name, team_id`
	rows, err := s.db.Query(ctx, q, f.TeamID, string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	out := make([]domain.Service, 0, 16)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *svc)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateDependency(ctx context.Context, dep *domain.Dependency) error {
	if err := normalizeDependency(dep); err != nil {
		return err
	}
	if dep.ID == "" {
		dep.ID = uuid.New().String()
	}
	meta, err := json.Marshal(dep.Metadata)
	if err != nil {
		return fmt.Errorf("marshal dependency metadata: %w", err)
	}
	const q = `
insert into dependencies (id, source_service_id, target_service_id, dependency_type, criticality, description, metadata)
values ($1, $2, $3, $4, $5, $6, $7)
returning created_at, updated_at;
`
	err = s.db.QueryRow(ctx, q, dep.ID, dep.SourceServiceID, dep.TargetServiceID,
		string(dep.DependencyType), string(dep.Criticality), dep.Description, meta).
		Scan(&dep.CreatedAt, &dep.UpdatedAt)
	if err != nil {
		return mapPgErr("create dependency", err)
	}
	return nil
}

func (s *PostgresStore) DeleteDependency(ctx context.Context, id string) error {
	ct, err := s.db.Exec(ctx, `delete from dependencies where id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dependency: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrDependencyNotFound
	}
	return nil
}

func (s *PostgresStore) ListDependencies(ctx context.Context, serviceID string) ([]domain.Dependency, error) {
	if _, err := s.GetService(ctx, serviceID); err != nil {
		return nil, err
	}
	q := `select ` + dependencyColumns + ` from dependencies
where source_service_id = $1 or target_service_id = $1
order by created_at, id`
	return s.queryDependencies(ctx, q, serviceID)
}

func (s *PostgresStore) AddVersion(ctx context.Context, v *domain.ServiceVersion) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.DeploymentDate.IsZero() {
		v.DeploymentDate = time.Now().UTC()
	}
	meta, err := json.Marshal(v.Metadata)
	if err != nil {
		return fmt.Errorf("marshal version metadata: %w", err)
	}
	const q = `
insert into service_versions (id, service_id, version, release_notes, breaking_changes, deployment_date, metadata)
values ($1, $2, $3, $4, $5, $6, $7)
returning created_at;
`
	err = s.db.QueryRow(ctx, q, v.ID, v.ServiceID, v.Version, v.ReleaseNotes, v.BreakingChanges,
		v.DeploymentDate, meta).Scan(&v.CreatedAt)
	if err != nil {
		return mapPgErr("add version", err)
	}
	return nil
}

func (s *PostgresStore) ListVersions(ctx context.Context, serviceID string) ([]domain.ServiceVersion, error) {
	if _, err := s.GetService(ctx, serviceID); err != nil {
		return nil, err
	}
	const q = `
select id, service_id, version, release_notes, breaking_changes, deployment_date, metadata, created_at
from service_versions
where service_id = $1
order by deployment_date desc, created_at desc;
`
	rows, err := s.db.Query(ctx, q, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()
	var out []domain.ServiceVersion
	for rows.Next() {
		var v domain.ServiceVersion
		var meta []byte
		if err := rows.Scan(&v.ID, &v.ServiceID, &v.Version, &v.ReleaseNotes, &v.BreakingChanges,
			&v.DeploymentDate, &meta, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Metadata = decodeAttrs(meta)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DependencySummaries(ctx context.Context) ([]domain.DependencySummary, error) {
	const q = `
select service_id, service_name, team_id, outgoing_count, incoming_count
from service_dependency_summary
order by service_name, team_id;
`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("dependency summaries: %w", err)
	}
	defer rows.Close()
	var out []domain.DependencySummary
	for rows.Next() {
		var ds domain.DependencySummary
		var outgoing, incoming int64
		if err := rows.Scan(&ds.ServiceID, &ds.ServiceName, &ds.TeamID, &outgoing, &incoming); err != nil {
			return nil, err
		}
		ds.OutgoingCount = int(outgoing)
		ds.IncomingCount = int(incoming)
		out = append(out, ds)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CrossTeamDependencies(ctx context.Context) ([]domain.CrossTeamDependency, error) {
	q := `select ` + dependencyColumns + `, source_team_id, target_team_id
from cross_team_dependencies
order by created_at, id`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("cross team dependencies: %w", err)
	}
	defer rows.Close()
	var out []domain.CrossTeamDependency
	for rows.Next() {
		var c domain.CrossTeamDependency
		var depType, crit string
		var meta []byte
		if err := rows.Scan(&c.ID, &c.SourceServiceID, &c.TargetServiceID, &depType, &crit,
			&c.Description, &meta, &c.CreatedAt, &c.UpdatedAt, &c.SourceTeamID, &c.TargetTeamID); err != nil {
			return nil, err
		}
		c.DependencyType = domain.DependencyType(depType)
		c.Criticality = domain.Criticality(crit)
		c.Metadata = decodeAttrs(meta)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) queryDependencies(ctx context.Context, q string, args ...any) ([]domain.Dependency, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query dependencies: %w", err)
	}
	defer rows.Close()
	var out []domain.Dependency
	for rows.Next() {
		var d domain.Dependency
		var depType, crit string
		var meta []byte
		if err := rows.Scan(&d.ID, &d.SourceServiceID, &d.TargetServiceID, &depType, &crit,
			&d.Description, &meta, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.DependencyType = domain.DependencyType(depType)
		d.Criticality = domain.Criticality(crit)
		d.Metadata = decodeAttrs(meta)
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var svc domain.Service
	var status string
	var meta []byte
	if err := row.Scan(&svc.ID, &svc.Name, &svc.TeamID, &svc.RepositoryURL, &svc.Description,
		&svc.ServiceType, &status, &meta, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
		return nil, err
	}
	svc.Status = domain.ServiceStatus(status)
	svc.Metadata = decodeAttrs(meta)
	return &svc, nil
}

func decodeAttrs(b []byte) domain.Attrs {
	out := domain.Attrs{}
	if len(b) == 0 {
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return domain.Attrs{}
	}
	return out
}

func mapPgErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.TableName == "dependencies" {
				return domain.ErrDuplicateDependency
			}
			return domain.ErrDuplicateService
		case "23503":
			return domain.ErrServiceNotFound
		case "23514":
			if pgErr.ConstraintName == "dependencies_no_self_reference" {
				return domain.ErrSelfDependency
			}
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
