package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/google/uuid"
)

// PostgresCache persists entries in impact_analysis_cache. Rows past expires_at
// are filtered on read and removed by Reclaim.
type PostgresCache struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresCache(db *sql.DB) *PostgresCache {
	return &PostgresCache{db: db, now: time.Now}
}

func (p *PostgresCache) WithClock(now func() time.Time) *PostgresCache {
	p.now = now
	return p
}

func (p *PostgresCache) Get(ctx context.Context, serviceID string, analysisType domain.AnalysisType) (*domain.CacheEntry, error) {
	query := `
		SELECT id, risk_level, result, computed_at, expires_at
		FROM impact_analysis_cache
		WHERE service_id = $1 AND analysis_type = $2 AND expires_at > $3
	`

	var (
		e          domain.CacheEntry
		riskLevel  string
		resultJSON []byte
	)
	err := p.db.QueryRowContext(ctx, query, serviceID, string(analysisType), p.now()).Scan(
		&e.ID,
		&riskLevel,
		&resultJSON,
		&e.ComputedAt,
		&e.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var res domain.ImpactAnalysisResult
	if err := json.Unmarshal(resultJSON, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	e.ServiceID = serviceID
	e.AnalysisType = analysisType
	e.RiskLevel = domain.Severity(riskLevel)
	e.Result = &res
	e.AffectedServices = res.AffectedServices
	e.Stakeholders = res.Stakeholders
	return &e, nil
}

// Put upserts on (service_id, analysis_type) so there is at most one row per key.
func (p *PostgresCache) Put(ctx context.Context, entry *domain.CacheEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO impact_analysis_cache (
			id, service_id, analysis_type, affected_services, risk_level,
			stakeholders, result, computed_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (service_id, analysis_type) DO UPDATE SET
			affected_services = EXCLUDED.affected_services,
			risk_level = EXCLUDED.risk_level,
			stakeholders = EXCLUDED.stakeholders,
			result = EXCLUDED.result,
			computed_at = EXCLUDED.computed_at,
			expires_at = EXCLUDED.expires_at
	`

	affectedJSON, err := json.Marshal(entry.AffectedServices)
	if err != nil {
		return fmt.Errorf("failed to marshal affected services: %w", err)
	}
	stakeholdersJSON, err := json.Marshal(entry.Stakeholders)
	if err != nil {
		return fmt.Errorf("failed to marshal stakeholders: %w", err)
	}
	resultJSON, err := json.Marshal(entry.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = p.db.ExecContext(ctx, query,
		entry.ID,
		entry.ServiceID,
		string(entry.AnalysisType),
		affectedJSON,
		string(entry.RiskLevel),
		stakeholdersJSON,
		resultJSON,
		entry.ComputedAt,
		entry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}
	return nil
}

func (p *PostgresCache) Reclaim(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM impact_analysis_cache WHERE expires_at <= $1`, p.now())
	if err != nil {
		return 0, fmt.Errorf("failed to reclaim cache entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count reclaimed entries: %w", err)
	}
	return n, nil
}
