package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/config"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/cache"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/graphstore"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/policy"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/service"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/teams"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/traversal"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/platform/logger"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Runtime holds everything an impact analysis process needs, built from config.
type Runtime struct {
	DB      *pgxpool.Pool
	SQL     *sql.DB
	Redis   *redis.Client
	Store   graphstore.Store
	Cache   cache.Cache
	Teams   teams.Directory
	Service *service.ImpactService
}

// Open connects the configured backends. On error anything already opened is
// closed again.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (rt *Runtime, err error) {
	rt = &Runtime{}
	defer func() {
		if err != nil {
			rt.Close()
			rt = nil
		}
	}()

	switch cfg.Graph.Store {
	case "memory":
		store := graphstore.NewMemoryStore()
		if cfg.Graph.Fixture != "" {
			if store, err = graphstore.LoadFixture(ctx, cfg.Graph.Fixture); err != nil {
				return rt, err
			}
			log.Info("graph fixture loaded", "path", cfg.Graph.Fixture)
		}
		rt.Store = store
	default:
		if rt.DB, err = OpenDB(ctx, DBOptions{
			DSN:      cfg.Database.PostgresDSN(),
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		}); err != nil {
			return rt, err
		}
		pg := graphstore.NewPostgresStore(rt.DB)
		if err = pg.Migrate(ctx); err != nil {
			return rt, err
		}
		rt.Store = pg
	}

	switch cfg.Cache.Backend {
	case "none":
		rt.Cache = cache.Noop{}
	case "redis":
		if rt.Redis, err = OpenRedis(ctx, cfg.Redis); err != nil {
			return rt, err
		}
		rt.Cache = cache.NewRedisCache(rt.Redis)
	case "postgres":
		if rt.SQL, err = postgres.NewConnection(ctx, &cfg.Database); err != nil {
			return rt, err
		}
		rt.Cache = cache.NewPostgresCache(rt.SQL)
	default:
		rt.Cache = cache.NewMemoryCache()
	}

	rt.Teams = teams.NoopDirectory{}
	if cfg.Graph.RosterPath != "" {
		dir, lerr := teams.LoadYAML(cfg.Graph.RosterPath)
		if lerr != nil {
			return rt, fmt.Errorf("load team roster: %w", lerr)
		}
		rt.Teams = dir
	}

	rt.Service = service.NewImpactService(rt.Store, rt.Cache, rt.Teams, log, ServiceOptions(cfg))
	log.Info("impact runtime ready",
		"graph_store", cfg.Graph.Store,
		"cache_backend", cfg.Cache.Backend,
		"cache_ttl", cfg.Cache.TTL.String(),
	)
	return rt, nil
}

func ServiceOptions(cfg *config.Config) service.Options {
	return service.Options{
		TTL:           cfg.Cache.TTL,
		MaxDepthLimit: cfg.Analysis.MaxDepth,
		Policy: policy.Policy{
			CrossTeamThreshold:       cfg.Analysis.CrossTeamThreshold,
			ProcessApprovalThreshold: cfg.Analysis.ProcessApprovalThreshold,
		},
		Traversal:     traversal.Options{TieBreak: traversal.TieBreak(cfg.Analysis.TieBreak)},
		CycleMaxEdges: cfg.Analysis.CycleMaxEdges,
		SingleFlight:  cfg.Analysis.SingleFlight,
	}
}

func (rt *Runtime) Close() {
	if rt == nil {
		return
	}
	if rt.Redis != nil {
		_ = rt.Redis.Close()
	}
	if rt.SQL != nil {
		_ = rt.SQL.Close()
	}
	if rt.DB != nil {
		rt.DB.Close()
	}
}
