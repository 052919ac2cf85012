package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/cache"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/cycles"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/graphstore"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/metrics"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/mitigation"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/policy"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/risk"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/stakeholders"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/teams"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/traversal"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/visualization"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/platform/logger"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMaxDepthLimit = 10
	DefaultFlightTimeout = 30 * time.Second
)

type Options struct {
	TTL           time.Duration
	MaxDepthLimit int
	Policy        policy.Policy
	Traversal     traversal.Options
	CycleMaxEdges int
	// SingleFlight collapses concurrent misses for the same key into one
	// computation. Results are identical either way.
	SingleFlight bool
	// FlightTimeout bounds a shared computation once it no longer follows
	// any single caller's context.
	FlightTimeout time.Duration
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = cache.DefaultTTL
	}
	if o.MaxDepthLimit <= 0 {
		o.MaxDepthLimit = DefaultMaxDepthLimit
	}
	if !o.Traversal.TieBreak.Valid() {
		o.Traversal.TieBreak = traversal.FirstDiscovered
	}
	if o.FlightTimeout <= 0 {
		o.FlightTimeout = DefaultFlightTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	o.Policy = o.Policy.WithDefaults()
	return o
}

// ImpactService composes traversal, risk, stakeholders, mitigation and
// visualization behind a TTL cache.
type ImpactService struct {
	store  graphstore.Reader
	cache  cache.Cache
	teams  teams.Directory
	cycles *cycles.Finder
	log    *logger.Logger
	opts   Options
	flight singleflight.Group
}

func NewImpactService(store graphstore.Reader, c cache.Cache, dir teams.Directory, log *logger.Logger, opts Options) *ImpactService {
	if c == nil {
		c = cache.Noop{}
	}
	if dir == nil {
		dir = teams.NoopDirectory{}
	}
	if log == nil {
		log = logger.Nop()
	}
	opts = opts.withDefaults()
	return &ImpactService{
		store:  store,
		cache:  c,
		teams:  dir,
		cycles: cycles.NewFinder(opts.CycleMaxEdges),
		log:    log.With("component", "impact_service"),
		opts:   opts,
	}
}

// AnalyzeImpact returns the impact of changing serviceID. A live cache entry is
// returned unchanged for the rest of its TTL even if the graph has changed.
func (s *ImpactService) AnalyzeImpact(ctx context.Context, serviceID string, analysisType domain.AnalysisType, maxDepth int) (*domain.ImpactAnalysisResult, error) {
	label := string(analysisType)
	if !analysisType.Valid() {
		label = "unknown"
	}
	start := time.Now()
	defer func() {
		metrics.AnalysisDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}()

	res, err := s.analyze(ctx, serviceID, analysisType, maxDepth)
	metrics.AnalysisTotal.WithLabelValues(label, outcome(err)).Inc()
	return res, err
}

func (s *ImpactService) analyze(ctx context.Context, serviceID string, analysisType domain.AnalysisType, maxDepth int) (*domain.ImpactAnalysisResult, error) {
	if !analysisType.Valid() {
		return nil, domain.ErrInvalidAnalysisType
	}
	if maxDepth <= 0 || maxDepth > s.opts.MaxDepthLimit {
		return nil, fmt.Errorf("%w: got %d, limit %d", domain.ErrInvalidDepth, maxDepth, s.opts.MaxDepthLimit)
	}

	root, err := s.store.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	// The key is (service, type); an entry computed for another depth bound is
	// replaced rather than served.
	entry, err := s.cache.Get(ctx, serviceID, analysisType)
	switch {
	case err == nil && entry.Result != nil && entry.Result.MaxDepth == maxDepth:
		metrics.CacheTotal.WithLabelValues("hit").Inc()
		res := entry.Result
		res.FromCache = true
		return res, nil
	case err != nil && !errors.Is(err, domain.ErrCacheMiss):
		metrics.CacheTotal.WithLabelValues("error").Inc()
		metrics.Degradations.WithLabelValues("cache_read").Inc()
		s.log.Warn("cache read failed; recomputing", "service_id", serviceID, "analysis_type", analysisType, "error", err)
	default:
		metrics.CacheTotal.WithLabelValues("miss").Inc()
	}

	if !s.opts.SingleFlight {
		return s.compute(ctx, *root, analysisType, maxDepth)
	}
	// The shared computation is detached from the caller that started it so a
	// cancelled request does not fail the others waiting on the same key.
	key := fmt.Sprintf("%s|%s|%d", serviceID, analysisType, maxDepth)
	ch := s.flight.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.FlightTimeout)
		defer cancel()
		return s.compute(fctx, *root, analysisType, maxDepth)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*domain.ImpactAnalysisResult), nil
	}
}

func (s *ImpactService) compute(ctx context.Context, root domain.Service, analysisType domain.AnalysisType, maxDepth int) (*domain.ImpactAnalysisResult, error) {
	closure, err := traversal.Compute(ctx, s.store, root.ID, analysisType, maxDepth, s.opts.Traversal)
	if err != nil {
		return nil, fmt.Errorf("compute closure: %w", err)
	}
	if closure == nil {
		closure = []domain.AffectedService{}
	}
	metrics.AffectedServices.Observe(float64(len(closure)))

	found, err := s.cycles.Find(ctx, s.store, root.ID)
	if err != nil {
		metrics.Degradations.WithLabelValues("cycles").Inc()
		s.log.Warn("cycle detection unavailable; reporting no cycles", "service_id", root.ID, "error", err)
		found = nil
	}

	assessment := risk.Assess(root, closure, found, s.opts.Policy)
	holders := stakeholders.Resolve(ctx, closure, s.teams, s.log)
	strategies := mitigation.Generate(root, closure, assessment, s.opts.Policy)

	edges, err := s.store.DependenciesAmong(ctx, visualization.NodeIDs(root.ID, closure))
	if err != nil {
		return nil, fmt.Errorf("load visualization edges: %w", err)
	}
	viz := visualization.Build(root, closure, edges)

	computedAt := s.opts.Now().UTC().Truncate(time.Microsecond)
	res := &domain.ImpactAnalysisResult{
		ServiceID:            root.ID,
		ServiceName:          root.Name,
		TeamID:               root.TeamID,
		AnalysisType:         analysisType,
		MaxDepth:             maxDepth,
		AffectedServices:     closure,
		RiskAssessment:       assessment,
		Stakeholders:         holders,
		MitigationStrategies: strategies,
		VisualizationData:    viz,
		ComputedAt:           computedAt,
		ExpiresAt:            computedAt.Add(s.opts.TTL),
	}

	if err := s.cache.Put(ctx, domain.NewCacheEntry(res)); err != nil {
		metrics.Degradations.WithLabelValues("cache_write").Inc()
		s.log.Warn("cache write failed; result not cached", "service_id", root.ID, "analysis_type", analysisType, "error", err)
	}

	s.log.Info("impact analysis computed",
		"service_id", root.ID,
		"analysis_type", analysisType,
		"max_depth", maxDepth,
		"affected", len(closure),
		"risk", assessment.OverallRiskLevel,
	)
	return res, nil
}

// Reclaim drops expired cache entries.
func (s *ImpactService) Reclaim(ctx context.Context) (int64, error) {
	n, err := s.cache.Reclaim(ctx)
	if err != nil {
		return 0, err
	}
	metrics.CacheReclaimed.Add(float64(n))
	return n, nil
}

// MaxDepthLimit is the largest max depth AnalyzeImpact accepts.
func (s *ImpactService) MaxDepthLimit() int { return s.opts.MaxDepthLimit }

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrServiceNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidDepth), errors.Is(err, domain.ErrInvalidAnalysisType):
		return "invalid"
	default:
		return "error"
	}
}
