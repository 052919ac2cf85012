package bootstrap

import (
	"time"

	httpapi "github.com/GoSim-25-26J-441/impact-analysis-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/graphstore"
	impacthttp "github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/http"
	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/platform/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	DB             *pgxpool.Pool
	Redis          *redis.Client
	Analyzer       impacthttp.Analyzer
	Store          graphstore.Store
	DefaultDepth   int
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	Log            *logger.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))
	r.Use(middleware.RequestIDMiddleware(dep.Log))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))

	impactHandler := impacthttp.New(dep.Analyzer, dep.Store, dep.DefaultDepth)
	impactHandler.Register(api)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID, "X-Cache"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
