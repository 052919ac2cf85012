package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Graph    GraphConfig
	Cache    CacheConfig
	Analysis AnalysisConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GraphConfig struct {
	// Store is "postgres" or "memory".
	Store      string
	Fixture    string
	RosterPath string
}

type CacheConfig struct {
	// Backend is one of memory, redis, postgres or none.
	Backend       string
	TTL           time.Duration
	SweepSchedule string
}

type AnalysisConfig struct {
	DefaultDepth             int
	MaxDepth                 int
	CrossTeamThreshold       int
	ProcessApprovalThreshold int
	CycleMaxEdges            int
	TieBreak                 string
	SingleFlight             bool
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the process environment without touching .env files.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 50),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 100),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "impact"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Graph: GraphConfig{
			Store:      strings.ToLower(getEnv("GRAPH_STORE", "postgres")),
			Fixture:    getEnv("GRAPH_FIXTURE", ""),
			RosterPath: getEnv("TEAM_ROSTER_PATH", ""),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
			TTL:           getEnvAsDuration("CACHE_TTL", time.Hour),
			SweepSchedule: getEnv("CACHE_SWEEP_SCHEDULE", "0 */5 * * * *"),
		},
		Analysis: AnalysisConfig{
			DefaultDepth:             getEnvAsInt("ANALYSIS_DEFAULT_DEPTH", 3),
			MaxDepth:                 getEnvAsInt("ANALYSIS_MAX_DEPTH", 10),
			CrossTeamThreshold:       getEnvAsInt("CROSS_TEAM_THRESHOLD", 7),
			ProcessApprovalThreshold: getEnvAsInt("PROCESS_APPROVAL_THRESHOLD", 10),
			CycleMaxEdges:            getEnvAsInt("CYCLE_MAX_EDGES", 100000),
			TieBreak:                 getEnv("TRAVERSAL_TIE_BREAK", "first_discovered"),
			SingleFlight:             getEnvAsBool("SINGLE_FLIGHT", true),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Graph.Store {
	case "postgres":
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required when GRAPH_STORE=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("GRAPH_STORE must be postgres or memory, got %q", c.Graph.Store)
	}

	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	case "postgres":
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required when CACHE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory, redis, postgres or none, got %q", c.Cache.Backend)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Analysis.MaxDepth < 1 {
		return fmt.Errorf("ANALYSIS_MAX_DEPTH must be at least 1")
	}
	if c.Analysis.DefaultDepth < 1 || c.Analysis.DefaultDepth > c.Analysis.MaxDepth {
		return fmt.Errorf("ANALYSIS_DEFAULT_DEPTH must be between 1 and %d", c.Analysis.MaxDepth)
	}
	switch c.Analysis.TieBreak {
	case "first_discovered", "highest_criticality":
	default:
		return fmt.Errorf("TRAVERSAL_TIE_BREAK must be first_discovered or highest_criticality, got %q", c.Analysis.TieBreak)
	}

	return nil
}

// PostgresDSN prefers DB_DSN and falls back to the discrete DB_* fields.
func (d DatabaseConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, p := range strings.Split(valueStr, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
