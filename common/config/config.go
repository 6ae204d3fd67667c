package config

import (
	"strings"

	"github.com/dastarkhwan/dastarkhwan/common/env"
)

var (
	// ServerPort overrides the --port flag when running inside container or PaaS environments.
	ServerPort = strings.TrimSpace(env.String("PORT", ""))
	// GinMode allows forcing Gin into release mode (or other modes) without recompiling.
	GinMode = strings.TrimSpace(env.String("GIN_MODE", ""))

	// DebugEnabled toggles verbose structured logging when DEBUG=true.
	DebugEnabled = env.Bool("DEBUG", false)
	// DebugSQLEnabled toggles per-query SQL logging when DEBUG_SQL=true.
	DebugSQLEnabled = env.Bool("DEBUG_SQL", false)

	// SQLDSN provides the primary database DSN; empty indicates that SQLite should be used.
	SQLDSN = strings.TrimSpace(env.String("SQL_DSN", ""))
	// SQLitePath specifies the SQLite database file path when SQL_DSN is absent.
	SQLitePath = env.String("SQLITE_PATH", "dastarkhwan.db")
	// SQLiteBusyTimeout sets the SQLite busy handler timeout in milliseconds.
	SQLiteBusyTimeout = env.Int("SQLITE_BUSY_TIMEOUT", 3000)
	// SQLMaxIdleConns bounds idle connections kept in the pool.
	SQLMaxIdleConns = env.Int("SQL_MAX_IDLE_CONNS", 100)
	// SQLMaxOpenConns bounds concurrently open database connections.
	SQLMaxOpenConns = env.Int("SQL_MAX_OPEN_CONNS", 1000)
	// SQLMaxLifetime recycles pooled connections after this many seconds.
	SQLMaxLifetime = env.Int("SQL_MAX_LIFETIME", 60)

	// MaxItemsPerPage caps paginated API responses to keep database queries predictable.
	MaxItemsPerPage = env.Int("MAX_ITEMS_PER_PAGE", 100)

	// CalcCacheTTLSec memoises identical calculate requests for this many seconds (0 disables the cache).
	CalcCacheTTLSec = env.Int("CALC_CACHE_TTL", 60)

	// EnablePrometheusMetrics exposes the /metrics endpoint for Prometheus scrapers when true.
	EnablePrometheusMetrics = env.Bool("ENABLE_PROMETHEUS_METRICS", true)

	// SeedOnBoot loads the fixture catalogue on startup when the dish table is empty.
	SeedOnBoot = env.Bool("SEED_ON_BOOT", false)
)
