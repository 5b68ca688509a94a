package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

// DBMetricsPlugin is a GORM plugin recording query counts and latency.
// It also registers a collector for the connection pool statistics.
type DBMetricsPlugin struct {
	registry      *Registry
	slowThreshold time.Duration
	logger        *zap.Logger

	queries     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	slowQueries *prometheus.CounterVec
}

func NewDBMetricsPlugin(r *Registry, slowThreshold time.Duration, logger *zap.Logger) *DBMetricsPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowQueryThreshold
	}
	return &DBMetricsPlugin{
		registry:      r,
		slowThreshold: slowThreshold,
		logger:        logger,
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "queries_total",
			Help:      "Database statements by operation and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database statement latency.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),
		slowQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "slow_queries_total",
			Help:      "Statements slower than the configured threshold, by table.",
		}, []string{"table"}),
	}
}

func (p *DBMetricsPlugin) Name() string {
	return "shopfront:db_metrics"
}

// Initialize registers the collectors and the GORM callbacks.
func (p *DBMetricsPlugin) Initialize(db *gorm.DB) error {
	for _, c := range []prometheus.Collector{p.queries, p.duration, p.slowQueries} {
		if err := p.registry.Register(c); err != nil {
			return fmt.Errorf("register db metrics: %w", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("db metrics: %w", err)
	}
	if err := p.registry.Register(collectors.NewDBStatsCollector(sqlDB, namespace)); err != nil {
		return fmt.Errorf("register db stats: %w", err)
	}

	cb := db.Callback()
	register := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, r := range register {
		if err := r.before("db_metrics:before_"+r.op, p.before); err != nil {
			return err
		}
		if err := r.after("db_metrics:after_"+r.op, p.after); err != nil {
			return err
		}
	}
	p.logger.Debug("database metrics plugin initialized")
	return nil
}

type startTimeKey struct{}

func (p *DBMetricsPlugin) before(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	db.Statement.Context = context.WithValue(ctx, startTimeKey{}, time.Now())
}

func (p *DBMetricsPlugin) after(db *gorm.DB) {
	var elapsed time.Duration
	if db.Statement.Context != nil {
		if start, ok := db.Statement.Context.Value(startTimeKey{}).(time.Time); ok {
			elapsed = time.Since(start)
		}
	}
	operation := detectOperationType(db.Statement.SQL.String())
	status := "ok"
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		status = "error"
	}
	p.queries.WithLabelValues(operation, status).Inc()
	p.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if elapsed > p.slowThreshold {
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		p.slowQueries.WithLabelValues(table).Inc()
	}
}

func detectOperationType(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}
