package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig configures spans for database statements.
type DBTracingConfig struct {
	// DBSystem names the database in spans, e.g. "sqlite" or "postgresql"
	DBSystem string
	// LogFullSQL keeps bound variables in the recorded statements
	LogFullSQL bool
	// SlowQuery marks statements slower than this on their span
	SlowQuery time.Duration
}

// DBTracingPlugin is a GORM plugin that installs otelgorm and annotates its
// statement spans with table, rows affected, errors and slowness.
type DBTracingPlugin struct {
	provider trace.TracerProvider
	config   DBTracingConfig
	logger   *zap.Logger
}

// NewDBTracingPlugin creates a plugin emitting spans through provider
func NewDBTracingPlugin(provider trace.TracerProvider, cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQuery <= 0 {
		cfg.SlowQuery = defaultSlowQueryThreshold
	}
	return &DBTracingPlugin{provider: provider, config: cfg, logger: logger}
}

func (p *DBTracingPlugin) Name() string {
	return "shopfront:db_tracing"
}

// Initialize installs the annotating callbacks and then otelgorm. Both run
// after the statement; registering ours first runs them before otelgorm
// ends the span.
func (p *DBTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	register := []struct {
		op       string
		register func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().After("gorm:create").Before("otel:after:create").Register},
		{"query", cb.Query().After("gorm:query").Before("otel:after:select").Register},
		{"update", cb.Update().After("gorm:update").Before("otel:after:update").Register},
		{"delete", cb.Delete().After("gorm:delete").Before("otel:after:delete").Register},
		{"row", cb.Row().After("gorm:row").Before("otel:after:row").Register},
		{"raw", cb.Raw().After("gorm:raw").Before("otel:after:raw").Register},
	}
	for _, r := range register {
		if err := r.register("db_tracing:annotate_"+r.op, p.annotate); err != nil {
			return err
		}
	}

	opts := []otelgorm.Option{
		otelgorm.WithTracerProvider(p.provider),
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.config.DBSystem),
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQuery))
	return nil
}

func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}

	ro, ok := span.(sdktrace.ReadOnlySpan)
	if !ok {
		return
	}
	if elapsed := time.Since(ro.StartTime()); elapsed > p.config.SlowQuery {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.config.SlowQuery.Milliseconds()),
		))
	}
}
