package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/erp/storesync/internal/infrastructure/config"
)

const defaultSlowQueryThresh = 200 * time.Millisecond

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// RegisterDBTracing installs otelgorm plus timing callbacks that flag slow
// statements on their span. It is a no-op when database tracing is off.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.DBTraceEnabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(db.Name())}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	thresh := cfg.DBSlowQueryThresh
	if thresh <= 0 {
		thresh = defaultSlowQueryThresh
	}
	if err := registerTimingCallbacks(db, thresh); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", thresh),
	)
	return nil
}

func registerTimingCallbacks(db *gorm.DB, thresh time.Duration) error {
	cb := db.Callback()
	before := markQueryStart
	after := slowQueryCallback(thresh)

	steps := []struct {
		op       string
		register func(string, func(*gorm.DB)) error
	}{
		{"create:before", cb.Create().Before("gorm:create").Register},
		{"query:before", cb.Query().Before("gorm:query").Register},
		{"update:before", cb.Update().Before("gorm:update").Register},
		{"delete:before", cb.Delete().Before("gorm:delete").Register},
		{"row:before", cb.Row().Before("gorm:row").Register},
		{"raw:before", cb.Raw().Before("gorm:raw").Register},
	}
	for _, s := range steps {
		if err := s.register("otel_timing:"+s.op, before); err != nil {
			return err
		}
	}

	steps = []struct {
		op       string
		register func(string, func(*gorm.DB)) error
	}{
		{"create:after", cb.Create().After("gorm:create").Register},
		{"query:after", cb.Query().After("gorm:query").Register},
		{"update:after", cb.Update().After("gorm:update").Register},
		{"delete:after", cb.Delete().After("gorm:delete").Register},
		{"row:after", cb.Row().After("gorm:row").Register},
		{"raw:after", cb.Raw().After("gorm:raw").Register},
	}
	for _, s := range steps {
		if err := s.register("otel_timing:"+s.op, after); err != nil {
			return err
		}
	}
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func slowQueryCallback(thresh time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}

		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
		}

		start, ok := ctx.Value(queryStartTimeKey).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > thresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("threshold_ms", thresh.Milliseconds()),
			))
		}
	}
}
