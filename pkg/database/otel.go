package database

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	keyStart = "otel:start_time"
	keySpan  = "otel:span"
)

var secretPattern = regexp.MustCompile(`(?i)(password|token|secret)\s*=\s*'[^']*'`)

// PluginConfig 插件配置
type PluginConfig struct {
	ServiceName   string
	EnableMetrics bool
	MaxSQLLength  int
}

// DefaultPluginConfig 默认插件配置
func DefaultPluginConfig(serviceName string) PluginConfig {
	return PluginConfig{
		ServiceName:   serviceName,
		EnableMetrics: true,
		MaxSQLLength:  500,
	}
}

// OTELPlugin GORM OpenTelemetry 插件，为每条语句创建 client span 并记录耗时
type OTELPlugin struct {
	tracer   trace.Tracer
	config   PluginConfig
	queries  metric.Int64Counter
	duration metric.Float64Histogram
}

// NewOTELPlugin 创建插件实例，指标从全局 MeterProvider 获取
func NewOTELPlugin(config PluginConfig) (*OTELPlugin, error) {
	if config.ServiceName == "" {
		config.ServiceName = "community-spaces"
	}
	if config.MaxSQLLength <= 0 {
		config.MaxSQLLength = 500
	}

	meter := otel.Meter(config.ServiceName + ".gorm")
	queries, err := meter.Int64Counter(
		"db.queries.total",
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return nil, err
	}

	return &OTELPlugin{
		tracer:   otel.Tracer(config.ServiceName + ".gorm"),
		config:   config,
		queries:  queries,
		duration: duration,
	}, nil
}

// Name 实现 gorm.Plugin 接口
func (p *OTELPlugin) Name() string {
	return "otel_plugin"
}

// Initialize 注册回调
func (p *OTELPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("otel:before_create", p.before),
		cb.Create().After("gorm:create").Register("otel:after_create", p.after),
		cb.Query().Before("gorm:query").Register("otel:before_query", p.before),
		cb.Query().After("gorm:query").Register("otel:after_query", p.after),
		cb.Update().Before("gorm:update").Register("otel:before_update", p.before),
		cb.Update().After("gorm:update").Register("otel:after_update", p.after),
		cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before),
		cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after),
		cb.Row().Before("gorm:row").Register("otel:before_row", p.before),
		cb.Row().After("gorm:row").Register("otel:after_row", p.after),
		cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before),
		cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after),
	)
}

func (p *OTELPlugin) before(db *gorm.DB) {
	ctx, span := p.tracer.Start(db.Statement.Context, "db."+tableName(db),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemPostgreSQL,
			attribute.String("db.table", tableName(db)),
		),
	)

	db.InstanceSet(keyStart, time.Now())
	db.InstanceSet(keySpan, span)
	db.Statement.Context = ctx
}

func (p *OTELPlugin) after(db *gorm.DB) {
	v, ok := db.InstanceGet(keySpan)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	operation := OperationName(db.Statement.SQL.String())
	span.SetName(operation)
	span.SetAttributes(
		semconv.DBStatement(SanitizeSQL(db.Statement.SQL.String(), p.config.MaxSQLLength)),
		attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
	)

	status := "success"
	switch {
	case db.Error == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(db.Error, gorm.ErrRecordNotFound):
		span.SetStatus(codes.Ok, "record not found")
	default:
		status = "error"
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if !p.config.EnableMetrics {
		return
	}

	var elapsed float64
	if s, ok := db.InstanceGet(keyStart); ok {
		if start, ok := s.(time.Time); ok {
			elapsed = time.Since(start).Seconds()
		}
	}

	attrs := metric.WithAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.status", status),
	)
	ctx := db.Statement.Context
	p.queries.Add(ctx, 1, attrs)
	p.duration.Record(ctx, elapsed, attrs)
}

func tableName(db *gorm.DB) string {
	if db.Statement.Table != "" {
		return db.Statement.Table
	}
	return "unknown"
}

// OperationName 根据 SQL 首个关键字得到 span 名称
func OperationName(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "db.unknown"
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT":
		return "db.select"
	case "INSERT":
		return "db.insert"
	case "UPDATE":
		return "db.update"
	case "DELETE":
		return "db.delete"
	default:
		return "db.query"
	}
}

// SanitizeSQL 截断过长语句并遮盖字面量中的敏感字段
func SanitizeSQL(sql string, maxLen int) string {
	if maxLen > 0 && len(sql) > maxLen {
		sql = sql[:maxLen] + "..."
	}
	return secretPattern.ReplaceAllString(sql, "$1='***'")
}
