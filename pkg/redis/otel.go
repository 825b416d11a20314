package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// 会话与令牌类键只保留第一段
var sensitiveKeyParts = []string{"token", "password", "secret", "session", "onboarding"}

// TracingHook Redis 追踪 Hook
type TracingHook struct {
	tracer   trace.Tracer
	attrs    []attribute.KeyValue
	commands metric.Int64Counter
	duration metric.Float64Histogram
	hits     metric.Int64Counter
	misses   metric.Int64Counter
}

var _ redis.Hook = (*TracingHook)(nil)

// NewTracingHook 创建追踪 Hook，指标从全局 MeterProvider 获取
func NewTracingHook(serviceName string, db int) (*TracingHook, error) {
	meter := otel.Meter(serviceName + ".redis")
	h := &TracingHook{
		tracer: otel.Tracer(serviceName + ".redis"),
		attrs: []attribute.KeyValue{
			semconv.DBSystemRedis,
			semconv.DBRedisDBIndex(db),
		},
	}

	var err error
	if h.commands, err = meter.Int64Counter("redis.commands.total",
		metric.WithDescription("Total number of Redis commands"),
		metric.WithUnit("{command}"),
	); err != nil {
		return nil, err
	}
	if h.duration, err = meter.Float64Histogram("redis.command.duration",
		metric.WithDescription("Redis command duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0),
	); err != nil {
		return nil, err
	}
	if h.hits, err = meter.Int64Counter("redis.cache.hits",
		metric.WithDescription("GET commands that found a value"),
		metric.WithUnit("{hit}"),
	); err != nil {
		return nil, err
	}
	if h.misses, err = meter.Int64Counter("redis.cache.misses",
		metric.WithDescription("GET commands that found nothing"),
		metric.WithUnit("{miss}"),
	); err != nil {
		return nil, err
	}
	return h, nil
}

// DialHook 实现 redis.Hook 接口
func (th *TracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

// ProcessHook 实现 redis.Hook 接口
func (th *TracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		name := strings.ToUpper(cmd.Name())
		ctx, span := th.tracer.Start(ctx, "redis."+strings.ToLower(name),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(th.attrs...),
		)
		defer span.End()

		span.SetAttributes(semconv.DBOperation(name))
		if keys := ExtractKeys(cmd.Args()); len(keys) > 0 {
			span.SetAttributes(attribute.StringSlice("redis.keys", keys))
		}

		start := time.Now()
		err := next(ctx, cmd)

		status := "success"
		switch {
		case err == nil:
			span.SetStatus(codes.Ok, "")
		case errors.Is(err, redis.Nil):
			status = "not_found"
			span.SetStatus(codes.Ok, "key not found")
		default:
			status = "error"
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}

		attrs := metric.WithAttributes(
			attribute.String("redis.command", name),
			attribute.String("redis.status", status),
		)
		th.commands.Add(ctx, 1, attrs)
		th.duration.Record(ctx, time.Since(start).Seconds(), attrs)

		if name == "GET" {
			switch status {
			case "success":
				th.hits.Add(ctx, 1)
			case "not_found":
				th.misses.Add(ctx, 1)
			}
		}
		return err
	}
}

// ProcessPipelineHook 实现 redis.Hook 接口
func (th *TracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := th.tracer.Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(th.attrs...),
		)
		defer span.End()

		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, strings.ToUpper(cmd.Name()))
		}
		span.SetAttributes(
			attribute.Int("redis.pipeline.count", len(cmds)),
			attribute.StringSlice("redis.pipeline.commands", names),
		)

		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}

		th.commands.Add(ctx, int64(len(cmds)), metric.WithAttributes(
			attribute.String("redis.command", "PIPELINE"),
		))
		return err
	}
}

// ExtractKeys 提取命令的首个键名，值不记录
func ExtractKeys(args []interface{}) []string {
	if len(args) < 2 {
		return nil
	}
	key, ok := args[1].(string)
	if !ok {
		return nil
	}
	return []string{SanitizeKey(key)}
}

// SanitizeKey 遮盖敏感键名并限制长度
func SanitizeKey(key string) string {
	lower := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lower, part) {
			if i := strings.Index(key, ":"); i > 0 {
				return key[:i] + ":***"
			}
			return "***"
		}
	}
	if len(key) > 100 {
		return key[:100] + "..."
	}
	return key
}

// InstrumentClient 为 Redis 客户端挂载追踪 Hook
func InstrumentClient(client *redis.Client, serviceName string, db int) error {
	hook, err := NewTracingHook(serviceName, db)
	if err != nil {
		return err
	}
	client.AddHook(hook)
	return nil
}
