package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics 业务指标集合
type OTelMetrics struct {
	// 引导流程
	OnboardingStarted   metric.Int64Counter
	OnboardingAdvanced  metric.Int64Counter
	OnboardingBlocked   metric.Int64Counter
	OnboardingCancelled metric.Int64Counter
	OnboardingCompleted metric.Int64Counter
	OnboardingDuration  metric.Float64Histogram

	// 消息队列
	MessagesPublished metric.Int64Counter
	MessagesConsumed  metric.Int64Counter
}

var (
	// 全局指标实例，InitMetrics 之前为 nil，Record* 函数对 nil 安全
	metrics *OTelMetrics
)

// InitMetrics 初始化业务指标；meter 为空时使用全局 MeterProvider
func InitMetrics(meter metric.Meter) error {
	if meter == nil {
		meter = otel.Meter("community-spaces")
	}

	m := &OTelMetrics{}
	var err error

	if m.OnboardingStarted, err = meter.Int64Counter(
		"onboarding_started_total",
		metric.WithDescription("Onboarding sessions started"),
		metric.WithUnit("{session}"),
	); err != nil {
		return err
	}

	if m.OnboardingAdvanced, err = meter.Int64Counter(
		"onboarding_advanced_total",
		metric.WithDescription("Successful step advances, by step left"),
		metric.WithUnit("{advance}"),
	); err != nil {
		return err
	}

	if m.OnboardingBlocked, err = meter.Int64Counter(
		"onboarding_blocked_total",
		metric.WithDescription("Advances blocked by step validation"),
		metric.WithUnit("{advance}"),
	); err != nil {
		return err
	}

	if m.OnboardingCancelled, err = meter.Int64Counter(
		"onboarding_cancelled_total",
		metric.WithDescription("Onboarding sessions cancelled, by step"),
		metric.WithUnit("{session}"),
	); err != nil {
		return err
	}

	if m.OnboardingCompleted, err = meter.Int64Counter(
		"onboarding_completed_total",
		metric.WithDescription("Onboarding sessions finished with a profile"),
		metric.WithUnit("{session}"),
	); err != nil {
		return err
	}

	if m.OnboardingDuration, err = meter.Float64Histogram(
		"onboarding_duration_seconds",
		metric.WithDescription("Time from session start to finish"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(30, 60, 120, 300, 600, 1800, 3600, 86400),
	); err != nil {
		return err
	}

	if m.MessagesPublished, err = meter.Int64Counter(
		"mq_messages_published_total",
		metric.WithDescription("Messages published to RabbitMQ"),
		metric.WithUnit("{message}"),
	); err != nil {
		return err
	}

	if m.MessagesConsumed, err = meter.Int64Counter(
		"mq_messages_consumed_total",
		metric.WithDescription("Messages consumed from RabbitMQ, by result"),
		metric.WithUnit("{message}"),
	); err != nil {
		return err
	}

	metrics = m
	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

func stepAttr(step string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("step", step))
}

// RecordOnboardingStarted 新的引导会话
func RecordOnboardingStarted(ctx context.Context) {
	if m := GetMetrics(); m != nil {
		m.OnboardingStarted.Add(ctx, 1)
	}
}

// RecordOnboardingAdvanced 从 step 成功前进
func RecordOnboardingAdvanced(ctx context.Context, step string) {
	if m := GetMetrics(); m != nil {
		m.OnboardingAdvanced.Add(ctx, 1, stepAttr(step))
	}
}

// RecordOnboardingBlocked 在 step 前进被校验阻止
func RecordOnboardingBlocked(ctx context.Context, step string) {
	if m := GetMetrics(); m != nil {
		m.OnboardingBlocked.Add(ctx, 1, stepAttr(step))
	}
}

// RecordOnboardingCancelled 在 step 取消
func RecordOnboardingCancelled(ctx context.Context, step string) {
	if m := GetMetrics(); m != nil {
		m.OnboardingCancelled.Add(ctx, 1, stepAttr(step))
	}
}

// RecordOnboardingCompleted 引导完成，seconds 为会话持续时间
func RecordOnboardingCompleted(ctx context.Context, seconds float64) {
	if m := GetMetrics(); m != nil {
		m.OnboardingCompleted.Add(ctx, 1)
		if seconds > 0 {
			m.OnboardingDuration.Record(ctx, seconds)
		}
	}
}

// RecordMessagePublished 消息发布
func RecordMessagePublished(ctx context.Context, routingKey string) {
	if m := GetMetrics(); m != nil {
		m.MessagesPublished.Add(ctx, 1, metric.WithAttributes(attribute.String("routing_key", routingKey)))
	}
}

// RecordMessageConsumed 消息消费，result 为 ack / nack / requeue
func RecordMessageConsumed(ctx context.Context, queue, result string) {
	if m := GetMetrics(); m != nil {
		m.MessagesConsumed.Add(ctx, 1, metric.WithAttributes(
			attribute.String("queue", queue),
			attribute.String("result", result),
		))
	}
}
