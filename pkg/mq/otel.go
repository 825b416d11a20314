package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "community-spaces.rabbitmq"

// HeaderCarrier 让 amqp.Table 作为 propagation.TextMapCarrier 使用
type HeaderCarrier amqp.Table

var _ propagation.TextMapCarrier = HeaderCarrier{}

func (h HeaderCarrier) Get(key string) string {
	if v, ok := h[key].(string); ok {
		return v
	}
	return ""
}

func (h HeaderCarrier) Set(key, value string) {
	h[key] = value
}

func (h HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}

// InjectHeaders 把当前 trace 上下文写入消息头，返回新的 Table
func InjectHeaders(ctx context.Context, headers amqp.Table) amqp.Table {
	out := make(amqp.Table, len(headers)+2)
	for k, v := range headers {
		out[k] = v
	}
	otel.GetTextMapPropagator().Inject(ctx, HeaderCarrier(out))
	return out
}

// ExtractContext 从消息头恢复上游 trace 上下文
func ExtractContext(ctx context.Context, headers amqp.Table) context.Context {
	if headers == nil {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, HeaderCarrier(headers))
}

// StartPublishSpan 开始一次发布的 producer span
func StartPublishSpan(ctx context.Context, exchange, routingKey string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "rabbitmq.publish "+routingKey,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystem("rabbitmq"),
			semconv.MessagingDestinationName(exchange),
			semconv.MessagingRabbitmqDestinationRoutingKey(routingKey),
		),
	)
}

// StartConsumeSpan 为一条投递开始 consumer span，父上下文取自消息头
func StartConsumeSpan(ctx context.Context, queue string, d amqp.Delivery) (context.Context, trace.Span) {
	ctx = ExtractContext(ctx, d.Headers)
	return otel.Tracer(tracerName).Start(ctx, "rabbitmq.process "+queue,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystem("rabbitmq"),
			semconv.MessagingMessageID(d.MessageId),
			semconv.MessagingRabbitmqDestinationRoutingKey(d.RoutingKey),
			attribute.String("messaging.rabbitmq.queue", queue),
			attribute.Bool("messaging.rabbitmq.redelivered", d.Redelivered),
		),
	)
}

// EndSpan 按错误设置状态并结束 span
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
