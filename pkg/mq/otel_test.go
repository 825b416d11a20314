package mq

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestInjectExtractRoundTrip(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	original := amqp.Table{"x-origin": "server"}
	headers := InjectHeaders(ctx, original)

	assert.Equal(t, "server", headers["x-origin"])
	assert.NotContains(t, original, "traceparent")
	require.Contains(t, headers, "traceparent")

	got := trace.SpanContextFromContext(ExtractContext(context.Background(), headers))
	assert.Equal(t, span.SpanContext().TraceID(), got.TraceID())
}

func TestExtractContext_NilHeaders(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ExtractContext(ctx, nil))
}
