package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/metrics"
	mqotel "CommunitySpaces/pkg/mq"
)

// MessageHandler 处理单条消息，返回错误时消息被重新投递一次，再次失败进入死信队列。
type MessageHandler func(ctx context.Context, body []byte) error

type ConsumeOptions struct {
	Queue         string
	ConsumerTag   string
	PrefetchCount int
	Handler       MessageHandler
}

// Consume 阻塞消费直到 ctx 取消或通道关闭。
func Consume(ctx context.Context, opts ConsumeOptions) error {
	conn := Connection()
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if opts.PrefetchCount > 0 {
		if err := ch.Qos(opts.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	msgs, err := ch.ConsumeWithContext(
		ctx,
		opts.Queue,
		opts.ConsumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Logger.Info("Started consuming messages",
		zap.String("queue", opts.Queue),
		zap.String("consumer_tag", opts.ConsumerTag),
		zap.Int("prefetch_count", opts.PrefetchCount),
	)

	return Dispatch(ctx, opts, msgs)
}

// Dispatch 逐条处理投递，直到 ctx 取消或 msgs 关闭。
func Dispatch(ctx context.Context, opts ConsumeOptions, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			handleDelivery(ctx, opts, msg)
		}
	}
}

func handleDelivery(ctx context.Context, opts ConsumeOptions, msg amqp.Delivery) {
	msgCtx, span := mqotel.StartConsumeSpan(ctx, opts.Queue, msg)
	err := opts.Handler(msgCtx, msg.Body)
	mqotel.EndSpan(span, err)

	if err == nil {
		metrics.RecordMessageConsumed(msgCtx, opts.Queue, "ack")
		if ackErr := msg.Ack(false); ackErr != nil {
			logger.Logger.Warn("Failed to ack message", zap.String("queue", opts.Queue), zap.Error(ackErr))
		}
		return
	}

	requeue := !msg.Redelivered
	result := "requeue"
	if !requeue {
		result = "dead_letter"
	}

	logger.Logger.Error("Failed to process message",
		zap.String("queue", opts.Queue),
		zap.String("consumer_tag", opts.ConsumerTag),
		zap.String("message_id", msg.MessageId),
		zap.Bool("requeue", requeue),
		zap.Error(err),
	)
	metrics.RecordMessageConsumed(msgCtx, opts.Queue, result)

	if nackErr := msg.Nack(false, requeue); nackErr != nil {
		logger.Logger.Warn("Failed to nack message", zap.String("queue", opts.Queue), zap.Error(nackErr))
	}
}
