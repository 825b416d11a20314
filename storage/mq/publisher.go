package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/metrics"
	mqotel "CommunitySpaces/pkg/mq"
)

var (
	publisherCh *amqp.Channel
	pubMutex    sync.RWMutex
)

func getPublisherChannel() (*amqp.Channel, error) {
	pubMutex.RLock()
	if publisherCh != nil && !publisherCh.IsClosed() {
		ch := publisherCh
		pubMutex.RUnlock()
		return ch, nil
	}
	pubMutex.RUnlock()

	pubMutex.Lock()
	defer pubMutex.Unlock()

	if publisherCh != nil && !publisherCh.IsClosed() {
		return publisherCh, nil
	}

	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}

	publisherCh = ch

	closeChan := ch.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		<-closeChan

		pubMutex.Lock()
		if publisherCh == ch {
			publisherCh = nil
		}
		pubMutex.Unlock()

		logger.Logger.Warn("Publisher channel closed, will recreate on next publish",
			zap.String("component", "rabbitmq"),
		)
	}()

	logger.Logger.Info("Publisher channel created",
		zap.String("component", "rabbitmq"),
	)

	return ch, nil
}

// NewPublishing 构造持久化 JSON 消息，并注入当前链路上下文。
func NewPublishing(ctx context.Context, messageID string, body interface{}) (amqp.Publishing, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    messageID,
		Body:         bodyBytes,
		Headers:      mqotel.InjectHeaders(ctx, nil),
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}, nil
}

// PublishMessage 发送普通消息
func PublishMessage(ctx context.Context, exchange, routingKey, messageID string, body interface{}) (err error) {
	ctx, span := mqotel.StartPublishSpan(ctx, exchange, routingKey)
	defer func() { mqotel.EndSpan(span, err) }()

	msg, err := NewPublishing(ctx, messageID, body)
	if err != nil {
		return err
	}

	ch, err := getPublisherChannel()
	if err != nil {
		return err
	}

	if err = ch.PublishWithContext(ctx, exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	metrics.RecordMessagePublished(ctx, routingKey)
	return nil
}
