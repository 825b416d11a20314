package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"CommunitySpaces/config"
	"CommunitySpaces/pkg/logger"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

// Init 建立连接并声明交换机与队列。
func Init() error {
	connOnce.Do(func() {
		c, err := amqp.Dial(config.Cfg.GetRabbitMQURL())
		if err != nil {
			connErr = fmt.Errorf("dial rabbitmq: %w", err)
			return
		}

		ch, err := c.Channel()
		if err != nil {
			_ = c.Close()
			connErr = fmt.Errorf("open channel: %w", err)
			return
		}
		defer ch.Close()

		if err := DeclareTopology(ch); err != nil {
			_ = c.Close()
			connErr = err
			return
		}

		conn = c
		logger.Logger.Info("RabbitMQ initialized",
			zap.String("exchange", ExchangeCommunity),
		)
	})

	return connErr
}

func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	pubMutex.Lock()
	if publisherCh != nil && !publisherCh.IsClosed() {
		_ = publisherCh.Close()
	}
	publisherCh = nil
	pubMutex.Unlock()

	if conn == nil || conn.IsClosed() {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
